package reservations

import (
	"context"
	"fmt"
	"time"

	"fitbook/internal/users"
	"fitbook/pkg/logger"

	"github.com/google/uuid"
)

// IdentityDirectory resolves the acting member to the snapshot stored on the
// reservation. Implemented by the auth identity adapter; injected to avoid a
// circular dependency.
type IdentityDirectory interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (email, firstName, lastName string, err error)
}

// EventPublisher pushes reservation lifecycle events to the notification
// pipeline. Publishing is best effort and never fails a committed booking.
type EventPublisher interface {
	PublishReservationConfirmed(ctx context.Context, reservation *Reservation) error
	PublishReservationCancelled(ctx context.Context, reservation *Reservation) error
}

// CatalogInvalidator drops cached class listings after a spot counter moves.
type CatalogInvalidator interface {
	InvalidateListings(ctx context.Context)
}

type Service interface {
	// Service dependency injection
	SetEventPublisher(publisher EventPublisher)
	SetCatalogInvalidator(catalog CatalogInvalidator)

	Reserve(ctx context.Context, userID uuid.UUID, classID uuid.UUID) (*ReservationResponse, error)
	Cancel(ctx context.Context, reservationID uuid.UUID, userID uuid.UUID, role string) (*ReservationResponse, error)

	GetReservation(ctx context.Context, reservationID uuid.UUID) (*ReservationResponse, error)
	ListUpcoming(ctx context.Context, userID uuid.UUID) ([]ReservationResponse, error)
	ListCompleted(ctx context.Context, userID uuid.UUID) ([]ReservationResponse, error)
	ListCancelled(ctx context.Context, userID uuid.UUID) ([]ReservationResponse, error)
	ClassReservations(ctx context.Context, classID uuid.UUID) ([]ReservationResponse, error)
	ListAll(ctx context.Context) ([]ReservationResponse, error)
}

type service struct {
	repo        Repository
	coordinator Coordinator
	identity    IdentityDirectory
	publisher   EventPublisher
	catalog     CatalogInvalidator
	log         *logger.Logger
}

func NewService(repo Repository, coordinator Coordinator, identity IdentityDirectory) Service {
	return &service{
		repo:        repo,
		coordinator: coordinator,
		identity:    identity,
		log:         logger.GetDefault(),
	}
}

// SetEventPublisher injects the notification producer. The service works
// without one; lifecycle events are simply not published.
func (s *service) SetEventPublisher(publisher EventPublisher) {
	s.publisher = publisher
}

// SetCatalogInvalidator injects the class listing cache invalidator.
func (s *service) SetCatalogInvalidator(catalog CatalogInvalidator) {
	s.catalog = catalog
}

func (s *service) Reserve(ctx context.Context, userID uuid.UUID, classID uuid.UUID) (*ReservationResponse, error) {
	email, firstName, lastName, err := s.identity.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve member identity: %w", err)
	}

	userName := (&users.User{FirstName: firstName, LastName: lastName}).DisplayName()

	reservation, err := s.coordinator.Reserve(ctx, userID, userName, email, classID)
	if err != nil {
		return nil, err
	}

	s.log.LogReservationCreated(ctx, reservation.ID.String(), classID.String(), userID.String())
	s.invalidateCatalog(ctx)
	s.publishConfirmed(ctx, reservation)

	response := reservation.ToResponse(time.Now())
	return &response, nil
}

func (s *service) Cancel(ctx context.Context, reservationID uuid.UUID, userID uuid.UUID, role string) (*ReservationResponse, error) {
	reservation, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	if role != string(users.RoleAdmin) && reservation.UserID != userID {
		return nil, ErrNotReservationOwner
	}

	cancelled, err := s.coordinator.Release(ctx, reservationID, reservation.ClassID, time.Now())
	if err != nil {
		return nil, err
	}

	s.log.LogReservationCancelled(ctx, cancelled.ID.String(), cancelled.ClassID.String(), userID.String())
	s.invalidateCatalog(ctx)
	s.publishCancelled(ctx, cancelled)

	response := cancelled.ToResponse(time.Now())
	return &response, nil
}

func (s *service) GetReservation(ctx context.Context, reservationID uuid.UUID) (*ReservationResponse, error) {
	reservation, err := s.repo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	response := reservation.ToResponse(time.Now())
	return &response, nil
}

// ListUpcoming returns the member's confirmed reservations for classes that
// have not started yet, soonest last (the ledger orders by class date
// descending).
func (s *service) ListUpcoming(ctx context.Context, userID uuid.UUID) ([]ReservationResponse, error) {
	return s.listByEffectiveStatus(ctx, userID, StatusConfirmed)
}

func (s *service) ListCompleted(ctx context.Context, userID uuid.UUID) ([]ReservationResponse, error) {
	return s.listByEffectiveStatus(ctx, userID, StatusCompleted)
}

func (s *service) ListCancelled(ctx context.Context, userID uuid.UUID) ([]ReservationResponse, error) {
	return s.listByEffectiveStatus(ctx, userID, StatusCancelled)
}

func (s *service) ClassReservations(ctx context.Context, classID uuid.UUID) ([]ReservationResponse, error) {
	result, err := s.repo.ListByClass(ctx, classID, StatusConfirmed)
	if err != nil {
		return nil, err
	}
	return toResponses(result), nil
}

func (s *service) ListAll(ctx context.Context) ([]ReservationResponse, error) {
	result, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(result), nil
}

func (s *service) listByEffectiveStatus(ctx context.Context, userID uuid.UUID, status Status) ([]ReservationResponse, error) {
	result, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	responses := make([]ReservationResponse, 0, len(result))
	for i := range result {
		if EffectiveStatus(result[i].Status, result[i].ClassDate, now) != status {
			continue
		}
		responses = append(responses, result[i].ToResponse(now))
	}
	return responses, nil
}

func (s *service) invalidateCatalog(ctx context.Context) {
	if s.catalog != nil {
		s.catalog.InvalidateListings(ctx)
	}
}

func (s *service) publishConfirmed(ctx context.Context, reservation *Reservation) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishReservationConfirmed(ctx, reservation); err != nil {
		s.log.ErrorWithContext(ctx, "failed to publish reservation confirmation", err, map[string]interface{}{
			"reservation_id": reservation.ID.String(),
		})
	}
}

func (s *service) publishCancelled(ctx context.Context, reservation *Reservation) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishReservationCancelled(ctx, reservation); err != nil {
		s.log.ErrorWithContext(ctx, "failed to publish reservation cancellation", err, map[string]interface{}{
			"reservation_id": reservation.ID.String(),
		})
	}
}

func toResponses(result []Reservation) []ReservationResponse {
	now := time.Now()
	responses := make([]ReservationResponse, len(result))
	for i := range result {
		responses[i] = result[i].ToResponse(now)
	}
	return responses
}
