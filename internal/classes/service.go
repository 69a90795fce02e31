package classes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitbook/internal/shared/constants"
	"fitbook/pkg/cache"

	"github.com/google/uuid"
)

var (
	ErrClassNotFound         = errors.New("class not found")
	ErrClassDateInPast       = errors.New("class date must be in the future")
	ErrCapacityBelowReserved = errors.New("total spots cannot be lowered below current reservations")
	ErrClassHasReservations  = errors.New("class has confirmed reservations and cannot be deleted")
	ErrInvalidCapacity       = fmt.Errorf("total spots must be between 1 and %d", MaxTotalSpots)
	ErrInvalidScheduleWindow = errors.New("end time must be after start time")
)

type Service interface {
	// Service dependency injection
	SetReservationCounter(counter ReservationCounter)
	SetCacheService(cacheService cache.Service)

	CreateClass(ctx context.Context, adminID uuid.UUID, req CreateClassRequest) (*ClassResponse, error)
	GetClassByID(ctx context.Context, id uuid.UUID) (*ClassResponse, error)
	GetAllClasses(ctx context.Context, query ClassListQuery) ([]ClassResponse, error)
	GetActiveClasses(ctx context.Context) ([]ClassResponse, error)
	UpdateClass(ctx context.Context, id uuid.UUID, adminID uuid.UUID, req UpdateClassRequest) (*ClassResponse, error)
	DeleteClass(ctx context.Context, id uuid.UUID) error

	// InvalidateListings drops cached class listings after counter mutations
	// performed outside this service (the reservation flow).
	InvalidateListings(ctx context.Context)
}

// ReservationCounter reports how many confirmed reservations reference a
// class. Implemented by the reservations repository; injected to avoid a
// circular dependency.
type ReservationCounter interface {
	CountConfirmedByClass(ctx context.Context, classID uuid.UUID) (int64, error)
}

type service struct {
	repo         Repository
	counter      ReservationCounter
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SetReservationCounter(counter ReservationCounter) {
	s.counter = counter
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) CreateClass(ctx context.Context, adminID uuid.UUID, req CreateClassRequest) (*ClassResponse, error) {
	if !req.Date.After(time.Now()) {
		return nil, ErrClassDateInPast
	}
	if req.TotalSpots < 1 || req.TotalSpots > MaxTotalSpots {
		return nil, ErrInvalidCapacity
	}
	if req.EndTime <= req.StartTime {
		return nil, ErrInvalidScheduleWindow
	}

	class := &Class{
		Name:          req.Name,
		Description:   req.Description,
		Instructor:    req.Instructor,
		Category:      req.Category,
		Icon:          req.Icon,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		TotalSpots:    req.TotalSpots,
		ReservedSpots: 0,
		Status:        StatusActive,
		CreatedBy:     adminID,
	}

	if err := s.repo.Create(ctx, class); err != nil {
		return nil, fmt.Errorf("failed to create class: %w", err)
	}

	s.InvalidateListings(ctx)

	response := class.ToResponse()
	return &response, nil
}

func (s *service) GetClassByID(ctx context.Context, id uuid.UUID) (*ClassResponse, error) {
	cacheKey := constants.CACHE_KEY_CLASS_DETAIL + id.String()
	if s.cacheService != nil {
		var cached ClassResponse
		if err := s.cacheService.Get(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	class, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := class.ToResponse()
	if s.cacheService != nil {
		_ = s.cacheService.Set(ctx, cacheKey, response, constants.TTL_CLASS_DETAIL)
	}
	return &response, nil
}

func (s *service) GetAllClasses(ctx context.Context, query ClassListQuery) ([]ClassResponse, error) {
	result, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, err
	}
	return toResponses(result), nil
}

func (s *service) GetActiveClasses(ctx context.Context) ([]ClassResponse, error) {
	fetch := func() (interface{}, error) {
		result, err := s.repo.GetActive(ctx, time.Now())
		if err != nil {
			return nil, err
		}
		return toResponses(result), nil
	}

	if s.cacheService == nil {
		result, err := fetch()
		if err != nil {
			return nil, err
		}
		return result.([]ClassResponse), nil
	}

	var responses []ClassResponse
	err := s.cacheService.GetOrSet(ctx, constants.CACHE_KEY_CLASSES_ACTIVE, constants.TTL_CLASS_LIST, fetch, &responses)
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func (s *service) UpdateClass(ctx context.Context, id uuid.UUID, adminID uuid.UUID, req UpdateClassRequest) (*ClassResponse, error) {
	if req.Date != nil && !req.Date.After(time.Now()) {
		return nil, ErrClassDateInPast
	}
	if req.TotalSpots != nil && (*req.TotalSpots < 1 || *req.TotalSpots > MaxTotalSpots) {
		return nil, ErrInvalidCapacity
	}

	// Counter checks and the status recompute read the locked row, never an
	// earlier snapshot, so a spot claim landing mid-update cannot leave a
	// full class marked active.
	updated, err := s.repo.UpdateLocked(ctx, id, func(class *Class) (map[string]interface{}, error) {
		updates := map[string]interface{}{}

		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Instructor != nil {
			updates["instructor"] = *req.Instructor
		}
		if req.Category != nil {
			updates["category"] = *req.Category
		}
		if req.Icon != nil {
			updates["icon"] = *req.Icon
		}
		if req.Date != nil {
			updates["date"] = *req.Date
		}
		if req.StartTime != nil {
			updates["start_time"] = *req.StartTime
		}
		if req.EndTime != nil {
			updates["end_time"] = *req.EndTime
		}

		totalSpots := class.TotalSpots
		if req.TotalSpots != nil {
			// Shrinking below the confirmed count would drive availableSpots
			// negative, so it is rejected outright.
			if *req.TotalSpots < class.ReservedSpots {
				return nil, ErrCapacityBelowReserved
			}
			totalSpots = *req.TotalSpots
			updates["total_spots"] = totalSpots
		}

		cancelled := class.Status == StatusCancelled
		if req.Status != nil {
			cancelled = Status(*req.Status) == StatusCancelled
		}
		updates["status"] = StatusFor(totalSpots, class.ReservedSpots, cancelled)

		return updates, nil
	})
	if err != nil {
		if errors.Is(err, ErrClassNotFound) || errors.Is(err, ErrCapacityBelowReserved) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update class: %w", err)
	}

	s.InvalidateListings(ctx)

	response := updated.ToResponse()
	return &response, nil
}

func (s *service) DeleteClass(ctx context.Context, id uuid.UUID) error {
	err := s.repo.DeleteLocked(ctx, id, func(class *Class) error {
		if s.counter == nil {
			return nil
		}
		count, err := s.counter.CountConfirmedByClass(ctx, class.ID)
		if err != nil {
			return fmt.Errorf("failed to check class reservations: %w", err)
		}
		if count > 0 {
			return ErrClassHasReservations
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrClassNotFound) || errors.Is(err, ErrClassHasReservations) {
			return err
		}
		return fmt.Errorf("failed to delete class: %w", err)
	}

	s.InvalidateListings(ctx)
	return nil
}

func (s *service) InvalidateListings(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	_ = s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_CLASSES)
}

func toResponses(result []Class) []ClassResponse {
	responses := make([]ClassResponse, len(result))
	for i := range result {
		responses[i] = result[i].ToResponse()
	}
	return responses
}
