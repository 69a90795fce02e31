package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitbook/internal/classes"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Ledger reads
	GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	FindConfirmed(ctx context.Context, userID, classID uuid.UUID) (*Reservation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Reservation, error)
	ListByClass(ctx context.Context, classID uuid.UUID, status Status) ([]Reservation, error)
	ListAll(ctx context.Context) ([]Reservation, error)
	CountConfirmedByClass(ctx context.Context, classID uuid.UUID) (int64, error)

	// Atomic spot accounting. The ledger write and the class counter write
	// commit together or not at all.
	CreateWithSpotClaim(ctx context.Context, userID uuid.UUID, userName, userEmail string, classID uuid.UUID) (*Reservation, error)
	CancelWithSpotRelease(ctx context.Context, reservationID uuid.UUID, now time.Time) (*Reservation, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) FindConfirmed(ctx context.Context, userID, classID uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND class_id = ? AND status = ?", userID, classID, StatusConfirmed).
		First(&reservation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &reservation, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Reservation, error) {
	var result []Reservation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("class_date DESC").
		Find(&result).Error
	return result, err
}

func (r *repository) ListByClass(ctx context.Context, classID uuid.UUID, status Status) ([]Reservation, error) {
	var result []Reservation
	query := r.db.WithContext(ctx).Where("class_id = ?", classID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("reservation_date ASC").Find(&result).Error
	return result, err
}

func (r *repository) ListAll(ctx context.Context) ([]Reservation, error) {
	var result []Reservation
	err := r.db.WithContext(ctx).
		Order("reservation_date DESC").
		Find(&result).Error
	return result, err
}

func (r *repository) CountConfirmedByClass(ctx context.Context, classID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Reservation{}).
		Where("class_id = ? AND status = ?", classID, StatusConfirmed).
		Count(&count).Error
	return count, err
}

// CreateWithSpotClaim runs the full reserve protocol in one transaction:
// lock the class row, validate bookability, duplicate and capacity, then
// insert the confirmed reservation and bump the spot counter. The row lock
// serializes concurrent claims on the same class so the last spot is never
// handed out twice.
func (r *repository) CreateWithSpotClaim(ctx context.Context, userID uuid.UUID, userName, userEmail string, classID uuid.UUID) (*Reservation, error) {
	var created *Reservation

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var class classes.Class
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", classID).
			First(&class).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClassNotFound
			}
			return fmt.Errorf("failed to lock class: %w", err)
		}

		if class.Status == classes.StatusCancelled {
			return ErrClassNotBookable
		}

		var existing int64
		err = tx.Model(&Reservation{}).
			Where("user_id = ? AND class_id = ? AND status = ?", userID, classID, StatusConfirmed).
			Count(&existing).Error
		if err != nil {
			return fmt.Errorf("failed to check existing reservation: %w", err)
		}
		if existing > 0 {
			return ErrDuplicateReservation
		}

		if class.AvailableSpots() <= 0 {
			return ErrNoAvailableSpots
		}

		reservation := &Reservation{
			UserID:    userID,
			UserName:  userName,
			UserEmail: userEmail,
			ClassID:   class.ID,
			ClassName: class.Name,
			ClassDate: class.Date,
			ClassTime: class.Schedule(),
			Status:    StatusConfirmed,
		}
		if err := tx.Create(reservation).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}

		if err := classes.ApplySpotCount(tx, &class, class.ReservedSpots+1); err != nil {
			return fmt.Errorf("failed to update class spot count: %w", err)
		}

		created = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// CancelWithSpotRelease runs the cancel protocol in one transaction: mark
// the reservation cancelled and release its spot back to the class. The
// counter never goes below zero.
func (r *repository) CancelWithSpotRelease(ctx context.Context, reservationID uuid.UUID, now time.Time) (*Reservation, error) {
	var cancelled *Reservation

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reservation Reservation
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", reservationID).
			First(&reservation).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("failed to lock reservation: %w", err)
		}

		if reservation.IsCancelled() {
			return ErrAlreadyCancelled
		}
		// Cutoff is the stored class date timestamp; the time-window string
		// is display only.
		if reservation.ClassDate.Before(now) {
			return ErrClassAlreadyOccurred
		}

		var class classes.Class
		err = tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", reservation.ClassID).
			First(&class).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClassNotFound
			}
			return fmt.Errorf("failed to lock class: %w", err)
		}

		err = tx.Model(&Reservation{}).
			Where("id = ?", reservationID).
			Updates(map[string]interface{}{
				"status":       StatusCancelled,
				"cancelled_at": now,
				"updated_at":   now,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to cancel reservation: %w", err)
		}

		if err := classes.ApplySpotCount(tx, &class, class.ReservedSpots-1); err != nil {
			return fmt.Errorf("failed to release class spot: %w", err)
		}

		reservation.Status = StatusCancelled
		reservation.CancelledAt = &now
		reservation.UpdatedAt = now
		cancelled = &reservation
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}
