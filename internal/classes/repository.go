package classes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, class *Class) error
	GetByID(ctx context.Context, id uuid.UUID) (*Class, error)
	GetAll(ctx context.Context, query ClassListQuery) ([]Class, error)
	GetActive(ctx context.Context, now time.Time) ([]Class, error)

	// Admin mutations run against the same class row the reservation flow
	// locks, so both take the row lock and read counters from the locked row.
	UpdateLocked(ctx context.Context, id uuid.UUID, mutate func(class *Class) (map[string]interface{}, error)) (*Class, error)
	DeleteLocked(ctx context.Context, id uuid.UUID, guard func(class *Class) error) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, class *Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Class, error) {
	var class Class
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&class).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return &class, nil
}

func (r *repository) GetAll(ctx context.Context, query ClassListQuery) ([]Class, error) {
	var result []Class

	dbQuery := r.db.WithContext(ctx).Model(&Class{})

	if query.Category != "" {
		dbQuery = dbQuery.Where("category = ?", query.Category)
	}
	if query.Status != "" {
		dbQuery = dbQuery.Where("status = ?", query.Status)
	}
	if query.Day != "" {
		if dow, ok := dayOfWeek(query.Day); ok {
			dbQuery = dbQuery.Where("EXTRACT(DOW FROM date) = ?", dow)
		}
	}

	err := dbQuery.Order("date ASC").Find(&result).Error
	return result, err
}

// GetActive returns bookable classes whose schedule has not yet started,
// soonest first.
func (r *repository) GetActive(ctx context.Context, now time.Time) ([]Class, error) {
	var result []Class
	err := r.db.WithContext(ctx).
		Where("date >= ?", now).
		Where("status IN ?", []Status{StatusActive, StatusFull}).
		Order("date ASC").
		Find(&result).Error
	return result, err
}

// UpdateLocked locks the class row, hands the current row to mutate, and
// applies the updates it returns inside the same transaction. Counters read
// inside mutate cannot be stale: any concurrent spot claim waits on the row
// lock.
func (r *repository) UpdateLocked(ctx context.Context, id uuid.UUID, mutate func(class *Class) (map[string]interface{}, error)) (*Class, error) {
	var updated Class

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var class Class
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&class).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClassNotFound
			}
			return err
		}

		updates, err := mutate(&class)
		if err != nil {
			return err
		}
		updates["updated_at"] = time.Now().UTC()

		if err := tx.Model(&Class{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteLocked locks the class row, runs the guard, and deletes the row only
// if the guard passes. Spot claims take the same row lock before inserting
// into the ledger, so a ledger count taken under this lock is final.
func (r *repository) DeleteLocked(ctx context.Context, id uuid.UUID, guard func(class *Class) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var class Class
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&class).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrClassNotFound
			}
			return err
		}

		if err := guard(&class); err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&Class{}).Error
	})
}

// ApplySpotCount is the single write path for a class's spot counters. It must
// be called with a transaction that holds the class row lock; it rewrites
// reserved_spots and re-derives the status from the new counter.
func ApplySpotCount(tx *gorm.DB, class *Class, reservedSpots int) error {
	if reservedSpots < 0 {
		reservedSpots = 0
	}

	status := StatusFor(class.TotalSpots, reservedSpots, class.Status == StatusCancelled)

	err := tx.Model(&Class{}).
		Where("id = ?", class.ID).
		Updates(map[string]interface{}{
			"reserved_spots": reservedSpots,
			"status":         status,
			"updated_at":     time.Now().UTC(),
		}).Error
	if err != nil {
		return err
	}

	class.ReservedSpots = reservedSpots
	class.Status = status
	return nil
}

func dayOfWeek(day string) (int, bool) {
	days := map[string]int{
		"sunday":    0,
		"monday":    1,
		"tuesday":   2,
		"wednesday": 3,
		"thursday":  4,
		"friday":    5,
		"saturday":  6,
	}
	dow, ok := days[day]
	return dow, ok
}
