package reservations

import (
	"time"

	"github.com/google/uuid"
)

// Reservation is one member's claim on one spot of one class. The class
// name, date and time window are snapshotted at booking time so history
// survives later catalog edits. ClassDate is the sole elapsed cutoff for
// cancellation and the completed read-state; ClassTime is display only, so
// a class stored with a midnight date counts as elapsed for its whole day.
type Reservation struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	UserName  string    `gorm:"size:255;not null" json:"user_name"`
	UserEmail string    `gorm:"size:255;not null" json:"user_email"`
	ClassID   uuid.UUID `gorm:"type:uuid;index;not null" json:"class_id"`
	ClassName string    `gorm:"size:255;not null" json:"class_name"`
	ClassDate time.Time `gorm:"not null" json:"class_date"`
	ClassTime string    `gorm:"size:32;not null" json:"class_time"`
	Status    Status    `gorm:"type:varchar(20);check:status IN ('CONFIRMED', 'CANCELLED');default:'CONFIRMED'" json:"status"`

	ReservationDate time.Time  `gorm:"autoCreateTime" json:"reservation_date"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
}

func (r *Reservation) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}

func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// TableName sets the table name for Reservation
func (Reservation) TableName() string {
	return "reservations"
}

type ReservationResponse struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	UserName        string     `json:"user_name"`
	UserEmail       string     `json:"user_email"`
	ClassID         string     `json:"class_id"`
	ClassName       string     `json:"class_name"`
	ClassDate       time.Time  `json:"class_date"`
	ClassTime       string     `json:"class_time"`
	Status          Status     `json:"status"`
	ReservationDate time.Time  `json:"reservation_date"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
}

func (r *Reservation) ToResponse(now time.Time) ReservationResponse {
	return ReservationResponse{
		ID:              r.ID.String(),
		UserID:          r.UserID.String(),
		UserName:        r.UserName,
		UserEmail:       r.UserEmail,
		ClassID:         r.ClassID.String(),
		ClassName:       r.ClassName,
		ClassDate:       r.ClassDate,
		ClassTime:       r.ClassTime,
		Status:          EffectiveStatus(r.Status, r.ClassDate, now),
		ReservationDate: r.ReservationDate,
		CancelledAt:     r.CancelledAt,
	}
}

type ReserveRequest struct {
	ClassID string `json:"class_id" binding:"required,uuid"`
}
