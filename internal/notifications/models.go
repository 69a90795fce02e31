package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ReservationEventType identifies the lifecycle transition being published
type ReservationEventType string

const (
	ReservationEventConfirmed ReservationEventType = "reservation.confirmed"
	ReservationEventCancelled ReservationEventType = "reservation.cancelled"
)

// ReservationEvent is the message published to the reservation events topic
// for every confirmed or cancelled reservation. Downstream consumers (email,
// push, analytics) fan out from this single stream.
type ReservationEvent struct {
	ID             uuid.UUID            `json:"id"`
	Type           ReservationEventType `json:"type"`
	ReservationID  uuid.UUID            `json:"reservation_id"`
	ClassID        uuid.UUID            `json:"class_id"`
	UserID         uuid.UUID            `json:"user_id"`
	UserName       string               `json:"user_name"`
	RecipientEmail string               `json:"recipient_email"`
	ClassName      string               `json:"class_name"`
	ClassDate      time.Time            `json:"class_date"`
	ClassTime      string               `json:"class_time"`
	OccurredAt     time.Time            `json:"occurred_at"`
}

// ToJSON serializes the event for the wire
func (e *ReservationEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey routes all events for one class to the same partition so
// consumers see them in order.
func (e *ReservationEvent) PartitionKey() string {
	return e.ClassID.String()
}
