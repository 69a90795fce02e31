package reservations

import "time"

type Status string

const (
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"

	// StatusCompleted is derived at read time from a confirmed reservation
	// whose class has already taken place. It is never persisted.
	StatusCompleted Status = "COMPLETED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

func (s Status) CanBeCancelled() bool {
	return s == StatusConfirmed
}

// EffectiveStatus maps the stored status to the presented one: confirmed
// reservations for elapsed classes read as completed. The cutoff is the
// class date timestamp as stored; the start/end time strings are display
// fields and never refine it.
func EffectiveStatus(stored Status, classDate time.Time, now time.Time) Status {
	if stored == StatusConfirmed && classDate.Before(now) {
		return StatusCompleted
	}
	return stored
}
