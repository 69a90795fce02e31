package classes

type Status string

const (
	StatusActive    Status = "active"
	StatusFull      Status = "full"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusFull, StatusCancelled:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsBookable reports whether new reservations may be taken against a class
// in this status. A full class is not bookable until a spot is released.
func (s Status) IsBookable() bool {
	return s == StatusActive
}

// StatusFor derives the class status from its spot counters. Cancellation is
// an explicit administrative state and is never overridden by counter moves.
func StatusFor(totalSpots, reservedSpots int, cancelled bool) Status {
	if cancelled {
		return StatusCancelled
	}
	if reservedSpots >= totalSpots {
		return StatusFull
	}
	return StatusActive
}
