package reservations

import "errors"

// Business-rule failures surfaced by the reserve/cancel protocols. They are
// deterministic and never retried; anything else bubbling out of the
// repository is a storage failure and the transaction has been rolled back.
var (
	ErrClassNotFound        = errors.New("class not found")
	ErrClassNotBookable     = errors.New("class is cancelled and cannot be booked")
	ErrDuplicateReservation = errors.New("user already has a confirmed reservation for this class")
	ErrNoAvailableSpots     = errors.New("class has no available spots")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrAlreadyCancelled     = errors.New("reservation is already cancelled")
	ErrClassAlreadyOccurred = errors.New("class has already taken place and cannot be cancelled")
	ErrNotReservationOwner  = errors.New("reservation does not belong to user")
)
