package reservations

import (
	"context"
	"sync"
	"testing"
	"time"

	"fitbook/internal/classes"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLedger is an in-memory Repository. Its claim/release paths are
// deliberately unsynchronized read-check-write sequences; the coordinator's
// per-class lock is what must keep them correct under concurrency.
type fakeLedger struct {
	mu           sync.RWMutex
	classes      map[uuid.UUID]*classes.Class
	reservations map[uuid.UUID]*Reservation
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		classes:      make(map[uuid.UUID]*classes.Class),
		reservations: make(map[uuid.UUID]*Reservation),
	}
}

func (f *fakeLedger) addClass(totalSpots int, date time.Time) uuid.UUID {
	id := uuid.New()
	f.classes[id] = &classes.Class{
		ID:         id,
		Name:       "Functional Circuit",
		Date:       date,
		StartTime:  "12:00",
		EndTime:    "12:50",
		TotalSpots: totalSpots,
		Status:     classes.StatusActive,
	}
	return id
}

func (f *fakeLedger) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	reservation, ok := f.reservations[id]
	if !ok {
		return nil, ErrReservationNotFound
	}
	copied := *reservation
	return &copied, nil
}

func (f *fakeLedger) FindConfirmed(ctx context.Context, userID, classID uuid.UUID) (*Reservation, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, reservation := range f.reservations {
		if reservation.UserID == userID && reservation.ClassID == classID && reservation.Status == StatusConfirmed {
			copied := *reservation
			return &copied, nil
		}
	}
	return nil, ErrReservationNotFound
}

func (f *fakeLedger) ListByUser(ctx context.Context, userID uuid.UUID) ([]Reservation, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var result []Reservation
	for _, reservation := range f.reservations {
		if reservation.UserID == userID {
			result = append(result, *reservation)
		}
	}
	return result, nil
}

func (f *fakeLedger) ListByClass(ctx context.Context, classID uuid.UUID, status Status) ([]Reservation, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var result []Reservation
	for _, reservation := range f.reservations {
		if reservation.ClassID != classID {
			continue
		}
		if status != "" && reservation.Status != status {
			continue
		}
		result = append(result, *reservation)
	}
	return result, nil
}

func (f *fakeLedger) ListAll(ctx context.Context) ([]Reservation, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var result []Reservation
	for _, reservation := range f.reservations {
		result = append(result, *reservation)
	}
	return result, nil
}

func (f *fakeLedger) CountConfirmedByClass(ctx context.Context, classID uuid.UUID) (int64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var count int64
	for _, reservation := range f.reservations {
		if reservation.ClassID == classID && reservation.Status == StatusConfirmed {
			count++
		}
	}
	return count, nil
}

func (f *fakeLedger) CreateWithSpotClaim(ctx context.Context, userID uuid.UUID, userName, userEmail string, classID uuid.UUID) (*Reservation, error) {
	f.mu.RLock()
	class, ok := f.classes[classID]
	f.mu.RUnlock()
	if !ok {
		return nil, ErrClassNotFound
	}
	if class.Status == classes.StatusCancelled {
		return nil, ErrClassNotBookable
	}

	if _, err := f.FindConfirmed(ctx, userID, classID); err == nil {
		return nil, ErrDuplicateReservation
	}

	// Unsynchronized window between the capacity read and the counter write
	reserved := class.ReservedSpots
	if class.TotalSpots-reserved <= 0 {
		return nil, ErrNoAvailableSpots
	}
	time.Sleep(time.Millisecond)

	reservation := &Reservation{
		ID:              uuid.New(),
		UserID:          userID,
		UserName:        userName,
		UserEmail:       userEmail,
		ClassID:         classID,
		ClassName:       class.Name,
		ClassDate:       class.Date,
		ClassTime:       class.Schedule(),
		Status:          StatusConfirmed,
		ReservationDate: time.Now(),
	}

	f.mu.Lock()
	f.reservations[reservation.ID] = reservation
	class.ReservedSpots = reserved + 1
	class.Status = classes.StatusFor(class.TotalSpots, class.ReservedSpots, false)
	f.mu.Unlock()

	copied := *reservation
	return &copied, nil
}

func (f *fakeLedger) CancelWithSpotRelease(ctx context.Context, reservationID uuid.UUID, now time.Time) (*Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reservation, ok := f.reservations[reservationID]
	if !ok {
		return nil, ErrReservationNotFound
	}
	if reservation.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if reservation.ClassDate.Before(now) {
		return nil, ErrClassAlreadyOccurred
	}

	reservation.Status = StatusCancelled
	reservation.CancelledAt = &now
	reservation.UpdatedAt = now

	if class, ok := f.classes[reservation.ClassID]; ok {
		released := class.ReservedSpots - 1
		if released < 0 {
			released = 0
		}
		class.ReservedSpots = released
		class.Status = classes.StatusFor(class.TotalSpots, released, class.Status == classes.StatusCancelled)
	}

	copied := *reservation
	return &copied, nil
}

type fakeIdentity struct{}

func (fakeIdentity) GetUserByID(ctx context.Context, userID uuid.UUID) (email, firstName, lastName string, err error) {
	return "sofia.reyes@example.com", "Sofia", "Reyes", nil
}

type recordingPublisher struct {
	mu        sync.Mutex
	confirmed []uuid.UUID
	cancelled []uuid.UUID
}

func (p *recordingPublisher) PublishReservationConfirmed(ctx context.Context, reservation *Reservation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirmed = append(p.confirmed, reservation.ID)
	return nil
}

func (p *recordingPublisher) PublishReservationCancelled(ctx context.Context, reservation *Reservation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled = append(p.cancelled, reservation.ID)
	return nil
}

func newTestService(ledger *fakeLedger) Service {
	return NewService(ledger, NewCoordinator(ledger), fakeIdentity{})
}

func TestReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("confirms and snapshots member and class details", func(t *testing.T) {
		ledger := newFakeLedger()
		classID := ledger.addClass(10, time.Now().Add(48*time.Hour))
		svc := newTestService(ledger)

		resp, err := svc.Reserve(ctx, uuid.New(), classID)
		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, resp.Status)
		assert.Equal(t, "Sofia Reyes", resp.UserName)
		assert.Equal(t, "sofia.reyes@example.com", resp.UserEmail)
		assert.Equal(t, "Functional Circuit", resp.ClassName)
		assert.Equal(t, "12:00 - 12:50", resp.ClassTime)

		assert.Equal(t, 1, ledger.classes[classID].ReservedSpots)
	})

	t.Run("rejects duplicate confirmed reservation", func(t *testing.T) {
		ledger := newFakeLedger()
		classID := ledger.addClass(10, time.Now().Add(48*time.Hour))
		svc := newTestService(ledger)

		userID := uuid.New()
		_, err := svc.Reserve(ctx, userID, classID)
		require.NoError(t, err)

		_, err = svc.Reserve(ctx, userID, classID)
		assert.ErrorIs(t, err, ErrDuplicateReservation)
		assert.Equal(t, 1, ledger.classes[classID].ReservedSpots)
	})

	t.Run("rejects when class is at capacity", func(t *testing.T) {
		ledger := newFakeLedger()
		classID := ledger.addClass(1, time.Now().Add(48*time.Hour))
		svc := newTestService(ledger)

		_, err := svc.Reserve(ctx, uuid.New(), classID)
		require.NoError(t, err)

		_, err = svc.Reserve(ctx, uuid.New(), classID)
		assert.ErrorIs(t, err, ErrNoAvailableSpots)
	})

	t.Run("rejects cancelled class", func(t *testing.T) {
		ledger := newFakeLedger()
		classID := ledger.addClass(10, time.Now().Add(48*time.Hour))
		ledger.classes[classID].Status = classes.StatusCancelled
		svc := newTestService(ledger)

		_, err := svc.Reserve(ctx, uuid.New(), classID)
		assert.ErrorIs(t, err, ErrClassNotBookable)
	})

	t.Run("rejects unknown class", func(t *testing.T) {
		svc := newTestService(newFakeLedger())

		_, err := svc.Reserve(ctx, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, ErrClassNotFound)
	})

	t.Run("publishes confirmation event", func(t *testing.T) {
		ledger := newFakeLedger()
		classID := ledger.addClass(10, time.Now().Add(48*time.Hour))
		svc := newTestService(ledger)

		publisher := &recordingPublisher{}
		svc.SetEventPublisher(publisher)

		resp, err := svc.Reserve(ctx, uuid.New(), classID)
		require.NoError(t, err)
		require.Len(t, publisher.confirmed, 1)
		assert.Equal(t, resp.ID, publisher.confirmed[0].String())
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fakeLedger, Service, uuid.UUID, uuid.UUID, uuid.UUID) {
		ledger := newFakeLedger()
		classID := ledger.addClass(10, time.Now().Add(48*time.Hour))
		svc := newTestService(ledger)

		userID := uuid.New()
		resp, err := svc.Reserve(ctx, userID, classID)
		require.NoError(t, err)

		reservationID, err := uuid.Parse(resp.ID)
		require.NoError(t, err)
		return ledger, svc, classID, userID, reservationID
	}

	t.Run("owner releases the spot", func(t *testing.T) {
		ledger, svc, classID, userID, reservationID := setup(t)

		resp, err := svc.Cancel(ctx, reservationID, userID, "MEMBER")
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, resp.Status)
		assert.NotNil(t, resp.CancelledAt)
		assert.Equal(t, 0, ledger.classes[classID].ReservedSpots)
	})

	t.Run("non-owner member is forbidden", func(t *testing.T) {
		ledger, svc, classID, _, reservationID := setup(t)

		_, err := svc.Cancel(ctx, reservationID, uuid.New(), "MEMBER")
		assert.ErrorIs(t, err, ErrNotReservationOwner)
		assert.Equal(t, 1, ledger.classes[classID].ReservedSpots)
	})

	t.Run("admin may cancel any reservation", func(t *testing.T) {
		_, svc, _, _, reservationID := setup(t)

		resp, err := svc.Cancel(ctx, reservationID, uuid.New(), "ADMIN")
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, resp.Status)
	})

	t.Run("second cancel is rejected", func(t *testing.T) {
		ledger, svc, classID, userID, reservationID := setup(t)

		_, err := svc.Cancel(ctx, reservationID, userID, "MEMBER")
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, reservationID, userID, "MEMBER")
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
		assert.Equal(t, 0, ledger.classes[classID].ReservedSpots)
	})

	t.Run("cancel after class date is rejected", func(t *testing.T) {
		ledger := newFakeLedger()
		classID := ledger.addClass(10, time.Now().Add(-time.Hour))
		svc := newTestService(ledger)

		userID := uuid.New()
		reservation, err := ledger.CreateWithSpotClaim(ctx, userID, "Sofia Reyes", "sofia.reyes@example.com", classID)
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, reservation.ID, userID, "MEMBER")
		assert.ErrorIs(t, err, ErrClassAlreadyOccurred)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		svc := newTestService(newFakeLedger())

		_, err := svc.Cancel(ctx, uuid.New(), uuid.New(), "MEMBER")
		assert.ErrorIs(t, err, ErrReservationNotFound)
	})
}

func TestListPartitions(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	svc := newTestService(ledger)

	userID := uuid.New()
	upcomingClass := ledger.addClass(10, time.Now().Add(48*time.Hour))
	cancelClass := ledger.addClass(10, time.Now().Add(72*time.Hour))
	pastClass := ledger.addClass(10, time.Now().Add(-48*time.Hour))

	_, err := svc.Reserve(ctx, userID, upcomingClass)
	require.NoError(t, err)

	resp, err := svc.Reserve(ctx, userID, cancelClass)
	require.NoError(t, err)
	cancelID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, cancelID, userID, "MEMBER")
	require.NoError(t, err)

	// Booked while the class was upcoming, then the class took place
	completed, err := ledger.CreateWithSpotClaim(ctx, userID, "Sofia Reyes", "sofia.reyes@example.com", pastClass)
	require.NoError(t, err)

	upcoming, err := svc.ListUpcoming(ctx, userID)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, upcomingClass.String(), upcoming[0].ClassID)
	assert.Equal(t, StatusConfirmed, upcoming[0].Status)

	completedList, err := svc.ListCompleted(ctx, userID)
	require.NoError(t, err)
	require.Len(t, completedList, 1)
	assert.Equal(t, completed.ID.String(), completedList[0].ID)
	assert.Equal(t, StatusCompleted, completedList[0].Status)

	cancelledList, err := svc.ListCancelled(ctx, userID)
	require.NoError(t, err)
	require.Len(t, cancelledList, 1)
	assert.Equal(t, StatusCancelled, cancelledList[0].Status)
}

func TestClassReservationsReturnsConfirmedOnly(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	svc := newTestService(ledger)

	classID := ledger.addClass(10, time.Now().Add(48*time.Hour))

	_, err := svc.Reserve(ctx, uuid.New(), classID)
	require.NoError(t, err)

	cancelUser := uuid.New()
	resp, err := svc.Reserve(ctx, cancelUser, classID)
	require.NoError(t, err)
	cancelID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, cancelID, cancelUser, "MEMBER")
	require.NoError(t, err)

	result, err := svc.ClassReservations(ctx, classID)
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, StatusConfirmed, result[0].Status)
}
