package reservations

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Coordinator serializes spot accounting per class. The repository's
// transaction holds a row lock on the class, which is what guarantees
// correctness across processes; the per-class mutex on top keeps in-process
// callers from piling up on the database lock and gives every reserve/cancel
// on one class a strict order while leaving other classes fully parallel.
type Coordinator interface {
	Reserve(ctx context.Context, userID uuid.UUID, userName, userEmail string, classID uuid.UUID) (*Reservation, error)
	Release(ctx context.Context, reservationID uuid.UUID, classID uuid.UUID, now time.Time) (*Reservation, error)
}

type coordinator struct {
	repo  Repository
	locks *classLocks
}

func NewCoordinator(repo Repository) Coordinator {
	return &coordinator{
		repo:  repo,
		locks: newClassLocks(),
	}
}

func (c *coordinator) Reserve(ctx context.Context, userID uuid.UUID, userName, userEmail string, classID uuid.UUID) (*Reservation, error) {
	unlock := c.locks.lock(classID)
	defer unlock()

	return c.repo.CreateWithSpotClaim(ctx, userID, userName, userEmail, classID)
}

func (c *coordinator) Release(ctx context.Context, reservationID uuid.UUID, classID uuid.UUID, now time.Time) (*Reservation, error) {
	unlock := c.locks.lock(classID)
	defer unlock()

	return c.repo.CancelWithSpotRelease(ctx, reservationID, now)
}

// classLocks hands out one mutex per class ID. Entries are reference-counted
// and removed once the last holder releases, so the map does not grow with
// the catalog.
type classLocks struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*classLockEntry
}

type classLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newClassLocks() *classLocks {
	return &classLocks{entries: make(map[uuid.UUID]*classLockEntry)}
}

func (l *classLocks) lock(classID uuid.UUID) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.entries[classID]
	if !ok {
		entry = &classLockEntry{}
		l.entries[classID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.entries, classID)
		}
		l.mu.Unlock()
	}
}
