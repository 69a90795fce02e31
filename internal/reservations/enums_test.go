package reservations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name      string
		stored    Status
		classDate time.Time
		expected  Status
	}{
		{"confirmed upcoming stays confirmed", StatusConfirmed, future, StatusConfirmed},
		{"confirmed elapsed reads completed", StatusConfirmed, past, StatusCompleted},
		{"cutoff uses the stored date timestamp, not the time window", StatusConfirmed, now.Add(-2 * time.Hour), StatusCompleted},
		{"cancelled upcoming stays cancelled", StatusCancelled, future, StatusCancelled},
		{"cancelled elapsed stays cancelled", StatusCancelled, past, StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EffectiveStatus(tt.stored, tt.classDate, now))
		})
	}
}

func TestCanBeCancelled(t *testing.T) {
	assert.True(t, StatusConfirmed.CanBeCancelled())
	assert.False(t, StatusCancelled.CanBeCancelled())
	assert.False(t, StatusCompleted.CanBeCancelled())
}

func TestCompletedIsNeverStored(t *testing.T) {
	assert.False(t, StatusCompleted.IsValid())
	assert.True(t, StatusConfirmed.IsValid())
	assert.True(t, StatusCancelled.IsValid())
}

func TestToResponseAppliesEffectiveStatus(t *testing.T) {
	now := time.Now()
	reservation := Reservation{
		Status:    StatusConfirmed,
		ClassDate: now.Add(-time.Hour),
		ClassName: "Power Spinning",
	}

	resp := reservation.ToResponse(now)
	assert.Equal(t, StatusCompleted, resp.Status)

	reservation.ClassDate = now.Add(time.Hour)
	resp = reservation.ToResponse(now)
	assert.Equal(t, StatusConfirmed, resp.Status)
}
