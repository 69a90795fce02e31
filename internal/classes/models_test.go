package classes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name          string
		totalSpots    int
		reservedSpots int
		cancelled     bool
		expected      Status
	}{
		{"empty class is active", 20, 0, false, StatusActive},
		{"partially booked class is active", 20, 19, false, StatusActive},
		{"class at capacity is full", 20, 20, false, StatusFull},
		{"counter above capacity still reads full", 20, 25, false, StatusFull},
		{"cancelled wins over full", 20, 20, true, StatusCancelled},
		{"cancelled wins over active", 20, 0, true, StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusFor(tt.totalSpots, tt.reservedSpots, tt.cancelled))
		})
	}
}

func TestAvailableSpots(t *testing.T) {
	tests := []struct {
		name     string
		class    Class
		expected int
	}{
		{"full availability", Class{TotalSpots: 15, ReservedSpots: 0}, 15},
		{"partial availability", Class{TotalSpots: 15, ReservedSpots: 9}, 6},
		{"no availability", Class{TotalSpots: 15, ReservedSpots: 15}, 0},
		{"over-reserved floors at zero", Class{TotalSpots: 15, ReservedSpots: 18}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.class.AvailableSpots())
		})
	}
}

func TestScheduleFormat(t *testing.T) {
	class := Class{StartTime: "07:00", EndTime: "08:00"}
	assert.Equal(t, "07:00 - 08:00", class.Schedule())
}

func TestToResponseDerivesAvailability(t *testing.T) {
	class := Class{
		Name:          "Power Spinning",
		TotalSpots:    15,
		ReservedSpots: 12,
		Status:        StatusActive,
	}

	resp := class.ToResponse()
	assert.Equal(t, 3, resp.AvailableSpots)
	assert.Equal(t, 12, resp.ReservedSpots)
	assert.Equal(t, StatusActive, resp.Status)
}

func TestStatusIsBookable(t *testing.T) {
	assert.True(t, StatusActive.IsBookable())
	assert.False(t, StatusFull.IsBookable())
	assert.False(t, StatusCancelled.IsBookable())
}
