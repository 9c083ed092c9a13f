package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	statuses := []BookingStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted}

	allowed := map[BookingStatus]map[BookingStatus]bool{
		StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
		StatusConfirmed: {StatusCancelled: true, StatusCompleted: true},
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[from][to]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestBookingPredicates(t *testing.T) {
	tests := []struct {
		status      BookingStatus
		active      bool
		terminal    bool
		cancellable bool
	}{
		{StatusPending, true, false, true},
		{StatusConfirmed, true, false, true},
		{StatusCancelled, false, true, false},
		{StatusCompleted, false, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			b := &Booking{Status: tt.status}
			assert.Equal(t, tt.active, b.IsActive())
			assert.Equal(t, tt.terminal, b.IsTerminal())
			assert.Equal(t, tt.cancellable, b.CanBeCancelled())
		})
	}
}

func TestBookingOverlaps(t *testing.T) {
	at := func(h int) time.Time {
		return time.Date(2026, 1, 5, h, 0, 0, 0, time.UTC)
	}
	b := &Booking{StartsAt: at(10), EndsAt: at(12)}

	assert.True(t, b.Overlaps(at(11), at(13)))
	assert.True(t, b.Overlaps(at(9), at(11)))
	assert.True(t, b.Overlaps(at(10), at(12)))

	// Граничащие интервалы не пересекаются
	assert.False(t, b.Overlaps(at(12), at(14)))
	assert.False(t, b.Overlaps(at(8), at(10)))
}

func TestStateTransitionError(t *testing.T) {
	err := NewStateTransitionError(StatusCancelled, StatusConfirmed)
	assert.Contains(t, err.Error(), "cancelled")
	assert.Contains(t, err.Error(), "confirmed")
}
