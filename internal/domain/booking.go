package domain

import (
	"fmt"
	"time"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// Booking represents a reservation of a court for a time range
type Booking struct {
	ID      int64
	CourtID int64
	UserID  int64

	StartsAt time.Time
	EndsAt   time.Time
	Status   BookingStatus

	FinalPrice float64

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its interval
// (pending and confirmed bookings block the slot for everyone else)
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsTerminal returns true if the booking reached a terminal state
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCancelled || b.Status == StatusCompleted
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// Overlaps returns true if the booking interval really intersects [start, end)
// Интервалы, которые только граничат, пересечением не считаются
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartsAt.Before(end) && b.EndsAt.After(start)
}

// validTransitions допустимые переходы статусов бронирования
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
	StatusCancelled: {},
	StatusCompleted: {},
}

// CanTransition returns true if the status change from -> to is allowed
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range validTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// StateTransitionError описывает недопустимый переход статуса
// Невалидные переходы всегда ошибка, никогда не no-op
type StateTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("domain: invalid booking transition from %q to %q", e.From, e.To)
}

// NewStateTransitionError создает ошибку недопустимого перехода
func NewStateTransitionError(from, to BookingStatus) *StateTransitionError {
	return &StateTransitionError{From: from, To: to}
}
