package domain

import "time"

// Court represents a bookable court within a facility
type Court struct {
	ID           int64
	FacilityID   int64
	OwnerUserID  int64
	Name         string
	PricePerHour float64

	// Per-court policy overrides; nil = service-wide default applies
	MaxDurationMinutes *int
	AdvanceBookingDays *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOwnedBy returns true if userID is the facility owner of the court
func (c *Court) IsOwnedBy(userID int64) bool {
	return c.OwnerUserID == userID
}

// PriceFor возвращает стоимость бронирования указанной длительности
func (c *Court) PriceFor(duration time.Duration) float64 {
	return c.PricePerHour * duration.Hours()
}
