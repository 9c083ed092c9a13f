package domain

import "time"

// AvailabilityRule recurring weekly open window for a court
// День недели по time.Weekday: 0 = Sunday ... 6 = Saturday
// Минуты отсчитываются от полуночи и кратны SlotGranularityMinutes
type AvailabilityRule struct {
	ID          int64
	CourtID     int64
	DayOfWeek   int
	StartMinute int
	EndMinute   int
	IsActive    bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDegenerate returns true if the rule opens nothing (start == end)
// Такие правила отфильтровываются движком доступности
func (r *AvailabilityRule) IsDegenerate() bool {
	return r.StartMinute >= r.EndMinute
}

// AppliesTo returns true if the rule is active and matches the date's weekday
func (r *AvailabilityRule) AppliesTo(date time.Time) bool {
	return r.IsActive && int(date.Weekday()) == r.DayOfWeek
}
