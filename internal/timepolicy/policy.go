// Package timepolicy единый источник временных правил бронирования.
// Движок доступности и менеджер резервирования обязаны совпадать
// побайтово в том, что считается валидным интервалом - поэтому обе
// стороны используют только функции этого пакета.
package timepolicy

import (
	"fmt"
	"time"

	"github.com/playfield/CourtBookingService/internal/domain"
)

// granularity шаг сетки бронирования
const granularity = domain.SlotGranularityMinutes * time.Minute

// Policy явная конфигурация временных ограничений.
// Передается вызывающим кодом - никакого process-wide состояния.
// Переопределения на уровне корта вносятся через WithCourtOverrides
type Policy struct {
	MaxDurationHours float64
	MaxAdvanceDays   int
}

// DefaultPolicy возвращает политику с дефолтными значениями сервиса
func DefaultPolicy() Policy {
	return Policy{
		MaxDurationHours: domain.DefaultMaxDurationHours,
		MaxAdvanceDays:   domain.DefaultAdvanceDays,
	}
}

// WithCourtOverrides возвращает копию политики с учетом настроек корта
func (p Policy) WithCourtOverrides(maxDurationMinutes, advanceDays *int) Policy {
	result := p
	if maxDurationMinutes != nil {
		result.MaxDurationHours = float64(*maxDurationMinutes) / 60.0
	}
	if advanceDays != nil {
		result.MaxAdvanceDays = *advanceDays
	}
	return result
}

// IsAligned returns true iff t lies exactly on a 30-minute boundary
func IsAligned(t time.Time) bool {
	return (t.Minute() == 0 || t.Minute() == 30) && t.Second() == 0 && t.Nanosecond() == 0
}

// IsValidDuration returns true iff hours is within [0.5, maxHours]
// and is an integer multiple of half an hour
func IsValidDuration(hours, maxHours float64) bool {
	if hours < domain.MinDurationHours || hours > maxHours {
		return false
	}
	// Кратность 30 минутам проверяем в целых минутах, без float-остатков
	minutes := int(hours * 60)
	return float64(minutes) == hours*60 && minutes%domain.SlotGranularityMinutes == 0
}

// IsWithinAdvanceWindow returns true iff now < start <= now + maxDays
func IsWithinAdvanceWindow(now, start time.Time, maxDays int) bool {
	if !start.After(now) {
		return false
	}
	return !start.After(now.AddDate(0, 0, maxDays))
}

// RoundUp снапит произвольный момент к ближайшей 30-минутной границе в будущем
func RoundUp(t time.Time) time.Time {
	rounded := t.Truncate(granularity)
	if rounded.Equal(t) {
		return t
	}
	return rounded.Add(granularity)
}

// RoundDown снапит произвольный момент к ближайшей 30-минутной границе в прошлом
func RoundDown(t time.Time) time.Time {
	return t.Truncate(granularity)
}

// Violation codes - стабильные машиночитаемые коды нарушений
const (
	CodeStartNotAligned  = "start_not_aligned"
	CodeEndNotAligned    = "end_not_aligned"
	CodeEndNotAfterStart = "end_not_after_start"
	CodeDurationTooShort = "duration_too_short"
	CodeDurationTooLong  = "duration_too_long"
	CodeDurationUneven   = "duration_not_multiple_of_granularity"
	CodeStartInPast      = "start_not_in_future"
	CodeStartTooFar      = "start_beyond_advance_window"
)

// Violation одно нарушение временной политики
type Violation struct {
	Code   string
	Detail string
}

// Result результат комплексной валидации интервала.
// Никогда не паникует и не возвращает error - собирает ВСЕ нарушения,
// чтобы вызывающий мог показать их разом, а не по одному
type Result struct {
	Valid      bool
	Violations []Violation
}

// ValidateRange проверяет интервал [start, end) по всем правилам политики
func ValidateRange(now, start, end time.Time, p Policy) Result {
	var violations []Violation

	if !IsAligned(start) {
		violations = append(violations, Violation{
			Code:   CodeStartNotAligned,
			Detail: fmt.Sprintf("start %s is not aligned to %d-minute boundary", start.Format(time.RFC3339), domain.SlotGranularityMinutes),
		})
	}
	if !IsAligned(end) {
		violations = append(violations, Violation{
			Code:   CodeEndNotAligned,
			Detail: fmt.Sprintf("end %s is not aligned to %d-minute boundary", end.Format(time.RFC3339), domain.SlotGranularityMinutes),
		})
	}

	if !end.After(start) {
		violations = append(violations, Violation{
			Code:   CodeEndNotAfterStart,
			Detail: "end must be after start",
		})
	} else {
		hours := end.Sub(start).Hours()
		switch {
		case hours < domain.MinDurationHours:
			violations = append(violations, Violation{
				Code:   CodeDurationTooShort,
				Detail: fmt.Sprintf("duration %.2fh is shorter than minimum %.1fh", hours, domain.MinDurationHours),
			})
		case hours > p.MaxDurationHours:
			violations = append(violations, Violation{
				Code:   CodeDurationTooLong,
				Detail: fmt.Sprintf("duration %.2fh exceeds maximum %.1fh", hours, p.MaxDurationHours),
			})
		case !IsValidDuration(hours, p.MaxDurationHours):
			violations = append(violations, Violation{
				Code:   CodeDurationUneven,
				Detail: fmt.Sprintf("duration %.2fh is not a multiple of %d minutes", hours, domain.SlotGranularityMinutes),
			})
		}
	}

	if !start.After(now) {
		violations = append(violations, Violation{
			Code:   CodeStartInPast,
			Detail: "start must be in the future",
		})
	} else if !IsWithinAdvanceWindow(now, start, p.MaxAdvanceDays) {
		violations = append(violations, Violation{
			Code:   CodeStartTooFar,
			Detail: fmt.Sprintf("start is more than %d days ahead", p.MaxAdvanceDays),
		})
	}

	return Result{Valid: len(violations) == 0, Violations: violations}
}
