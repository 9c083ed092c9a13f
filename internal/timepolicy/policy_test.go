package timepolicy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playfield/CourtBookingService/pkg/ptr"
)

// Понедельник, 10:00 UTC - базовая точка отсчета для тестов
var testNow = time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

func TestIsAligned(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"on the hour", time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), true},
		{"on the half hour", time.Date(2026, 1, 5, 9, 30, 0, 0, time.UTC), true},
		{"quarter past", time.Date(2026, 1, 5, 9, 15, 0, 0, time.UTC), false},
		{"quarter to", time.Date(2026, 1, 5, 9, 45, 0, 0, time.UTC), false},
		{"with seconds", time.Date(2026, 1, 5, 9, 0, 1, 0, time.UTC), false},
		{"with nanoseconds", time.Date(2026, 1, 5, 9, 30, 0, 7, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAligned(tt.t))
		})
	}
}

func TestIsValidDuration(t *testing.T) {
	tests := []struct {
		name     string
		hours    float64
		maxHours float64
		want     bool
	}{
		{"minimum half hour", 0.5, 8, true},
		{"one hour", 1, 8, true},
		{"hour and a half", 1.5, 8, true},
		{"maximum", 8, 8, true},
		{"too short", 0.25, 8, false},
		{"too long", 8.5, 8, false},
		{"not multiple of half hour", 1.25, 8, false},
		{"zero", 0, 8, false},
		{"custom court limit", 3, 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidDuration(tt.hours, tt.maxHours))
		})
	}
}

func TestIsWithinAdvanceWindow(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"one hour ahead", testNow.Add(time.Hour), true},
		{"exactly now", testNow, false},
		{"in the past", testNow.Add(-time.Hour), false},
		{"exactly 14 days ahead", testNow.AddDate(0, 0, 14), true},
		{"beyond 14 days", testNow.AddDate(0, 0, 14).Add(time.Minute), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWithinAdvanceWindow(testNow, tt.start, 14))
		})
	}
}

func TestRoundUpDown(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2026, 1, 5, h, m, 0, 0, time.UTC)
	}

	assert.Equal(t, at(10, 30), RoundUp(at(10, 15).Add(3*time.Second)))
	assert.Equal(t, at(10, 0), RoundUp(at(10, 0)))
	assert.Equal(t, at(10, 0), RoundDown(at(10, 29)))
	assert.Equal(t, at(10, 30), RoundDown(at(10, 30)))
}

func TestWithCourtOverrides(t *testing.T) {
	base := DefaultPolicy()

	t.Run("no overrides keeps defaults", func(t *testing.T) {
		p := base.WithCourtOverrides(nil, nil)
		assert.Equal(t, base, p)
	})

	t.Run("duration override in minutes", func(t *testing.T) {
		p := base.WithCourtOverrides(ptr.Ptr(120), nil)
		assert.Equal(t, 2.0, p.MaxDurationHours)
		assert.Equal(t, base.MaxAdvanceDays, p.MaxAdvanceDays)
	})

	t.Run("advance days override", func(t *testing.T) {
		p := base.WithCourtOverrides(nil, ptr.Ptr(30))
		assert.Equal(t, 30, p.MaxAdvanceDays)
	})
}

func TestValidateRange(t *testing.T) {
	policy := DefaultPolicy()
	day := time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, time.UTC)
	}

	t.Run("valid range has no violations", func(t *testing.T) {
		result := ValidateRange(testNow, at(10, 0), at(11, 30), policy)
		assert.True(t, result.Valid)
		assert.Empty(t, result.Violations)
	})

	t.Run("misaligned start and end reported together", func(t *testing.T) {
		result := ValidateRange(testNow, at(10, 15), at(11, 45), policy)
		require.False(t, result.Valid)
		assert.Equal(t,
			[]string{CodeStartNotAligned, CodeEndNotAligned},
			codes(result.Violations))
	})

	t.Run("end before start", func(t *testing.T) {
		result := ValidateRange(testNow, at(11, 0), at(10, 0), policy)
		require.False(t, result.Valid)
		assert.Contains(t, codes(result.Violations), CodeEndNotAfterStart)
	})

	t.Run("duration too long", func(t *testing.T) {
		result := ValidateRange(testNow, at(8, 0), at(17, 0), policy)
		require.False(t, result.Valid)
		assert.Equal(t, []string{CodeDurationTooLong}, codes(result.Violations))
	})

	t.Run("start in the past", func(t *testing.T) {
		start := testNow.Add(-2 * time.Hour)
		result := ValidateRange(testNow, start, start.Add(time.Hour), policy)
		require.False(t, result.Valid)
		assert.Contains(t, codes(result.Violations), CodeStartInPast)
	})

	t.Run("start beyond advance window", func(t *testing.T) {
		start := testNow.AddDate(0, 0, 15)
		result := ValidateRange(testNow, start, start.Add(time.Hour), policy)
		require.False(t, result.Valid)
		assert.Contains(t, codes(result.Violations), CodeStartTooFar)
	})

	t.Run("all violations collected at once", func(t *testing.T) {
		// Невыровненный старт в прошлом с невыровненным концом
		start := testNow.Add(-time.Hour).Add(10 * time.Minute)
		result := ValidateRange(testNow, start, start.Add(40*time.Minute), policy)
		require.False(t, result.Valid)
		assert.GreaterOrEqual(t, len(result.Violations), 3)
	})
}

func codes(violations []Violation) []string {
	out := make([]string, len(violations))
	for i, v := range violations {
		out[i] = v.Code
	}
	return out
}
