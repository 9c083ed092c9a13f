package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playfield/CourtBookingService/internal/domain"
)

// Понедельник
var monday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return monday.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func rule(startMin, endMin int) *domain.AvailabilityRule {
	return &domain.AvailabilityRule{
		CourtID:     1,
		DayOfWeek:   int(monday.Weekday()),
		StartMinute: startMin,
		EndMinute:   endMin,
		IsActive:    true,
	}
}

func booking(start, end time.Time, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		CourtID:  1,
		UserID:   100,
		StartsAt: start,
		EndsAt:   end,
		Status:   status,
	}
}

func block(start, end time.Time) *domain.CourtBlock {
	return &domain.CourtBlock{CourtID: 1, StartsAt: start, EndsAt: end}
}

func TestComputeDay_NoRules(t *testing.T) {
	day := ComputeDay(monday, nil, nil, nil)
	assert.Empty(t, day.Open, "день без правил полностью закрыт")
}

func TestComputeDay_SingleRule(t *testing.T) {
	day := ComputeDay(monday, []*domain.AvailabilityRule{rule(9*60, 18*60)}, nil, nil)

	require.Len(t, day.Open, 1)
	assert.Equal(t, at(9, 0), day.Open[0].Start)
	assert.Equal(t, at(18, 0), day.Open[0].End)
}

func TestComputeDay_BookingSplitsWindow(t *testing.T) {
	// Правило 09:00-18:00, активное бронирование 10:00-11:00
	day := ComputeDay(monday,
		[]*domain.AvailabilityRule{rule(9*60, 18*60)},
		[]*domain.Booking{booking(at(10, 0), at(11, 0), domain.StatusConfirmed)},
		nil,
	)

	require.Len(t, day.Open, 2)
	assert.Equal(t, at(9, 0), day.Open[0].Start)
	assert.Equal(t, at(10, 0), day.Open[0].End)
	assert.Equal(t, at(11, 0), day.Open[1].Start)
	assert.Equal(t, at(18, 0), day.Open[1].End)
}

func TestComputeDay_CancelledBookingDoesNotOccupy(t *testing.T) {
	day := ComputeDay(monday,
		[]*domain.AvailabilityRule{rule(9*60, 18*60)},
		[]*domain.Booking{booking(at(10, 0), at(11, 0), domain.StatusCancelled)},
		nil,
	)

	require.Len(t, day.Open, 1)
	assert.Equal(t, at(9, 0), day.Open[0].Start)
	assert.Equal(t, at(18, 0), day.Open[0].End)
}

func TestComputeDay_AbuttingBookingsDoNotFragment(t *testing.T) {
	// Смежные бронирования 10-11 и 11-12 образуют один занятый участок
	day := ComputeDay(monday,
		[]*domain.AvailabilityRule{rule(9*60, 18*60)},
		[]*domain.Booking{
			booking(at(10, 0), at(11, 0), domain.StatusConfirmed),
			booking(at(11, 0), at(12, 0), domain.StatusPending),
		},
		nil,
	)

	require.Len(t, day.Open, 2)
	assert.Equal(t, at(10, 0), day.Open[0].End)
	assert.Equal(t, at(12, 0), day.Open[1].Start)
}

func TestComputeDay_OverlappingRulesMerge(t *testing.T) {
	// Пересекающиеся правила 09-13 и 12-18 дают union 09-18
	day := ComputeDay(monday,
		[]*domain.AvailabilityRule{rule(9*60, 13*60), rule(12*60, 18*60)},
		nil, nil,
	)

	require.Len(t, day.Open, 1)
	assert.Equal(t, at(9, 0), day.Open[0].Start)
	assert.Equal(t, at(18, 0), day.Open[0].End)
}

func TestComputeDay_BlockSubtracted(t *testing.T) {
	day := ComputeDay(monday,
		[]*domain.AvailabilityRule{rule(9*60, 18*60)},
		nil,
		[]*domain.CourtBlock{block(at(13, 0), at(15, 0))},
	)

	require.Len(t, day.Open, 2)
	assert.Equal(t, at(13, 0), day.Open[0].End)
	assert.Equal(t, at(15, 0), day.Open[1].Start)
}

func TestComputeDay_OccupiedCoveringWholeWindow(t *testing.T) {
	day := ComputeDay(monday,
		[]*domain.AvailabilityRule{rule(10*60, 12*60)},
		nil,
		[]*domain.CourtBlock{block(at(9, 0), at(13, 0))},
	)

	assert.Empty(t, day.Open)
}

func TestComputeDay_MultiDayBlockClamped(t *testing.T) {
	// Блокировка с воскресенья по вторник обрезается границами понедельника
	day := ComputeDay(monday,
		[]*domain.AvailabilityRule{rule(0, 24*60)},
		nil,
		[]*domain.CourtBlock{block(monday.AddDate(0, 0, -1), at(12, 0))},
	)

	require.Len(t, day.Open, 1)
	assert.Equal(t, at(12, 0), day.Open[0].Start)
	assert.Equal(t, monday.AddDate(0, 0, 1), day.Open[0].End)
}

func TestContainsRange(t *testing.T) {
	day := ComputeDay(monday,
		[]*domain.AvailabilityRule{rule(9*60, 18*60)},
		[]*domain.Booking{booking(at(10, 0), at(11, 0), domain.StatusConfirmed)},
		nil,
	)

	assert.True(t, day.ContainsRange(at(9, 0), at(10, 0)))
	assert.True(t, day.ContainsRange(at(11, 0), at(12, 0)))
	assert.False(t, day.ContainsRange(at(10, 30), at(11, 30)), "пересекает занятый участок")
	assert.False(t, day.ContainsRange(at(8, 0), at(9, 30)), "выходит за начало окна")
	assert.False(t, day.ContainsRange(at(9, 30), at(11, 30)), "накрывает занятый участок целиком")
}

func TestConflictingInterval(t *testing.T) {
	day := ComputeDay(monday,
		[]*domain.AvailabilityRule{rule(9*60, 18*60)},
		[]*domain.Booking{booking(at(10, 0), at(11, 0), domain.StatusConfirmed)},
		nil,
	)

	t.Run("no conflict for open range", func(t *testing.T) {
		_, ok := day.ConflictingInterval(at(11, 0), at(12, 0))
		assert.False(t, ok)
	})

	t.Run("conflict names the occupied part", func(t *testing.T) {
		conflict, ok := day.ConflictingInterval(at(10, 30), at(11, 30))
		require.True(t, ok)
		assert.Equal(t, at(10, 30), conflict.Start)
		assert.Equal(t, at(11, 0), conflict.End)
	})

	t.Run("conflict before the window", func(t *testing.T) {
		conflict, ok := day.ConflictingInterval(at(8, 0), at(9, 30))
		require.True(t, ok)
		assert.Equal(t, at(8, 0), conflict.Start)
		assert.Equal(t, at(9, 0), conflict.End)
	})
}

func TestBlocks_LazySequence(t *testing.T) {
	day := ComputeDay(monday,
		[]*domain.AvailabilityRule{rule(9*60, 11*60)},
		nil, nil,
	)

	var got []domain.TimeBlock
	for b := range day.Blocks(30 * time.Minute) {
		got = append(got, b)
	}

	require.Len(t, got, 4)
	assert.Equal(t, at(9, 0), got[0].Start)
	assert.Equal(t, at(9, 30), got[0].End)
	assert.Equal(t, at(10, 30), got[3].Start)

	// Последовательность перезапускаемая
	count := 0
	for range day.Blocks(time.Hour) {
		count++
	}
	assert.Equal(t, 2, count)

	// Досрочный выход не ломает итератор
	for range day.Blocks(30 * time.Minute) {
		break
	}
}
