package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playfield/CourtBookingService/internal/domain"
	courtRepo "github.com/playfield/CourtBookingService/internal/infra/storage/court"
)

// Понедельник
var monday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func at(day time.Time, h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

// Моки репозиториев

type fakeBookingRepo struct {
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) GetActiveByCourtAndRange(_ context.Context, courtID int64, from, to time.Time) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.bookings {
		if b.CourtID == courtID && b.IsActive() && b.Overlaps(from, to) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeRuleRepo struct {
	rules []*domain.AvailabilityRule
}

func (f *fakeRuleRepo) GetActiveByCourtAndWeekday(_ context.Context, courtID int64, dayOfWeek int) ([]*domain.AvailabilityRule, error) {
	var out []*domain.AvailabilityRule
	for _, r := range f.rules {
		if r.CourtID == courtID && r.DayOfWeek == dayOfWeek && r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeBlockRepo struct {
	blocks []*domain.CourtBlock
}

func (f *fakeBlockRepo) GetByCourtAndRange(_ context.Context, courtID int64, from, to time.Time) ([]*domain.CourtBlock, error) {
	var out []*domain.CourtBlock
	for _, b := range f.blocks {
		if b.CourtID == courtID && b.Overlaps(from, to) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeCourtRepo struct {
	courts map[int64]*domain.Court
}

func (f *fakeCourtRepo) GetByID(_ context.Context, id int64) (*domain.Court, error) {
	court, ok := f.courts[id]
	if !ok {
		return nil, courtRepo.ErrCourtNotFound
	}
	return court, nil
}

type fixedTimeProvider struct{ now time.Time }

func (p fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type testEnv struct {
	uc       *UseCase
	bookings *fakeBookingRepo
	blocks   *fakeBlockRepo
}

// newTestEnv корт 1 открыт все дни недели 09:00-18:00
func newTestEnv(now time.Time) *testEnv {
	rules := make([]*domain.AvailabilityRule, 0, 7)
	for day := 0; day < 7; day++ {
		rules = append(rules, &domain.AvailabilityRule{
			ID: int64(day + 1), CourtID: 1, DayOfWeek: day,
			StartMinute: 9 * 60, EndMinute: 18 * 60, IsActive: true,
		})
	}

	env := &testEnv{
		bookings: &fakeBookingRepo{},
		blocks:   &fakeBlockRepo{},
	}
	env.uc = NewUseCase(
		env.bookings,
		&fakeRuleRepo{rules: rules},
		env.blocks,
		&fakeCourtRepo{courts: map[int64]*domain.Court{
			1: {ID: 1, OwnerUserID: 500, Name: "Корт 1", PricePerHour: 1200},
		}},
		nopLogger{},
	)
	env.uc.timeProvider = fixedTimeProvider{now: now}
	return env
}

func TestExecute_DefaultHorizon(t *testing.T) {
	env := newTestEnv(at(monday, 10, 5))

	resp, err := env.uc.Execute(context.Background(), &Request{CourtID: 1})
	require.NoError(t, err)
	require.Len(t, resp.Days, DefaultDays)

	for i, day := range resp.Days {
		assert.Equal(t, monday.AddDate(0, 0, i), day.Date)
	}
}

func TestExecute_HorizonBounds(t *testing.T) {
	env := newTestEnv(at(monday, 10, 5))

	resp, err := env.uc.Execute(context.Background(), &Request{CourtID: 1, Days: MaxDays})
	require.NoError(t, err)
	assert.Len(t, resp.Days, MaxDays)

	_, err = env.uc.Execute(context.Background(), &Request{CourtID: 1, Days: MaxDays + 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_InvalidCourtID(t *testing.T) {
	env := newTestEnv(at(monday, 10, 5))

	_, err := env.uc.Execute(context.Background(), &Request{CourtID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_CourtNotFound(t *testing.T) {
	env := newTestEnv(at(monday, 10, 5))

	_, err := env.uc.Execute(context.Background(), &Request{CourtID: 42})
	assert.ErrorIs(t, err, ErrCourtNotFound)
}

// Прошедшая часть текущего дня отсекается с округлением вверх до получаса
func TestExecute_TrimsPastOfToday(t *testing.T) {
	env := newTestEnv(at(monday, 10, 5))

	resp, err := env.uc.Execute(context.Background(), &Request{CourtID: 1, Days: 2})
	require.NoError(t, err)
	require.Len(t, resp.Days, 2)

	// Сегодня: окно 09:00-18:00 обрезано до 10:30
	require.Len(t, resp.Days[0].Open, 1)
	assert.Equal(t, at(monday, 10, 30), resp.Days[0].Open[0].Start)
	assert.Equal(t, at(monday, 18, 0), resp.Days[0].Open[0].End)

	// Завтра окно целиком
	tuesday := monday.AddDate(0, 0, 1)
	require.Len(t, resp.Days[1].Open, 1)
	assert.Equal(t, at(tuesday, 9, 0), resp.Days[1].Open[0].Start)
	assert.Equal(t, at(tuesday, 18, 0), resp.Days[1].Open[0].End)
}

// Момент ровно на границе получаса не предлагается: старт бронирования
// должен быть строго в будущем
func TestExecute_BoundaryMomentExcluded(t *testing.T) {
	env := newTestEnv(at(monday, 10, 0))

	resp, err := env.uc.Execute(context.Background(), &Request{CourtID: 1, Days: 1})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	require.Len(t, resp.Days[0].Open, 1)
	assert.Equal(t, at(monday, 10, 30), resp.Days[0].Open[0].Start)
}

// День целиком в прошлом отдается пустым без обращения к движку
func TestExecute_WholePastDay(t *testing.T) {
	env := newTestEnv(at(monday, 10, 5))
	sunday := monday.AddDate(0, 0, -1)

	resp, err := env.uc.Execute(context.Background(), &Request{CourtID: 1, From: sunday, Days: 2})
	require.NoError(t, err)
	require.Len(t, resp.Days, 2)

	assert.Equal(t, sunday, resp.Days[0].Date)
	assert.Empty(t, resp.Days[0].Open, "вчерашний день пуст, хотя правило есть")

	require.Len(t, resp.Days[1].Open, 1)
	assert.Equal(t, at(monday, 10, 30), resp.Days[1].Open[0].Start)
}

func TestExecute_BookingsAndBlocksSubtracted(t *testing.T) {
	env := newTestEnv(at(monday, 10, 5))

	env.bookings.bookings = append(env.bookings.bookings, &domain.Booking{
		ID: 1, CourtID: 1, UserID: 100,
		StartsAt: at(monday, 12, 0), EndsAt: at(monday, 13, 0),
		Status: domain.StatusConfirmed,
	})
	env.blocks.blocks = append(env.blocks.blocks, &domain.CourtBlock{
		ID: 1, CourtID: 1,
		StartsAt: at(monday, 16, 0), EndsAt: at(monday, 17, 0),
		Reason: "maintenance",
	})

	resp, err := env.uc.Execute(context.Background(), &Request{CourtID: 1, Days: 1})
	require.NoError(t, err)
	require.Len(t, resp.Days, 1)

	open := resp.Days[0].Open
	require.Len(t, open, 3)
	assert.Equal(t, Interval{Start: at(monday, 10, 30), End: at(monday, 12, 0)}, open[0])
	assert.Equal(t, Interval{Start: at(monday, 13, 0), End: at(monday, 16, 0)}, open[1])
	assert.Equal(t, Interval{Start: at(monday, 17, 0), End: at(monday, 18, 0)}, open[2])
}
