package get_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playfield/CourtBookingService/internal/availability"
	"github.com/playfield/CourtBookingService/internal/domain"
	courtRepo "github.com/playfield/CourtBookingService/internal/infra/storage/court"
	"github.com/playfield/CourtBookingService/internal/timepolicy"
)

const (
	// DefaultDays горизонт выборки по умолчанию
	DefaultDays = 7
	// MaxDays максимальный горизонт одного запроса
	MaxDays = 31
)

// UseCase use case получения доступности корта.
// Read path без блокировок: результат - снапшот на момент чтения
// и может устареть к моменту резервирования
type UseCase struct {
	bookingRepo  BookingRepository
	ruleRepo     RuleRepository
	blockRepo    BlockRepository
	courtRepo    CourtRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	ruleRepo RuleRepository,
	blockRepo BlockRepository,
	courtRepo CourtRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		ruleRepo:     ruleRepo,
		blockRepo:    blockRepo,
		courtRepo:    courtRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute возвращает открытые интервалы корта на Days дней начиная с From.
// Для текущего дня прошедшая часть отсекается (с округлением вверх
// до границы получаса)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: court=%d, from=%s, days=%d",
		req.CourtID, req.From.Format(domain.DateFormat), req.Days)

	if req.CourtID <= 0 {
		return nil, fmt.Errorf("%w: court id must be positive", ErrInvalidInput)
	}

	days := req.Days
	if days <= 0 {
		days = DefaultDays
	}
	if days > MaxDays {
		return nil, fmt.Errorf("%w: days must not exceed %d", ErrInvalidInput, MaxDays)
	}

	if _, err := uc.courtRepo.GetByID(ctx, req.CourtID); err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("GetAvailability: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("GetAvailability: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	from := req.From
	if from.IsZero() {
		from = now
	}

	// Нижняя граница показываемой доступности: старт должен быть строго
	// в будущем, поэтому момент ровно на границе получаса тоже отсекается
	floor := timepolicy.RoundUp(now)
	if !floor.After(now) {
		floor = floor.Add(domain.SlotGranularityMinutes * time.Minute)
	}

	resp := &Response{CourtID: req.CourtID, Days: make([]Day, 0, days)}

	for i := 0; i < days; i++ {
		date := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location()).AddDate(0, 0, i)
		dayEnd := date.AddDate(0, 0, 1)

		if !dayEnd.After(floor) {
			// День целиком в прошлом
			resp.Days = append(resp.Days, Day{Date: date, Open: []Interval{}})
			continue
		}

		day, err := uc.computeDay(ctx, req.CourtID, date, dayEnd)
		if err != nil {
			return nil, err
		}

		open := make([]Interval, 0, len(day.Open))
		for _, b := range day.Open {
			start := b.Start
			if start.Before(floor) {
				start = floor
			}
			if !start.Before(b.End) {
				continue
			}
			open = append(open, Interval{Start: start, End: b.End})
		}

		resp.Days = append(resp.Days, Day{Date: date, Open: open})
	}

	return resp, nil
}

func (uc *UseCase) computeDay(ctx context.Context, courtID int64, date, dayEnd time.Time) (availability.DayAvailability, error) {
	rules, err := uc.ruleRepo.GetActiveByCourtAndWeekday(ctx, courtID, int(date.Weekday()))
	if err != nil {
		return availability.DayAvailability{}, fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetActiveByCourtAndRange(ctx, courtID, date, dayEnd)
	if err != nil {
		return availability.DayAvailability{}, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	blocks, err := uc.blockRepo.GetByCourtAndRange(ctx, courtID, date, dayEnd)
	if err != nil {
		return availability.DayAvailability{}, fmt.Errorf("%w: failed to get blocks: %v", ErrInternal, err)
	}

	return availability.ComputeDay(date, rules, bookings, blocks), nil
}
