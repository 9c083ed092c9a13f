package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playfield/CourtBookingService/internal/availability"
	"github.com/playfield/CourtBookingService/internal/domain"
	bookingRepo "github.com/playfield/CourtBookingService/internal/infra/storage/booking"
	courtRepo "github.com/playfield/CourtBookingService/internal/infra/storage/court"
	"github.com/playfield/CourtBookingService/internal/timepolicy"
)

// UseCase use case создания бронирования - атомарный check-and-reserve.
// Гарантия: из N конкурентных попыток занять пересекающиеся интервалы
// одного корта успешной будет ровно одна
type UseCase struct {
	bookingRepo  BookingRepository
	ruleRepo     RuleRepository
	blockRepo    BlockRepository
	courtRepo    CourtRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger

	policy      timepolicy.Policy
	lockTimeout time.Duration
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	ruleRepo RuleRepository,
	blockRepo BlockRepository,
	courtRepo CourtRepository,
	txManager TransactionManager,
	policy timepolicy.Policy,
	lockTimeout time.Duration,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		ruleRepo:     ruleRepo,
		blockRepo:    blockRepo,
		courtRepo:    courtRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		metrics:      metrics,
		logger:       logger,
		policy:       policy,
		lockTimeout:  lockTimeout,
	}
}

// Execute выполняет резервирование интервала [Start, End) на корте.
//
// Дешевые проверки (корт, валидация политики) выполняются ДО входа
// в критическую секцию. Дальше в транзакции READ COMMITTED:
//  1. Эксклюзивная advisory-блокировка таймлайна корта (ограниченное
//     ожидание, по таймауту - ErrLockTimeout без частичных записей)
//  2. Повторная проверка открытости интервала тем же движком доступности,
//     что и read path - показанная клиенту доступность могла устареть
//  3. Вставка бронирования в статусе pending
//
// Сериализацию дает advisory-блокировка, не уровень изоляции: на
// SERIALIZABLE снапшот берется первым же запросом - самим ожиданием
// блокировки - и проигравший, дождавшись победителя, не увидел бы его
// коммит и упал бы на 40001 при своем. READ COMMITTED читает каждым
// запросом последнее закоммиченное состояние, поэтому проигравший
// детерминированно получает SlotConflictError
//
// При обнаружении пересечения транзакция откатывается и возвращается
// SlotConflictError с занятым интервалом, который мешает запросу
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: court=%d, user=%d, start=%s, end=%s",
		req.CourtID, req.UserID, req.Start.Format(time.RFC3339), req.End.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Получаем корт (и его переопределения политики)
	court, err := uc.courtRepo.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			uc.logger.Warn("CreateBooking: court id=%d not found", req.CourtID)
			return nil, ErrCourtNotFound
		}
		uc.logger.Error("CreateBooking: failed to get court id=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: failed to get court: %v", ErrInternal, err)
	}

	// 3. Валидация интервала по политике корта - до захвата блокировки
	policy := uc.policy.WithCourtOverrides(court.MaxDurationMinutes, court.AdvanceBookingDays)
	if err := validateRange(now, req, policy); err != nil {
		uc.logger.Warn("CreateBooking: range validation failed: %v", err)
		return nil, err
	}

	var result *domain.Booking

	// 4. Критическая секция check-and-reserve
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 4.1. Сериализуем конкурентные попытки по этому корту.
		// Блокировка per-court: другие корты не ждут
		if err := uc.bookingRepo.LockCourt(txCtx, req.CourtID, uc.lockTimeout); err != nil {
			if errors.Is(err, bookingRepo.ErrLockNotAvailable) {
				return ErrLockTimeout
			}
			return fmt.Errorf("%w: failed to lock court: %v", ErrInternal, err)
		}

		// 4.2. Повторно вычисляем открытость по последнему
		// закоммиченному состоянию - включая бронирования, закоммиченные,
		// пока мы ждали блокировку
		day, bookings, blocks, err := uc.computeDay(txCtx, req.CourtID, req.Start)
		if err != nil {
			return err
		}

		if !day.ContainsRange(req.Start, req.End) {
			conflict := conflictingOccupied(req.Start, req.End, bookings, blocks, day)
			uc.logger.Warn("CreateBooking: slot conflict on court=%d: [%s, %s)",
				req.CourtID, conflict.Start.Format(time.RFC3339), conflict.End.Format(time.RFC3339))
			return &SlotConflictError{ConflictStart: conflict.Start, ConflictEnd: conflict.End}
		}

		// 4.3. Интервал открыт - создаем бронирование
		booking := &domain.Booking{
			CourtID:    req.CourtID,
			UserID:     req.UserID,
			StartsAt:   req.Start,
			EndsAt:     req.End,
			Status:     domain.StatusPending,
			FinalPrice: court.PriceFor(req.End.Sub(req.Start)),
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrSlotConflict):
			uc.metrics.IncSlotConflict()
		case errors.Is(err, ErrLockTimeout):
			uc.logger.Warn("CreateBooking: lock timeout on court=%d", req.CourtID)
			uc.metrics.IncLockTimeout()
		}
		return nil, err
	}

	uc.metrics.IncBookingCreated()
	uc.logger.Info("CreateBooking: successfully created booking id=%d, price=%.2f", result.ID, result.FinalPrice)

	return &Response{
		ID:         result.ID,
		CourtID:    result.CourtID,
		UserID:     result.UserID,
		StartsAt:   result.StartsAt,
		EndsAt:     result.EndsAt,
		Status:     string(result.Status),
		FinalPrice: result.FinalPrice,
		CreatedAt:  result.CreatedAt,
		UpdatedAt:  result.UpdatedAt,
	}, nil
}

// computeDay собирает снапшот правил/бронирований/блокировок на дату
// и прогоняет его через движок доступности. Снапшот возвращается вместе
// с результатом - по нему именуется занятый интервал при конфликте
func (uc *UseCase) computeDay(ctx context.Context, courtID int64, start time.Time) (availability.DayAvailability, []*domain.Booking, []*domain.CourtBlock, error) {
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	rules, err := uc.ruleRepo.GetActiveByCourtAndWeekday(ctx, courtID, int(start.Weekday()))
	if err != nil {
		return availability.DayAvailability{}, nil, nil, fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetActiveByCourtAndRange(ctx, courtID, dayStart, dayEnd)
	if err != nil {
		return availability.DayAvailability{}, nil, nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	blocks, err := uc.blockRepo.GetByCourtAndRange(ctx, courtID, dayStart, dayEnd)
	if err != nil {
		return availability.DayAvailability{}, nil, nil, fmt.Errorf("%w: failed to get blocks: %v", ErrInternal, err)
	}

	return availability.ComputeDay(dayStart, rules, bookings, blocks), bookings, blocks, nil
}

// conflictingOccupied возвращает занятый интервал, из-за которого запрос
// [start, end) не помещается: бронирование или блокировка целиком, как
// они лежат в базе. Если запрос упирается не в занятость, а в границу
// окна правил, возвращается закрытый участок внутри запроса
func conflictingOccupied(start, end time.Time, bookings []*domain.Booking, blocks []*domain.CourtBlock, day availability.DayAvailability) domain.TimeBlock {
	for _, b := range bookings {
		if b.IsActive() && b.Overlaps(start, end) {
			return domain.TimeBlock{Start: b.StartsAt, End: b.EndsAt}
		}
	}
	for _, bl := range blocks {
		if bl.Overlaps(start, end) {
			return domain.TimeBlock{Start: bl.StartsAt, End: bl.EndsAt}
		}
	}
	if gap, ok := day.ConflictingInterval(start, end); ok {
		return gap
	}
	return domain.TimeBlock{Start: start, End: end}
}
