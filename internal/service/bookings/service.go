package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/playfield/CourtBookingService/internal/domain"
	bookingRepo "github.com/playfield/CourtBookingService/internal/infra/storage/booking"
	paymentRepo "github.com/playfield/CourtBookingService/internal/infra/storage/payment"
	"github.com/playfield/CourtBookingService/internal/integrations/paymentgateway"
	"github.com/playfield/CourtBookingService/internal/service/bookings/models"
)

// Service сервис жизненного цикла бронирований.
// Переходы статусов: pending -> confirmed | cancelled,
// confirmed -> cancelled | completed; cancelled и completed - терминальные
type Service struct {
	bookingRepo   BookingRepository
	courtRepo     CourtRepository
	paymentRepo   PaymentRepository
	gatewayClient PaymentGatewayClient
	txManager     TransactionManager
	timeProvider  TimeProvider
	metrics       Metrics
	logger        Logger

	lockTimeout time.Duration
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	courtRepo CourtRepository,
	paymentRepo PaymentRepository,
	gatewayClient PaymentGatewayClient,
	txManager TransactionManager,
	lockTimeout time.Duration,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		courtRepo:     courtRepo,
		paymentRepo:   paymentRepo,
		gatewayClient: gatewayClient,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		metrics:       metrics,
		logger:        logger,
		lockTimeout:   lockTimeout,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - бронирование видит его владелец
// или владелец корта
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Пользователь может отменить своё бронирование, владелец корта - любое
// бронирование своего корта. Отмена освобождает интервал, поэтому выполняется
// под той же advisory-блокировкой корта, что и резервирование: отмена
// и конкурентное резервирование по этому корту строго упорядочены
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// GetByID внутри транзакции берет строку FOR UPDATE
		booking, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		if err := s.checkUserAccess(txCtx, booking, req.UserID); err != nil {
			return err
		}

		// Корт узнаем только из бронирования, поэтому блокировка берется
		// после чтения строки. Ожидание ограничено lock_timeout
		if err := s.bookingRepo.LockCourt(txCtx, booking.CourtID, s.lockTimeout); err != nil {
			if errors.Is(err, bookingRepo.ErrLockNotAvailable) {
				return ErrLockTimeout
			}
			return fmt.Errorf("%w: Cancel - failed to lock court: %v", ErrInternal, err)
		}

		if !domain.CanTransition(booking.Status, domain.StatusCancelled) {
			return fmt.Errorf("%w: %v", ErrInvalidTransition,
				domain.NewStateTransitionError(booking.Status, domain.StatusCancelled))
		}

		if err := s.bookingRepo.Cancel(txCtx, bookingID, req.CancellationReason); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
		case errors.Is(err, ErrAccessDenied):
			s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, bookingID)
		case errors.Is(err, ErrInvalidTransition):
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled: %v", bookingID, err)
		case errors.Is(err, ErrLockTimeout):
			s.logger.Warn("Cancel: lock timeout on booking id=%d", bookingID)
		default:
			s.logger.Error("Cancel: failed to cancel booking id=%d: %v", bookingID, err)
		}
		return err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// ConfirmPayment подтверждает бронирование по платежу.
// Транзакция сверяется с платежным шлюзом: статус должен быть succeeded,
// сумма - совпадать с ценой бронирования. Запись в платежный журнал
// и перевод pending -> confirmed выполняются атомарно.
// Повторный колбэк по той же ссылке - идемпотентный успех
func (s *Service) ConfirmPayment(ctx context.Context, req *models.ConfirmPaymentRequest) (*models.ConfirmPaymentResponse, error) {
	s.logger.Info("ConfirmPayment: booking id=%d, gatewayRef=%s", req.BookingID, req.GatewayRef)

	if req.BookingID <= 0 || req.GatewayRef == "" {
		return nil, fmt.Errorf("%w: booking id and gateway reference are required", ErrInvalidInput)
	}

	// Сверка с шлюзом - до транзакции, сетевой вызов внутри нее не нужен
	gwTx, err := s.gatewayClient.GetTransaction(ctx, req.GatewayRef)
	if err != nil {
		if errors.Is(err, paymentgateway.ErrTransactionNotFound) {
			s.logger.Warn("ConfirmPayment: gateway transaction %s not found", req.GatewayRef)
			return nil, ErrTransactionNotFound
		}
		s.logger.Error("ConfirmPayment: gateway error for ref=%s: %v", req.GatewayRef, err)
		return nil, fmt.Errorf("%w: ConfirmPayment - gateway error: %v", ErrInternal, err)
	}

	if !gwTx.IsSucceeded() {
		s.logger.Warn("ConfirmPayment: gateway transaction %s has status=%s", req.GatewayRef, gwTx.Status)
		return nil, ErrPaymentNotConfirmed
	}

	var resp *models.ConfirmPaymentResponse

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: ConfirmPayment - repository error: %v", ErrInternal, err)
		}

		// Повторная доставка колбэка: бронирование уже подтверждено
		// этой же транзакцией шлюза
		if booking.Status == domain.StatusConfirmed {
			existing, err := s.paymentRepo.GetByGatewayRef(txCtx, req.GatewayRef)
			if err == nil && existing.BookingID == booking.ID && existing.IsSuccessful() {
				resp = &models.ConfirmPaymentResponse{
					BookingID:     booking.ID,
					Status:        string(booking.Status),
					PaymentID:     existing.ID,
					PaymentStatus: string(existing.Status),
				}
				return nil
			}
		}

		if !domain.CanTransition(booking.Status, domain.StatusConfirmed) {
			return fmt.Errorf("%w: %v", ErrInvalidTransition,
				domain.NewStateTransitionError(booking.Status, domain.StatusConfirmed))
		}

		if gwTx.Amount != booking.FinalPrice {
			s.logger.Warn("ConfirmPayment: amount mismatch for booking id=%d: gateway=%.2f, booking=%.2f",
				booking.ID, gwTx.Amount, booking.FinalPrice)
			return ErrAmountMismatch
		}

		payment, err := s.paymentRepo.Create(txCtx, &domain.PaymentTransaction{
			BookingID:  booking.ID,
			Amount:     gwTx.Amount,
			Method:     gwTx.Method,
			Status:     domain.PaymentSuccess,
			GatewayRef: gwTx.Reference,
		})
		if err != nil {
			// Частичный уникальный индекс: не более одной success-транзакции
			// на бронирование
			if errors.Is(err, paymentRepo.ErrDuplicateSuccess) {
				return fmt.Errorf("%w: booking already paid", ErrInvalidTransition)
			}
			return fmt.Errorf("%w: ConfirmPayment - repository error: %v", ErrInternal, err)
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, booking.ID, domain.StatusConfirmed); err != nil {
			return fmt.Errorf("%w: ConfirmPayment - repository error: %v", ErrInternal, err)
		}

		resp = &models.ConfirmPaymentResponse{
			BookingID:     booking.ID,
			Status:        string(domain.StatusConfirmed),
			PaymentID:     payment.ID,
			PaymentStatus: string(payment.Status),
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("ConfirmPayment: failed for booking id=%d: %v", req.BookingID, err)
		} else {
			s.logger.Warn("ConfirmPayment: rejected for booking id=%d: %v", req.BookingID, err)
		}
		return nil, err
	}

	s.logger.Info("ConfirmPayment: booking id=%d confirmed, payment id=%d", resp.BookingID, resp.PaymentID)
	return resp, nil
}

// ExpirePendingBookings отменяет pending-бронирования старше ttl.
// Вызывается планировщиком; освобожденные интервалы сразу возвращаются
// в доступность
func (s *Service) ExpirePendingBookings(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := s.timeProvider.Now().Add(-ttl)
	s.logger.Info("ExpirePendingBookings: expiring pending bookings created before %s", cutoff.Format(time.RFC3339))

	expired, err := s.bookingRepo.ExpirePending(ctx, cutoff, "payment window expired")
	if err != nil {
		s.logger.Error("ExpirePendingBookings: repository error: %v", err)
		return 0, fmt.Errorf("%w: ExpirePendingBookings - repository error: %v", ErrInternal, err)
	}

	if expired > 0 {
		s.metrics.AddExpiredBookings(int(expired))
		s.logger.Info("ExpirePendingBookings: expired %d bookings", expired)
	}
	return expired, nil
}

// CompleteElapsedBookings переводит confirmed-бронирования с прошедшим
// временем окончания в completed. Вызывается планировщиком
func (s *Service) CompleteElapsedBookings(ctx context.Context) (int64, error) {
	now := s.timeProvider.Now()

	completed, err := s.bookingRepo.CompleteElapsed(ctx, now)
	if err != nil {
		s.logger.Error("CompleteElapsedBookings: repository error: %v", err)
		return 0, fmt.Errorf("%w: CompleteElapsedBookings - repository error: %v", ErrInternal, err)
	}

	if completed > 0 {
		s.metrics.AddCompletedBookings(int(completed))
		s.logger.Info("CompleteElapsedBookings: completed %d bookings", completed)
	}
	return completed, nil
}

// Вспомогательные методы

// checkUserAccess проверяет, что пользователь имеет доступ к бронированию
// Доступ есть у владельца бронирования и у владельца корта
func (s *Service) checkUserAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	if booking.UserID == userID {
		return nil
	}

	court, err := s.courtRepo.GetByID(ctx, booking.CourtID)
	if err != nil {
		s.logger.Error("checkUserAccess: failed to get court id=%d: %v", booking.CourtID, err)
		return ErrAccessDenied
	}

	if !court.IsOwnedBy(userID) {
		s.logger.Warn("checkUserAccess: user=%d is not owner of court=%d", userID, booking.CourtID)
		return ErrAccessDenied
	}

	return nil
}
