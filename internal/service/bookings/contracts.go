package bookings

import (
	"context"
	"time"

	"github.com/playfield/CourtBookingService/internal/domain"
	"github.com/playfield/CourtBookingService/internal/integrations/paymentgateway"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	LockCourt(ctx context.Context, courtID int64, timeout time.Duration) error
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, reason string) error
	ExpirePending(ctx context.Context, cutoff time.Time, reason string) (int64, error)
	CompleteElapsed(ctx context.Context, now time.Time) (int64, error)
}

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// PaymentRepository интерфейс репозитория платежных транзакций
type PaymentRepository interface {
	Create(ctx context.Context, tx *domain.PaymentTransaction) (*domain.PaymentTransaction, error)
	GetByBookingID(ctx context.Context, bookingID int64) ([]*domain.PaymentTransaction, error)
	GetByGatewayRef(ctx context.Context, gatewayRef string) (*domain.PaymentTransaction, error)
}

// PaymentGatewayClient интерфейс клиента платежного шлюза
type PaymentGatewayClient interface {
	GetTransaction(ctx context.Context, reference string) (*paymentgateway.Transaction, error)
}

// TransactionManager интерфейс для управления транзакциями.
// Хватает READ COMMITTED: сериализацию дают advisory-блокировка корта
// и FOR UPDATE на строке бронирования
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider абстракция над временем для тестируемости
type TimeProvider interface {
	Now() time.Time
}

// Metrics счетчики жизненного цикла бронирований
type Metrics interface {
	AddExpiredBookings(n int)
	AddCompletedBookings(n int)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реализация TimeProvider на основе системных часов
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// NoopMetrics заглушка метрик для тестов
type NoopMetrics struct{}

func (NoopMetrics) AddExpiredBookings(int)   {}
func (NoopMetrics) AddCompletedBookings(int) {}
