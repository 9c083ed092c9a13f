package create_booking

import (
	"context"
	"time"

	"github.com/playfield/CourtBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetActiveByCourtAndRange(ctx context.Context, courtID int64, from, to time.Time) ([]*domain.Booking, error)
	LockCourt(ctx context.Context, courtID int64, timeout time.Duration) error
}

// RuleRepository интерфейс репозитория правил доступности
type RuleRepository interface {
	GetActiveByCourtAndWeekday(ctx context.Context, courtID int64, dayOfWeek int) ([]*domain.AvailabilityRule, error)
}

// BlockRepository интерфейс репозитория блокировок корта
type BlockRepository interface {
	GetByCourtAndRange(ctx context.Context, courtID int64, from, to time.Time) ([]*domain.CourtBlock, error)
}

// CourtRepository интерфейс репозитория кортов
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics интерфейс доменных счетчиков резервирования
type Metrics interface {
	IncBookingCreated()
	IncSlotConflict()
	IncLockTimeout()
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// NoopMetrics заглушка счетчиков, когда метрики выключены
type NoopMetrics struct{}

func (NoopMetrics) IncBookingCreated() {}
func (NoopMetrics) IncSlotConflict()   {}
func (NoopMetrics) IncLockTimeout()    {}
