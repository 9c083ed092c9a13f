package get_availability

import (
	"context"
	"time"

	"github.com/playfield/CourtBookingService/internal/domain"
)

// BookingRepository интерфейс для работы с бронированиями
type BookingRepository interface {
	GetActiveByCourtAndRange(ctx context.Context, courtID int64, from, to time.Time) ([]*domain.Booking, error)
}

// RuleRepository интерфейс для работы с правилами доступности
type RuleRepository interface {
	GetActiveByCourtAndWeekday(ctx context.Context, courtID int64, dayOfWeek int) ([]*domain.AvailabilityRule, error)
}

// BlockRepository интерфейс для работы с блокировками кортов
type BlockRepository interface {
	GetByCourtAndRange(ctx context.Context, courtID int64, from, to time.Time) ([]*domain.CourtBlock, error)
}

// CourtRepository интерфейс для работы с кортами
type CourtRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Court, error)
}

// TimeProvider абстракция над временем для тестируемости
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// RealTimeProvider реализация TimeProvider на основе системных часов
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
