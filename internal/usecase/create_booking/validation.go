package create_booking

import (
	"fmt"
	"time"

	"github.com/playfield/CourtBookingService/internal/timepolicy"
)

// CodeRangeCrossesMidnight код нарушения "интервал пересекает границу суток".
// Правила доступности определены в пределах календарного дня, поэтому
// бронирование тоже должно укладываться в один день
const CodeRangeCrossesMidnight = "range_crosses_midnight"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CourtID <= 0 {
		return fmt.Errorf("%w: courtID must be positive", ErrInvalidInput)
	}

	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.Start.IsZero() || req.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}

	return nil
}

// validateRange проверяет интервал по временной политике
// и принадлежность одному календарному дню.
// Возвращает RangeError со ВСЕМИ нарушениями
func validateRange(now time.Time, req *Request, policy timepolicy.Policy) error {
	result := timepolicy.ValidateRange(now, req.Start, req.End, policy)
	violations := result.Violations

	if !sameBookingDay(req.Start, req.End) {
		violations = append(violations, timepolicy.Violation{
			Code:   CodeRangeCrossesMidnight,
			Detail: "booking must start and end on the same calendar date",
		})
	}

	if len(violations) > 0 {
		return &RangeError{Violations: violations}
	}

	return nil
}

// sameBookingDay проверяет, что интервал укладывается в один календарный день.
// Конец ровно в полночь следующего дня допустим (слот до закрытия)
func sameBookingDay(start, end time.Time) bool {
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	return !end.After(dayEnd)
}
