package create_booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playfield/CourtBookingService/internal/timepolicy"
)

var (
	// ErrCourtNotFound возвращается, когда корт не найден
	ErrCourtNotFound = errors.New("create_booking: court not found")

	// ErrInvalidRange возвращается, когда интервал нарушает временную политику
	// (невыровнен, слишком короткий/длинный, вне окна предварительной записи).
	// Конкретные нарушения несет RangeError
	ErrInvalidRange = errors.New("create_booking: invalid time range")

	// ErrSlotConflict возвращается, когда интервал уже занят на момент
	// резервирования. Конфликтующий участок несет SlotConflictError
	ErrSlotConflict = errors.New("create_booking: slot is no longer available")

	// ErrLockTimeout возвращается, когда блокировку корта не удалось получить
	// в пределах бюджета ожидания. Вызывающий может повторить с backoff
	ErrLockTimeout = errors.New("create_booking: court lock wait timed out")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)

// RangeError интервал не прошел валидацию временной политики.
// Содержит ВСЕ нарушения, чтобы клиент увидел их разом
type RangeError struct {
	Violations []timepolicy.Violation
}

func (e *RangeError) Error() string {
	codes := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		codes[i] = v.Code
	}
	return fmt.Sprintf("%v: %s", ErrInvalidRange, strings.Join(codes, ", "))
}

// Is позволяет errors.Is(err, ErrInvalidRange) для структурной ошибки
func (e *RangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// SlotConflictError интервал занят; несет конфликтующий участок
// для отображения клиенту ("этот слот только что заняли")
type SlotConflictError struct {
	ConflictStart time.Time
	ConflictEnd   time.Time
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("%v: conflicting interval [%s, %s)",
		ErrSlotConflict,
		e.ConflictStart.Format(time.RFC3339),
		e.ConflictEnd.Format(time.RFC3339))
}

// Is позволяет errors.Is(err, ErrSlotConflict) для структурной ошибки
func (e *SlotConflictError) Is(target error) bool {
	return target == ErrSlotConflict
}
