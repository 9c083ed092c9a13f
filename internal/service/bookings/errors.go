package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrTransactionNotFound возвращается, когда шлюз не знает ссылку на транзакцию
	ErrTransactionNotFound = errors.New("payment transaction not found")

	// ErrAmountMismatch возвращается, когда сумма платежа не совпадает с ценой бронирования
	ErrAmountMismatch = errors.New("payment amount does not match booking price")

	// ErrPaymentNotConfirmed возвращается, когда шлюз не подтвердил платеж
	ErrPaymentNotConfirmed = errors.New("payment is not confirmed by gateway")

	// ErrLockTimeout возвращается, когда блокировку корта не удалось
	// получить за отведенное время
	ErrLockTimeout = errors.New("court is busy, lock timeout")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
