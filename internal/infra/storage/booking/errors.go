package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrLockNotAvailable возвращается, когда блокировку корта не удалось
	// получить в пределах lock_timeout
	ErrLockNotAvailable = errors.New("booking.repository: court lock not acquired within timeout")

	// ErrNotInTransaction возвращается при попытке взять блокировку корта
	// вне транзакции - advisory xact lock живет до конца транзакции
	ErrNotInTransaction = errors.New("booking.repository: court lock requires an active transaction")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
