package payment

import "errors"

var (
	// ErrTransactionNotFound возвращается, когда транзакция не найдена
	ErrTransactionNotFound = errors.New("payment.repository: transaction not found")

	// ErrDuplicateSuccess возвращается при попытке записать вторую
	// success-транзакцию для одного бронирования (частичный уникальный индекс)
	ErrDuplicateSuccess = errors.New("payment.repository: booking already has a successful transaction")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("payment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("payment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("payment.repository: failed to scan row")
)
