package paymentgateway

import "errors"

var (
	// ErrTransactionNotFound возвращается, когда шлюз не знает транзакцию
	ErrTransactionNotFound = errors.New("paymentgateway client: transaction not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentgateway client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от шлюза
	ErrInvalidResponse = errors.New("paymentgateway client: invalid response")
)
