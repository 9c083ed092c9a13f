package domain

import "time"

// PaymentStatus represents the status of a payment transaction
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentSuccess  PaymentStatus = "success"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// PaymentTransaction a ledger entry tied to a booking
// Успешная транзакция переводит бронирование pending -> confirmed.
// Не более одной success-транзакции на бронирование - инвариант закреплен
// частичным уникальным индексом в БД
type PaymentTransaction struct {
	ID             int64
	BookingID      int64
	Amount         float64
	Method         string
	Status         PaymentStatus
	GatewayRef     string
	IdempotencyKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSuccessful returns true if the transaction settled successfully
func (p *PaymentTransaction) IsSuccessful() bool {
	return p.Status == PaymentSuccess
}
