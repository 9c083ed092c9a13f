package payment_callback

import (
	"context"

	"github.com/playfield/CourtBookingService/internal/service/bookings/models"
)

type BookingService interface {
	ConfirmPayment(ctx context.Context, req *models.ConfirmPaymentRequest) (*models.ConfirmPaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
