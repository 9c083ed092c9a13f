package payment_callback

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/playfield/CourtBookingService/internal/api/handlers"
	"github.com/playfield/CourtBookingService/internal/service/bookings"
	"github.com/playfield/CourtBookingService/internal/service/bookings/models"
)

const (
	// SignatureHeader заголовок с подписью колбэка от платежного шлюза
	SignatureHeader = "X-Gateway-Signature"

	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidSignature    = "невалидная подпись колбэка"
	msgBookingNotFound     = "бронирование не найдено"
	msgPaymentNotFound     = "платежная транзакция не найдена"
	msgPaymentNotConfirmed = "платеж не подтвержден шлюзом"
	msgAmountMismatch      = "сумма платежа не совпадает с ценой бронирования"
	msgCannotConfirm       = "бронирование нельзя подтвердить в текущем статусе"
)

type Handler struct {
	service BookingService
	secret  string
	logger  Logger
}

func NewHandler(service BookingService, callbackSecret string, logger Logger) *Handler {
	return &Handler{
		service: service,
		secret:  callbackSecret,
		logger:  logger,
	}
}

// CallbackRequest HTTP request model (тело колбэка шлюза)
type CallbackRequest struct {
	BookingID  int64  `json:"bookingId"`
	GatewayRef string `json:"gatewayRef"`
}

// Handle POST /api/v1/payments/callback
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	signature := r.Header.Get(SignatureHeader)
	if subtle.ConstantTimeCompare([]byte(signature), []byte(h.secret)) != 1 {
		h.logger.Warn("POST /payments/callback - Invalid signature")
		handlers.RespondUnauthorized(w, msgInvalidSignature)
		return
	}

	var req CallbackRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/callback - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ConfirmPayment(r.Context(), &models.ConfirmPaymentRequest{
		BookingID:  req.BookingID,
		GatewayRef: req.GatewayRef,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /payments/callback - Booking not found: booking_id=%d", req.BookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrTransactionNotFound):
			h.logger.Warn("POST /payments/callback - Gateway transaction not found: ref=%s", req.GatewayRef)
			handlers.RespondNotFound(w, msgPaymentNotFound)

		case errors.Is(err, bookings.ErrPaymentNotConfirmed):
			h.logger.Warn("POST /payments/callback - Payment not confirmed: booking_id=%d, ref=%s",
				req.BookingID, req.GatewayRef)
			handlers.RespondBadRequest(w, msgPaymentNotConfirmed)

		case errors.Is(err, bookings.ErrAmountMismatch):
			h.logger.Warn("POST /payments/callback - Amount mismatch: booking_id=%d, ref=%s",
				req.BookingID, req.GatewayRef)
			handlers.RespondBadRequest(w, msgAmountMismatch)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("POST /payments/callback - Cannot confirm: booking_id=%d, error=%v",
				req.BookingID, err)
			handlers.RespondError(w, http.StatusConflict, msgCannotConfirm)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("POST /payments/callback - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /payments/callback - Failed: booking_id=%d, error=%v", req.BookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/callback - Booking confirmed: booking_id=%d, payment_id=%d",
		result.BookingID, result.PaymentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
