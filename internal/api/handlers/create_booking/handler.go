package create_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/playfield/CourtBookingService/internal/api/handlers"
	"github.com/playfield/CourtBookingService/internal/api/middleware"
	createBooking "github.com/playfield/CourtBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateTime    = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgInvalidRange       = "интервал нарушает правила бронирования"
	msgSlotConflict       = "выбранный интервал уже занят"
	msgCourtNotFound      = "корт не найден"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgCourtBusy          = "корт сейчас бронирует другой пользователь, повторите запрос"
)

// retryAfterSeconds подсказка клиенту при таймауте блокировки корта
const retryAfterSeconds = 1

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var rangeErr *createBooking.RangeError
		var conflictErr *createBooking.SlotConflictError

		switch {
		case errors.As(err, &rangeErr):
			h.logger.Warn("POST /bookings - Invalid range: user_id=%d, court_id=%d, error=%v",
				userID, req.CourtID, err)
			handlers.RespondJSON(w, http.StatusBadRequest, FromViolations(msgInvalidRange, rangeErr.Violations))

		case errors.As(err, &conflictErr):
			h.logger.Warn("POST /bookings - Slot conflict: user_id=%d, court_id=%d, conflict=[%s, %s)",
				userID, req.CourtID,
				conflictErr.ConflictStart.Format(time.RFC3339),
				conflictErr.ConflictEnd.Format(time.RFC3339))
			handlers.RespondConflict(w, &ConflictResponse{
				Message:       msgSlotConflict,
				ConflictStart: conflictErr.ConflictStart.Format(time.RFC3339),
				ConflictEnd:   conflictErr.ConflictEnd.Format(time.RFC3339),
			})

		case errors.Is(err, createBooking.ErrSlotConflict):
			// Конфликт без деталей участка
			h.logger.Warn("POST /bookings - Slot conflict: user_id=%d, court_id=%d", userID, req.CourtID)
			handlers.RespondError(w, http.StatusConflict, msgSlotConflict)

		case errors.Is(err, createBooking.ErrCourtNotFound):
			h.logger.Warn("POST /bookings - Court not found: court_id=%d", req.CourtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, createBooking.ErrLockTimeout):
			h.logger.Warn("POST /bookings - Lock timeout: user_id=%d, court_id=%d", userID, req.CourtID)
			handlers.RespondUnavailable(w, msgCourtBusy, retryAfterSeconds)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, court_id=%d, error=%v",
				userID, req.CourtID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, court_id=%d, error=%v",
				userID, req.CourtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, court_id=%d",
		result.ID, userID, req.CourtID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
