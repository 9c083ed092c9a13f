package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/playfield/CourtBookingService/internal/api/handlers"
	"github.com/playfield/CourtBookingService/internal/domain"
	getAvailability "github.com/playfield/CourtBookingService/internal/usecase/get_availability"
)

const (
	msgInvalidCourtID = "некорректный ID корта"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDays    = "некорректное количество дней"
	msgCourtNotFound  = "корт не найден"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/courts/{courtId}/availability?date=YYYY-MM-DD&days=N
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courtID, err := strconv.ParseInt(vars["courtId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /courts/{id}/availability - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	// Опциональные query-параметры: date (по умолчанию сегодня), days
	var from time.Time
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		from, err = time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			h.logger.Warn("GET /courts/{id}/availability - Invalid date %q: %v", dateStr, err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
	}

	days := 0
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		days, err = strconv.Atoi(daysStr)
		if err != nil || days <= 0 {
			h.logger.Warn("GET /courts/{id}/availability - Invalid days %q", daysStr)
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		CourtID: courtID,
		From:    from,
		Days:    days,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrCourtNotFound):
			h.logger.Warn("GET /courts/{id}/availability - Court not found: court_id=%d", courtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /courts/{id}/availability - Invalid input: court_id=%d, error=%v", courtID, err)
			handlers.RespondBadRequest(w, msgInvalidDays)

		default:
			h.logger.Error("GET /courts/{id}/availability - Failed: court_id=%d, error=%v", courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /courts/{id}/availability - Availability computed: court_id=%d, days=%d",
		courtID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
