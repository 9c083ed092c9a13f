package create_rule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/playfield/CourtBookingService/internal/api/handlers"
	"github.com/playfield/CourtBookingService/internal/api/middleware"
	"github.com/playfield/CourtBookingService/internal/service/rules"
	"github.com/playfield/CourtBookingService/internal/service/rules/models"
	"github.com/playfield/CourtBookingService/pkg/types"
)

const (
	msgInvalidCourtID     = "некорректный ID корта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidWindow      = "некорректное окно доступности"
	msgCourtNotFound      = "корт не найден"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service RuleService
	logger  Logger
}

func NewHandler(service RuleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// CreateRuleHTTPRequest HTTP request model
type CreateRuleHTTPRequest struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 = Sunday ... 6 = Saturday
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "18:00"
}

// Handle POST /api/v1/courts/{courtId}/rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courtID, err := strconv.ParseInt(vars["courtId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /courts/{id}/rules - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /courts/{id}/rules - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateRuleHTTPRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /courts/{id}/rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &models.CreateRuleRequest{
		UserID:    userID,
		CourtID:   courtID,
		DayOfWeek: req.DayOfWeek,
		StartTime: types.TimeString(req.StartTime),
		EndTime:   types.TimeString(req.EndTime),
	})
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrCourtNotFound):
			h.logger.Warn("POST /courts/{id}/rules - Court not found: court_id=%d", courtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, rules.ErrAccessDenied):
			h.logger.Warn("POST /courts/{id}/rules - Access denied: court_id=%d, user_id=%d", courtID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, rules.ErrInvalidInput):
			h.logger.Warn("POST /courts/{id}/rules - Invalid window: court_id=%d, error=%v", courtID, err)
			handlers.RespondBadRequest(w, msgInvalidWindow)

		default:
			h.logger.Error("POST /courts/{id}/rules - Failed to create rule: court_id=%d, error=%v", courtID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /courts/{id}/rules - Rule created successfully: rule_id=%d, court_id=%d",
		result.ID, courtID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
