package delete_rule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/playfield/CourtBookingService/internal/api/handlers"
	"github.com/playfield/CourtBookingService/internal/api/middleware"
	"github.com/playfield/CourtBookingService/internal/service/rules"
	"github.com/playfield/CourtBookingService/internal/service/rules/models"
)

const (
	msgInvalidCourtID = "некорректный ID корта"
	msgInvalidRuleID  = "некорректный ID правила"
	msgCourtNotFound  = "корт не найден"
	msgRuleNotFound   = "правило не найдено"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgForbidden      = "доступ запрещен"
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

// Handle DELETE /api/v1/courts/{courtId}/rules/{ruleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	courtID, err := strconv.ParseInt(vars["courtId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /courts/{id}/rules/{ruleId} - Invalid court ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCourtID)
		return
	}
	ruleID, err := strconv.ParseInt(vars["ruleId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /courts/{id}/rules/{ruleId} - Invalid rule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /courts/{id}/rules/{ruleId} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	err = h.service.Deactivate(r.Context(), &models.DeleteRuleRequest{
		UserID:  userID,
		CourtID: courtID,
		RuleID:  ruleID,
	})
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrCourtNotFound):
			h.logger.Warn("DELETE /courts/{id}/rules/{ruleId} - Court not found: court_id=%d", courtID)
			handlers.RespondNotFound(w, msgCourtNotFound)

		case errors.Is(err, rules.ErrRuleNotFound):
			h.logger.Warn("DELETE /courts/{id}/rules/{ruleId} - Rule not found: rule_id=%d", ruleID)
			handlers.RespondNotFound(w, msgRuleNotFound)

		case errors.Is(err, rules.ErrAccessDenied):
			h.logger.Warn("DELETE /courts/{id}/rules/{ruleId} - Access denied: court_id=%d, user_id=%d",
				courtID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /courts/{id}/rules/{ruleId} - Failed: rule_id=%d, error=%v", ruleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /courts/{id}/rules/{ruleId} - Rule deactivated: rule_id=%d, court_id=%d",
		ruleID, courtID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
