package delete_rule

import (
	"context"

	"github.com/playfield/CourtBookingService/internal/service/rules/models"
)

type RuleService interface {
	Deactivate(ctx context.Context, req *models.DeleteRuleRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
