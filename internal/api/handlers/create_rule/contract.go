package create_rule

import (
	"context"

	"github.com/playfield/CourtBookingService/internal/service/rules/models"
)

type RuleService interface {
	Create(ctx context.Context, req *models.CreateRuleRequest) (*models.RuleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
