package models

import (
	"github.com/playfield/CourtBookingService/internal/domain"
	"github.com/playfield/CourtBookingService/pkg/types"
)

// Request модели

// CreateRuleRequest запрос на создание правила доступности
// Время задается строками "HH:MM" на границе получаса
type CreateRuleRequest struct {
	UserID    int64            `json:"userId"`
	CourtID   int64            `json:"courtId"`
	DayOfWeek int              `json:"dayOfWeek"` // 0 = Sunday ... 6 = Saturday
	StartTime types.TimeString `json:"startTime"` // "09:00"
	EndTime   types.TimeString `json:"endTime"`   // "18:00"
}

// DeleteRuleRequest запрос на деактивацию правила
type DeleteRuleRequest struct {
	UserID  int64 `json:"userId"`
	CourtID int64 `json:"courtId"`
	RuleID  int64 `json:"ruleId"`
}

// Response модели

// RuleResponse ответ с данными правила доступности
type RuleResponse struct {
	ID        int64  `json:"id"`
	CourtID   int64  `json:"courtId"`
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsActive  bool   `json:"isActive"`
}

// RuleListResponse ответ со списком правил корта
type RuleListResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// Методы конвертации

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(r *domain.AvailabilityRule) *RuleResponse {
	if r == nil {
		return nil
	}

	return &RuleResponse{
		ID:        r.ID,
		CourtID:   r.CourtID,
		DayOfWeek: r.DayOfWeek,
		StartTime: renderMinute(r.StartMinute),
		EndTime:   renderMinute(r.EndMinute),
		IsActive:  r.IsActive,
	}
}

// renderMinute рендерит минуты от полуночи как "HH:MM"
// Конец суток рендерится как "24:00"
func renderMinute(minute int) string {
	if minute >= domain.MinutesPerDay {
		return "24:00"
	}
	ts, err := types.NewTimeStringFromMinutes(minute)
	if err != nil {
		return "00:00"
	}
	return ts.String()
}

// FromDomainRuleList конвертирует список domain моделей в DTO
func FromDomainRuleList(rules []*domain.AvailabilityRule) *RuleListResponse {
	resp := &RuleListResponse{
		Rules: make([]RuleResponse, 0, len(rules)),
	}
	for _, r := range rules {
		resp.Rules = append(resp.Rules, *FromDomainRule(r))
	}
	return resp
}
