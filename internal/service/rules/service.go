package rules

import (
	"context"
	"errors"
	"fmt"

	"github.com/playfield/CourtBookingService/internal/domain"
	courtRepo "github.com/playfield/CourtBookingService/internal/infra/storage/court"
	ruleRepo "github.com/playfield/CourtBookingService/internal/infra/storage/rule"
	"github.com/playfield/CourtBookingService/internal/service/rules/models"
)

// Service сервис управления правилами доступности кортов.
// Все операции доступны только владельцу корта
type Service struct {
	ruleRepo  RuleRepository
	courtRepo CourtRepository
	logger    Logger
}

// NewService создает новый экземпляр сервиса правил
func NewService(ruleRepo RuleRepository, courtRepo CourtRepository, logger Logger) *Service {
	return &Service{
		ruleRepo:  ruleRepo,
		courtRepo: courtRepo,
		logger:    logger,
	}
}

// Create создает еженедельное правило доступности корта.
// Границы окна должны лежать на сетке получаса, конец - позже начала
func (s *Service) Create(ctx context.Context, req *models.CreateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("Create: rule for court=%d, day=%d, window=%s-%s by user=%d",
		req.CourtID, req.DayOfWeek, req.StartTime, req.EndTime, req.UserID)

	startMinute, endMinute, err := validateWindow(req)
	if err != nil {
		s.logger.Warn("Create: validation failed for court=%d: %v", req.CourtID, err)
		return nil, err
	}

	if err := s.checkOwnerAccess(ctx, req.CourtID, req.UserID); err != nil {
		return nil, err
	}

	rule, err := s.ruleRepo.Create(ctx, &domain.AvailabilityRule{
		CourtID:     req.CourtID,
		DayOfWeek:   req.DayOfWeek,
		StartMinute: startMinute,
		EndMinute:   endMinute,
		IsActive:    true,
	})
	if err != nil {
		s.logger.Error("Create: repository error for court=%d: %v", req.CourtID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created rule id=%d for court=%d", rule.ID, rule.CourtID)
	return models.FromDomainRule(rule), nil
}

// List возвращает все правила корта, включая деактивированные
func (s *Service) List(ctx context.Context, courtID int64) (*models.RuleListResponse, error) {
	s.logger.Info("List: fetching rules for court=%d", courtID)

	if _, err := s.courtRepo.GetByID(ctx, courtID); err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			s.logger.Warn("List: court id=%d not found", courtID)
			return nil, ErrCourtNotFound
		}
		s.logger.Error("List: failed to get court id=%d: %v", courtID, err)
		return nil, fmt.Errorf("%w: List - failed to get court: %v", ErrInternal, err)
	}

	rules, err := s.ruleRepo.GetByCourt(ctx, courtID)
	if err != nil {
		s.logger.Error("List: repository error for court=%d: %v", courtID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d rules for court=%d", len(rules), courtID)
	return models.FromDomainRuleList(rules), nil
}

// Deactivate мягко удаляет правило (is_active = false).
// Существующие бронирования не затрагиваются - из доступности
// исчезают только будущие открытые интервалы
func (s *Service) Deactivate(ctx context.Context, req *models.DeleteRuleRequest) error {
	s.logger.Info("Deactivate: rule id=%d on court=%d by user=%d", req.RuleID, req.CourtID, req.UserID)

	if err := s.checkOwnerAccess(ctx, req.CourtID, req.UserID); err != nil {
		return err
	}

	rule, err := s.ruleRepo.GetByID(ctx, req.RuleID)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("Deactivate: rule id=%d not found", req.RuleID)
			return ErrRuleNotFound
		}
		s.logger.Error("Deactivate: repository error for rule id=%d: %v", req.RuleID, err)
		return fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
	}

	// Правило должно принадлежать корту из URL
	if rule.CourtID != req.CourtID {
		s.logger.Warn("Deactivate: rule id=%d belongs to court=%d, not court=%d",
			req.RuleID, rule.CourtID, req.CourtID)
		return ErrRuleNotFound
	}

	if err := s.ruleRepo.Deactivate(ctx, req.RuleID); err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			return ErrRuleNotFound
		}
		s.logger.Error("Deactivate: repository error for rule id=%d: %v", req.RuleID, err)
		return fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Deactivate: successfully deactivated rule id=%d", req.RuleID)
	return nil
}

// Вспомогательные методы

// validateWindow проверяет окно правила и возвращает границы в минутах от полуночи
func validateWindow(req *models.CreateRuleRequest) (int, int, error) {
	if req.CourtID <= 0 {
		return 0, 0, fmt.Errorf("%w: court id must be positive", ErrInvalidInput)
	}
	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		return 0, 0, fmt.Errorf("%w: day of week must be in range 0-6", ErrInvalidInput)
	}

	startMinute, err := req.StartTime.MinuteOfDay()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}
	endMinute, err := req.EndTime.MinuteOfDay()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid end time: %v", ErrInvalidInput, err)
	}

	if startMinute%domain.SlotGranularityMinutes != 0 || endMinute%domain.SlotGranularityMinutes != 0 {
		return 0, 0, fmt.Errorf("%w: rule window must align to %d-minute boundaries",
			ErrInvalidInput, domain.SlotGranularityMinutes)
	}
	if endMinute <= startMinute {
		return 0, 0, fmt.Errorf("%w: end time must be after start time", ErrInvalidInput)
	}

	return startMinute, endMinute, nil
}

// checkOwnerAccess проверяет, что пользователь - владелец корта
func (s *Service) checkOwnerAccess(ctx context.Context, courtID, userID int64) error {
	court, err := s.courtRepo.GetByID(ctx, courtID)
	if err != nil {
		if errors.Is(err, courtRepo.ErrCourtNotFound) {
			s.logger.Warn("checkOwnerAccess: court id=%d not found", courtID)
			return ErrCourtNotFound
		}
		s.logger.Error("checkOwnerAccess: failed to get court id=%d: %v", courtID, err)
		return fmt.Errorf("%w: checkOwnerAccess - failed to get court: %v", ErrInternal, err)
	}

	if !court.IsOwnedBy(userID) {
		s.logger.Warn("checkOwnerAccess: user=%d is not owner of court=%d", userID, courtID)
		return ErrAccessDenied
	}

	return nil
}
