package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playfield/CourtBookingService/internal/domain"
	courtRepo "github.com/playfield/CourtBookingService/internal/infra/storage/court"
	ruleRepo "github.com/playfield/CourtBookingService/internal/infra/storage/rule"
	"github.com/playfield/CourtBookingService/internal/service/rules/models"
)

// Моки

type fakeRuleRepo struct {
	store  map[int64]*domain.AvailabilityRule
	nextID int64
}

func (f *fakeRuleRepo) Create(_ context.Context, rule *domain.AvailabilityRule) (*domain.AvailabilityRule, error) {
	f.nextID++
	created := *rule
	created.ID = f.nextID
	f.store[created.ID] = &created
	return &created, nil
}

func (f *fakeRuleRepo) GetByID(_ context.Context, id int64) (*domain.AvailabilityRule, error) {
	r, ok := f.store[id]
	if !ok {
		return nil, ruleRepo.ErrRuleNotFound
	}
	return r, nil
}

func (f *fakeRuleRepo) GetByCourt(_ context.Context, courtID int64) ([]*domain.AvailabilityRule, error) {
	var out []*domain.AvailabilityRule
	for _, r := range f.store {
		if r.CourtID == courtID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRuleRepo) Deactivate(_ context.Context, id int64) error {
	r, ok := f.store[id]
	if !ok {
		return ruleRepo.ErrRuleNotFound
	}
	r.IsActive = false
	return nil
}

type fakeCourtRepo struct {
	courts map[int64]*domain.Court
}

func (f *fakeCourtRepo) GetByID(_ context.Context, id int64) (*domain.Court, error) {
	c, ok := f.courts[id]
	if !ok {
		return nil, courtRepo.ErrCourtNotFound
	}
	return c, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const ownerID int64 = 500

func newTestService() (*Service, *fakeRuleRepo) {
	rules := &fakeRuleRepo{store: map[int64]*domain.AvailabilityRule{}}
	courts := &fakeCourtRepo{courts: map[int64]*domain.Court{
		10: {ID: 10, OwnerUserID: ownerID, Name: "Корт 10", PricePerHour: 1200},
		20: {ID: 20, OwnerUserID: 777, Name: "Корт 20", PricePerHour: 900},
	}}
	return NewService(rules, courts, nopLogger{}), rules
}

func TestCreate(t *testing.T) {
	t.Run("owner creates aligned rule", func(t *testing.T) {
		svc, repo := newTestService()

		resp, err := svc.Create(context.Background(), &models.CreateRuleRequest{
			UserID: ownerID, CourtID: 10, DayOfWeek: 1,
			StartTime: "09:00", EndTime: "18:30",
		})
		require.NoError(t, err)
		assert.Equal(t, "09:00", resp.StartTime)
		assert.Equal(t, "18:30", resp.EndTime)
		assert.True(t, resp.IsActive)
		assert.Len(t, repo.store, 1)
	})

	t.Run("non-owner denied", func(t *testing.T) {
		svc, repo := newTestService()

		_, err := svc.Create(context.Background(), &models.CreateRuleRequest{
			UserID: 999, CourtID: 10, DayOfWeek: 1,
			StartTime: "09:00", EndTime: "18:00",
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Empty(t, repo.store)
	})

	t.Run("unknown court", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.Create(context.Background(), &models.CreateRuleRequest{
			UserID: ownerID, CourtID: 42, DayOfWeek: 1,
			StartTime: "09:00", EndTime: "18:00",
		})
		assert.ErrorIs(t, err, ErrCourtNotFound)
	})

	t.Run("validation", func(t *testing.T) {
		svc, _ := newTestService()

		tests := []struct {
			name string
			req  *models.CreateRuleRequest
		}{
			{
				name: "day of week out of range",
				req: &models.CreateRuleRequest{
					UserID: ownerID, CourtID: 10, DayOfWeek: 7,
					StartTime: "09:00", EndTime: "18:00",
				},
			},
			{
				name: "start not on half-hour grid",
				req: &models.CreateRuleRequest{
					UserID: ownerID, CourtID: 10, DayOfWeek: 1,
					StartTime: "09:15", EndTime: "18:00",
				},
			},
			{
				name: "end not on half-hour grid",
				req: &models.CreateRuleRequest{
					UserID: ownerID, CourtID: 10, DayOfWeek: 1,
					StartTime: "09:00", EndTime: "17:45",
				},
			},
			{
				name: "end before start",
				req: &models.CreateRuleRequest{
					UserID: ownerID, CourtID: 10, DayOfWeek: 1,
					StartTime: "18:00", EndTime: "09:00",
				},
			},
			{
				name: "degenerate window",
				req: &models.CreateRuleRequest{
					UserID: ownerID, CourtID: 10, DayOfWeek: 1,
					StartTime: "09:00", EndTime: "09:00",
				},
			},
			{
				name: "unparsable time",
				req: &models.CreateRuleRequest{
					UserID: ownerID, CourtID: 10, DayOfWeek: 1,
					StartTime: "morning", EndTime: "18:00",
				},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Create(context.Background(), tt.req)
				assert.ErrorIs(t, err, ErrInvalidInput)
			})
		}
	})
}

func TestList(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Create(context.Background(), &models.CreateRuleRequest{
		UserID: ownerID, CourtID: 10, DayOfWeek: 1,
		StartTime: "09:00", EndTime: "18:00",
	})
	require.NoError(t, err)

	require.NoError(t, repo.Deactivate(context.Background(), 1))

	resp, err := svc.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, resp.Rules, 1, "деактивированные правила тоже возвращаются")
	assert.False(t, resp.Rules[0].IsActive)

	t.Run("unknown court", func(t *testing.T) {
		_, err := svc.List(context.Background(), 42)
		assert.ErrorIs(t, err, ErrCourtNotFound)
	})
}

func TestDeactivate(t *testing.T) {
	t.Run("owner deactivates rule", func(t *testing.T) {
		svc, repo := newTestService()
		created, err := svc.Create(context.Background(), &models.CreateRuleRequest{
			UserID: ownerID, CourtID: 10, DayOfWeek: 1,
			StartTime: "09:00", EndTime: "18:00",
		})
		require.NoError(t, err)

		err = svc.Deactivate(context.Background(), &models.DeleteRuleRequest{
			UserID: ownerID, CourtID: 10, RuleID: created.ID,
		})
		require.NoError(t, err)
		assert.False(t, repo.store[created.ID].IsActive)
	})

	t.Run("non-owner denied", func(t *testing.T) {
		svc, _ := newTestService()
		created, err := svc.Create(context.Background(), &models.CreateRuleRequest{
			UserID: ownerID, CourtID: 10, DayOfWeek: 1,
			StartTime: "09:00", EndTime: "18:00",
		})
		require.NoError(t, err)

		err = svc.Deactivate(context.Background(), &models.DeleteRuleRequest{
			UserID: 999, CourtID: 10, RuleID: created.ID,
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("missing rule", func(t *testing.T) {
		svc, _ := newTestService()
		err := svc.Deactivate(context.Background(), &models.DeleteRuleRequest{
			UserID: ownerID, CourtID: 10, RuleID: 42,
		})
		assert.ErrorIs(t, err, ErrRuleNotFound)
	})

	t.Run("rule from another court is hidden", func(t *testing.T) {
		svc, repo := newTestService()
		created, err := svc.Create(context.Background(), &models.CreateRuleRequest{
			UserID: 777, CourtID: 20, DayOfWeek: 1,
			StartTime: "09:00", EndTime: "18:00",
		})
		require.NoError(t, err)

		// Владелец корта 10 пытается удалить правило корта 20 через свой URL
		err = svc.Deactivate(context.Background(), &models.DeleteRuleRequest{
			UserID: ownerID, CourtID: 10, RuleID: created.ID,
		})
		assert.ErrorIs(t, err, ErrRuleNotFound)
		assert.True(t, repo.store[created.ID].IsActive)
	})
}
