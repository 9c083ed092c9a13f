package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playfield/CourtBookingService/internal/domain"
	bookingRepo "github.com/playfield/CourtBookingService/internal/infra/storage/booking"
	courtRepo "github.com/playfield/CourtBookingService/internal/infra/storage/court"
	paymentRepo "github.com/playfield/CourtBookingService/internal/infra/storage/payment"
	"github.com/playfield/CourtBookingService/internal/integrations/paymentgateway"
	"github.com/playfield/CourtBookingService/internal/service/bookings/models"
	"github.com/playfield/CourtBookingService/pkg/ptr"
)

var testNow = time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

// Моки

type fakeBookingRepo struct {
	store map[int64]*domain.Booking

	lockErr error
	locked  []int64
}

func (f *fakeBookingRepo) LockCourt(_ context.Context, courtID int64, _ time.Duration) error {
	if f.lockErr != nil {
		return f.lockErr
	}
	f.locked = append(f.locked, courtID)
	return nil
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.store[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetByUserID(_ context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.store {
		if b.UserID != userID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	b, ok := f.store[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeBookingRepo) Cancel(_ context.Context, id int64, reason string) error {
	b, ok := f.store[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.StatusCancelled
	b.CancellationReason = &reason
	cancelledAt := testNow
	b.CancelledAt = &cancelledAt
	return nil
}

func (f *fakeBookingRepo) ExpirePending(_ context.Context, cutoff time.Time, reason string) (int64, error) {
	var n int64
	for _, b := range f.store {
		if b.Status == domain.StatusPending && b.CreatedAt.Before(cutoff) {
			b.Status = domain.StatusCancelled
			b.CancellationReason = &reason
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingRepo) CompleteElapsed(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, b := range f.store {
		if b.Status == domain.StatusConfirmed && b.EndsAt.Before(now) {
			b.Status = domain.StatusCompleted
			n++
		}
	}
	return n, nil
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

type fakePaymentRepo struct {
	store  map[int64]*domain.PaymentTransaction
	nextID int64
}

func (f *fakePaymentRepo) Create(_ context.Context, tx *domain.PaymentTransaction) (*domain.PaymentTransaction, error) {
	for _, existing := range f.store {
		if existing.BookingID == tx.BookingID && existing.Status == domain.PaymentSuccess && tx.Status == domain.PaymentSuccess {
			return nil, paymentRepo.ErrDuplicateSuccess
		}
	}
	f.nextID++
	created := *tx
	created.ID = f.nextID
	f.store[created.ID] = &created
	return &created, nil
}

func (f *fakePaymentRepo) GetByBookingID(_ context.Context, bookingID int64) ([]*domain.PaymentTransaction, error) {
	var out []*domain.PaymentTransaction
	for _, tx := range f.store {
		if tx.BookingID == bookingID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) GetByGatewayRef(_ context.Context, ref string) (*domain.PaymentTransaction, error) {
	for _, tx := range f.store {
		if tx.GatewayRef == ref {
			return tx, nil
		}
	}
	return nil, paymentRepo.ErrTransactionNotFound
}

type fakeGatewayClient struct {
	transactions map[string]*paymentgateway.Transaction
}

func (f *fakeGatewayClient) GetTransaction(_ context.Context, ref string) (*paymentgateway.Transaction, error) {
	tx, ok := f.transactions[ref]
	if !ok {
		return nil, paymentgateway.ErrTransactionNotFound
	}
	return tx, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct{ now time.Time }

func (p fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type testEnv struct {
	svc      *Service
	bookings *fakeBookingRepo
	payments *fakePaymentRepo
	gateway  *fakeGatewayClient
}

func newTestEnv() *testEnv {
	env := &testEnv{
		bookings: &fakeBookingRepo{store: map[int64]*domain.Booking{
			1: {
				ID: 1, CourtID: 10, UserID: 100,
				StartsAt: testNow.Add(24 * time.Hour), EndsAt: testNow.Add(26 * time.Hour),
				Status: domain.StatusPending, FinalPrice: 2400,
				CreatedAt: testNow.Add(-5 * time.Minute),
			},
			2: {
				ID: 2, CourtID: 10, UserID: 200,
				StartsAt: testNow.Add(-3 * time.Hour), EndsAt: testNow.Add(-2 * time.Hour),
				Status: domain.StatusConfirmed, FinalPrice: 1200,
				CreatedAt: testNow.Add(-30 * time.Hour),
			},
		}},
		payments: &fakePaymentRepo{store: map[int64]*domain.PaymentTransaction{}},
		gateway: &fakeGatewayClient{transactions: map[string]*paymentgateway.Transaction{
			"gw-ok":           {Reference: "gw-ok", Amount: 2400, Currency: "RUB", Method: "card", Status: "succeeded"},
			"gw-failed":       {Reference: "gw-failed", Amount: 2400, Method: "card", Status: "failed"},
			"gw-wrong-amount": {Reference: "gw-wrong-amount", Amount: 100, Method: "card", Status: "succeeded"},
		}},
	}

	courts := &fakeCourtRepo{courts: map[int64]*domain.Court{
		10: {ID: 10, OwnerUserID: 500, Name: "Корт 10", PricePerHour: 1200},
	}}

	env.svc = NewService(env.bookings, courts, env.payments, env.gateway, fakeTxManager{},
		500*time.Millisecond, NoopMetrics{}, nopLogger{})
	env.svc.timeProvider = fixedTimeProvider{now: testNow}
	return env
}

func TestGetByID_Access(t *testing.T) {
	env := newTestEnv()

	t.Run("owner sees own booking", func(t *testing.T) {
		resp, err := env.svc.GetByID(context.Background(), 1, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ID)
	})

	t.Run("court owner sees booking", func(t *testing.T) {
		_, err := env.svc.GetByID(context.Background(), 1, 500)
		assert.NoError(t, err)
	})

	t.Run("stranger is denied", func(t *testing.T) {
		_, err := env.svc.GetByID(context.Background(), 1, 999)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("missing booking", func(t *testing.T) {
		_, err := env.svc.GetByID(context.Background(), 42, 100)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestGetUserBookings(t *testing.T) {
	env := newTestEnv()

	resp, err := env.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 100})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	t.Run("status filter", func(t *testing.T) {
		resp, err := env.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
			UserID: 100, Status: ptr.Ptr("confirmed"),
		})
		require.NoError(t, err)
		assert.Empty(t, resp.Bookings)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := env.svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
			UserID: 100, Status: ptr.Ptr("bogus"),
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestCancel(t *testing.T) {
	t.Run("owner cancels pending", func(t *testing.T) {
		env := newTestEnv()
		err := env.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
			UserID: 100, CancellationReason: "планы изменились",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, env.bookings.store[1].Status)
		require.NotNil(t, env.bookings.store[1].CancellationReason)
		assert.Equal(t, "планы изменились", *env.bookings.store[1].CancellationReason)

		// Отмена освобождает интервал под той же блокировкой корта,
		// что и резервирование
		assert.Equal(t, []int64{10}, env.bookings.locked)
	})

	t.Run("court lock timeout", func(t *testing.T) {
		env := newTestEnv()
		env.bookings.lockErr = bookingRepo.ErrLockNotAvailable

		err := env.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 100})
		assert.ErrorIs(t, err, ErrLockTimeout)
		assert.Equal(t, domain.StatusPending, env.bookings.store[1].Status)
	})

	t.Run("court owner cancels someone else's booking", func(t *testing.T) {
		env := newTestEnv()
		err := env.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 500})
		assert.NoError(t, err)
	})

	t.Run("stranger denied", func(t *testing.T) {
		env := newTestEnv()
		err := env.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 999})
		assert.ErrorIs(t, err, ErrAccessDenied)
		assert.Equal(t, domain.StatusPending, env.bookings.store[1].Status)
	})

	t.Run("cancelling a cancelled booking fails", func(t *testing.T) {
		env := newTestEnv()
		require.NoError(t, env.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 100}))

		err := env.svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: 100})
		require.ErrorIs(t, err, ErrInvalidTransition)
		assert.Contains(t, err.Error(), "cancelled")
	})

	t.Run("completed booking cannot be cancelled", func(t *testing.T) {
		env := newTestEnv()
		env.bookings.store[2].Status = domain.StatusCompleted

		err := env.svc.Cancel(context.Background(), 2, &models.CancelBookingRequest{UserID: 200})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestConfirmPayment(t *testing.T) {
	t.Run("success confirms and records payment", func(t *testing.T) {
		env := newTestEnv()

		resp, err := env.svc.ConfirmPayment(context.Background(), &models.ConfirmPaymentRequest{
			BookingID: 1, GatewayRef: "gw-ok",
		})
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
		assert.Equal(t, domain.StatusConfirmed, env.bookings.store[1].Status)

		payments, _ := env.payments.GetByBookingID(context.Background(), 1)
		require.Len(t, payments, 1)
		assert.True(t, payments[0].IsSuccessful())
		assert.Equal(t, "gw-ok", payments[0].GatewayRef)
	})

	t.Run("repeated callback is idempotent", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.svc.ConfirmPayment(context.Background(), &models.ConfirmPaymentRequest{
			BookingID: 1, GatewayRef: "gw-ok",
		})
		require.NoError(t, err)

		resp, err := env.svc.ConfirmPayment(context.Background(), &models.ConfirmPaymentRequest{
			BookingID: 1, GatewayRef: "gw-ok",
		})
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusConfirmed), resp.Status)

		payments, _ := env.payments.GetByBookingID(context.Background(), 1)
		assert.Len(t, payments, 1, "повторный колбэк не плодит транзакции")
	})

	t.Run("unknown gateway reference", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.svc.ConfirmPayment(context.Background(), &models.ConfirmPaymentRequest{
			BookingID: 1, GatewayRef: "gw-missing",
		})
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})

	t.Run("failed payment rejected", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.svc.ConfirmPayment(context.Background(), &models.ConfirmPaymentRequest{
			BookingID: 1, GatewayRef: "gw-failed",
		})
		assert.ErrorIs(t, err, ErrPaymentNotConfirmed)
		assert.Equal(t, domain.StatusPending, env.bookings.store[1].Status)
	})

	t.Run("amount mismatch rejected", func(t *testing.T) {
		env := newTestEnv()
		_, err := env.svc.ConfirmPayment(context.Background(), &models.ConfirmPaymentRequest{
			BookingID: 1, GatewayRef: "gw-wrong-amount",
		})
		assert.ErrorIs(t, err, ErrAmountMismatch)
		assert.Equal(t, domain.StatusPending, env.bookings.store[1].Status)
	})

	t.Run("cancelled booking cannot be confirmed", func(t *testing.T) {
		env := newTestEnv()
		env.bookings.store[1].Status = domain.StatusCancelled

		_, err := env.svc.ConfirmPayment(context.Background(), &models.ConfirmPaymentRequest{
			BookingID: 1, GatewayRef: "gw-ok",
		})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestExpirePendingBookings(t *testing.T) {
	env := newTestEnv()
	// Бронирование 1 создано 5 минут назад, TTL 15 минут - ещё живое
	expired, err := env.svc.ExpirePendingBookings(context.Background(), 15*time.Minute)
	require.NoError(t, err)
	assert.Zero(t, expired)
	assert.Equal(t, domain.StatusPending, env.bookings.store[1].Status)

	// TTL 1 минута - истекло
	expired, err = env.svc.ExpirePendingBookings(context.Background(), time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)
	assert.Equal(t, domain.StatusCancelled, env.bookings.store[1].Status)
}

func TestCompleteElapsedBookings(t *testing.T) {
	env := newTestEnv()

	completed, err := env.svc.CompleteElapsedBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), completed)
	assert.Equal(t, domain.StatusCompleted, env.bookings.store[2].Status)
	assert.Equal(t, domain.StatusPending, env.bookings.store[1].Status, "будущее бронирование не тронуто")
}
