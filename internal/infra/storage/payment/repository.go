package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/playfield/CourtBookingService/internal/domain"
	"github.com/playfield/CourtBookingService/pkg/dbmetrics"
	"github.com/playfield/CourtBookingService/pkg/psqlbuilder"
)

// pgUniqueViolation код PostgreSQL 23505 (unique_violation)
const pgUniqueViolation = "23505"

// Repository репозиторий журнала платежных транзакций
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create записывает транзакцию в журнал.
// Инвариант "не более одной success-транзакции на бронирование" закреплен
// частичным уникальным индексом - нарушение транслируется в ErrDuplicateSuccess
func (r *Repository) Create(ctx context.Context, tx *domain.PaymentTransaction) (*domain.PaymentTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payment_transactions").
		Columns("booking_id", "amount", "method", "status", "gateway_ref", "idempotency_key").
		Values(tx.BookingID, tx.Amount, tx.Method, tx.Status, tx.GatewayRef, tx.IdempotencyKey).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&tx.ID, &createdAt, &updatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return nil, ErrDuplicateSuccess
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	tx.CreatedAt = createdAt.Time
	tx.UpdatedAt = updatedAt.Time
	return tx, nil
}

// GetByBookingID получает все транзакции бронирования (новые первыми)
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) ([]*domain.PaymentTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "booking_id", "amount", "method", "status", "gateway_ref",
		"idempotency_key", "created_at", "updated_at",
	).
		From("payment_transactions").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	transactions := make([]*domain.PaymentTransaction, 0)
	for rows.Next() {
		var tx domain.PaymentTransaction
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&tx.ID, &tx.BookingID, &tx.Amount, &tx.Method, &tx.Status,
			&tx.GatewayRef, &tx.IdempotencyKey, &createdAt, &updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByBookingID - scan row: %v", ErrScanRow, err)
		}

		tx.CreatedAt = createdAt.Time
		tx.UpdatedAt = updatedAt.Time
		transactions = append(transactions, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - rows error: %v", ErrScanRow, err)
	}

	return transactions, nil
}

// GetByGatewayRef получает транзакцию по ссылке платежного шлюза
func (r *Repository) GetByGatewayRef(ctx context.Context, gatewayRef string) (*domain.PaymentTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "booking_id", "amount", "method", "status", "gateway_ref",
		"idempotency_key", "created_at", "updated_at",
	).
		From("payment_transactions").
		Where(squirrel.Eq{"gateway_ref": gatewayRef}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByGatewayRef - build select query: %v", ErrBuildQuery, err)
	}

	var tx domain.PaymentTransaction
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&tx.ID, &tx.BookingID, &tx.Amount, &tx.Method, &tx.Status,
		&tx.GatewayRef, &tx.IdempotencyKey, &createdAt, &updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByGatewayRef - scan transaction: %v", ErrScanRow, err)
	}

	tx.CreatedAt = createdAt.Time
	tx.UpdatedAt = updatedAt.Time
	return &tx, nil
}

// UpdateStatus обновляет статус транзакции
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payment_transactions").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return ErrDuplicateSuccess
		}
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}
