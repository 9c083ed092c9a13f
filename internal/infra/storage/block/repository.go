package block

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/playfield/CourtBookingService/internal/domain"
	"github.com/playfield/CourtBookingService/pkg/dbmetrics"
	"github.com/playfield/CourtBookingService/pkg/psqlbuilder"
)

// Repository репозиторий административных блокировок корта
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория блокировок
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает блокировку корта
func (r *Repository) Create(ctx context.Context, b *domain.CourtBlock) (*domain.CourtBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("court_blocks").
		Columns("court_id", "starts_at", "ends_at", "reason", "created_by").
		Values(b.CourtID, b.StartsAt, b.EndsAt, b.Reason, b.CreatedBy).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&b.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	b.CreatedAt = createdAt.Time
	return b, nil
}

// GetByCourtAndRange получает блокировки корта, пересекающиеся с [from, to)
func (r *Repository) GetByCourtAndRange(ctx context.Context, courtID int64, from, to time.Time) ([]*domain.CourtBlock, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id", "court_id", "starts_at", "ends_at", "reason", "created_by", "created_at",
	).
		From("court_blocks").
		Where(squirrel.Eq{"court_id": courtID}).
		Where(squirrel.Lt{"starts_at": to}).
		Where(squirrel.Gt{"ends_at": from}).
		OrderBy("starts_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByCourtAndRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCourtAndRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	blocks := make([]*domain.CourtBlock, 0)
	for rows.Next() {
		var b domain.CourtBlock
		var createdAt sql.NullTime

		err := rows.Scan(&b.ID, &b.CourtID, &b.StartsAt, &b.EndsAt, &b.Reason, &b.CreatedBy, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByCourtAndRange - scan row: %v", ErrScanRow, err)
		}

		b.CreatedAt = createdAt.Time
		blocks = append(blocks, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByCourtAndRange - rows error: %v", ErrScanRow, err)
	}

	return blocks, nil
}

// Delete удаляет блокировку корта
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("court_blocks").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockNotFound
	}

	return nil
}
