package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wamiq271801/School-Management-sub000/internal/domain"
)

const tableImportErrors = "import_errors"

type importErrorRepository struct {
	pool *pgxpool.Pool
	qb   sq.StatementBuilderType
}

// NewImportErrorRepository wires an ImportErrorRepository backed by pgxpool.
func NewImportErrorRepository(pool *pgxpool.Pool) ImportErrorRepository {
	return &importErrorRepository{
		pool: pool,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *importErrorRepository) Record(ctx context.Context, entry domain.ImportError) error {
	sql, args, err := r.qb.
		Insert(tableImportErrors).
		Columns("batch_id", "row_number", "message").
		Values(entry.BatchID, entry.RowNumber, entry.Message).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to record import error: %w", err)
	}
	return nil
}

func (r *importErrorRepository) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]domain.ImportError, error) {
	sql, args, err := r.qb.
		Select("id", "batch_id", "row_number", "message", "created_at").
		From(tableImportErrors).
		Where(sq.Eq{"batch_id": batchID}).
		OrderBy("row_number ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list import errors: %w", err)
	}
	defer rows.Close()

	entries := []domain.ImportError{}
	for rows.Next() {
		var entry domain.ImportError
		if err := rows.Scan(&entry.ID, &entry.BatchID, &entry.RowNumber, &entry.Message, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import error: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate import errors: %w", err)
	}
	return entries, nil
}
