package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wamiq271801/School-Management-sub000/internal/domain"
)

const tableImportBatches = "import_batches"

type batchRepository struct {
	pool *pgxpool.Pool
	qb   sq.StatementBuilderType
}

// NewBatchRepository wires a BatchRepository backed by pgxpool.
func NewBatchRepository(pool *pgxpool.Pool) BatchRepository {
	return &batchRepository{
		pool: pool,
		qb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var batchColumns = []string{
	"id", "file_name", "total_rows", "valid_rows", "invalid_rows",
	"warning_rows", "status", "created_at", "updated_at",
}

func (r *batchRepository) Create(ctx context.Context, batch domain.ImportBatch) (domain.ImportBatch, error) {
	sql, args, err := r.qb.
		Insert(tableImportBatches).
		Columns(batchColumns...).
		Values(
			batch.ID, batch.FileName, batch.TotalRows, batch.ValidRows,
			batch.InvalidRows, batch.WarningRows, batch.Status,
			batch.CreatedAt, batch.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return domain.ImportBatch{}, fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sql, args...); err != nil {
		return domain.ImportBatch{}, fmt.Errorf("failed to create import batch: %w", err)
	}
	return batch, nil
}

func (r *batchRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.ImportBatch, error) {
	sql, args, err := r.qb.
		Select(batchColumns...).
		From(tableImportBatches).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.ImportBatch{}, fmt.Errorf("failed to build select: %w", err)
	}

	row := r.pool.QueryRow(ctx, sql, args...)
	batch, err := scanBatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ImportBatch{}, fmt.Errorf("%w: batch %s", ErrNotFound, id)
		}
		return domain.ImportBatch{}, fmt.Errorf("failed to get import batch: %w", err)
	}
	return batch, nil
}

func (r *batchRepository) Update(ctx context.Context, batch domain.ImportBatch) (domain.ImportBatch, error) {
	sql, args, err := r.qb.
		Update(tableImportBatches).
		Set("status", batch.Status).
		Set("updated_at", batch.UpdatedAt).
		Where(sq.Eq{"id": batch.ID}).
		ToSql()
	if err != nil {
		return domain.ImportBatch{}, fmt.Errorf("failed to build update: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return domain.ImportBatch{}, fmt.Errorf("failed to update import batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ImportBatch{}, fmt.Errorf("%w: batch %s", ErrNotFound, batch.ID)
	}
	return batch, nil
}

func (r *batchRepository) List(ctx context.Context, limit, offset int) ([]domain.ImportBatch, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	sql, args, err := r.qb.
		Select(batchColumns...).
		From(tableImportBatches).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list import batches: %w", err)
	}
	defer rows.Close()

	batches := []domain.ImportBatch{}
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import batch: %w", err)
		}
		batches = append(batches, batch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate import batches: %w", err)
	}
	return batches, nil
}

func scanBatch(row pgx.Row) (domain.ImportBatch, error) {
	var batch domain.ImportBatch
	err := row.Scan(
		&batch.ID, &batch.FileName, &batch.TotalRows, &batch.ValidRows,
		&batch.InvalidRows, &batch.WarningRows, &batch.Status,
		&batch.CreatedAt, &batch.UpdatedAt,
	)
	return batch, err
}
