package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/wamiq271801/School-Management-sub000/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("repository: not found")

// BatchRepository persists import batch lifecycle state. Concurrent commits
// against two different batch ids are safe; the same batch id has a single
// writer, enforced by callers.
type BatchRepository interface {
	Create(ctx context.Context, batch domain.ImportBatch) (domain.ImportBatch, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.ImportBatch, error)
	Update(ctx context.Context, batch domain.ImportBatch) (domain.ImportBatch, error)
	List(ctx context.Context, limit, offset int) ([]domain.ImportBatch, error)
}

// StudentRepository is the create-student collaborator the orchestrator
// invokes once per committed row. The pipeline treats it as opaque.
type StudentRepository interface {
	Create(ctx context.Context, record domain.StudentRecord) error
}

// ImportErrorRepository records row level failures observed during commit so
// they survive the request that produced them.
type ImportErrorRepository interface {
	Record(ctx context.Context, entry domain.ImportError) error
	ListByBatch(ctx context.Context, batchID uuid.UUID) ([]domain.ImportError, error)
}
