package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wamiq271801/School-Management-sub000/internal/domain"
)

// In-memory implementations used by tests and local development (redesign of
// the original client-side batch ledger into an injected repository).

type memoryBatchRepository struct {
	mu      sync.Mutex
	batches map[uuid.UUID]domain.ImportBatch
}

// NewMemoryBatchRepository returns a map backed BatchRepository.
func NewMemoryBatchRepository() BatchRepository {
	return &memoryBatchRepository{batches: make(map[uuid.UUID]domain.ImportBatch)}
}

func (r *memoryBatchRepository) Create(ctx context.Context, batch domain.ImportBatch) (domain.ImportBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.batches[batch.ID]; exists {
		return domain.ImportBatch{}, fmt.Errorf("batch %s already exists", batch.ID)
	}
	r.batches[batch.ID] = batch
	return batch, nil
}

func (r *memoryBatchRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.ImportBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch, ok := r.batches[id]
	if !ok {
		return domain.ImportBatch{}, fmt.Errorf("%w: batch %s", ErrNotFound, id)
	}
	return batch, nil
}

func (r *memoryBatchRepository) Update(ctx context.Context, batch domain.ImportBatch) (domain.ImportBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.batches[batch.ID]; !ok {
		return domain.ImportBatch{}, fmt.Errorf("%w: batch %s", ErrNotFound, batch.ID)
	}
	r.batches[batch.ID] = batch
	return batch, nil
}

func (r *memoryBatchRepository) List(ctx context.Context, limit, offset int) ([]domain.ImportBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]domain.ImportBatch, 0, len(r.batches))
	for _, batch := range r.batches {
		all = append(all, batch)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return []domain.ImportBatch{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// MemoryStudentRepository records created students for inspection in tests.
type MemoryStudentRepository struct {
	mu       sync.Mutex
	students []domain.StudentRecord
}

// NewMemoryStudentRepository returns an appending StudentRepository.
func NewMemoryStudentRepository() *MemoryStudentRepository {
	return &MemoryStudentRepository{}
}

func (r *MemoryStudentRepository) Create(ctx context.Context, record domain.StudentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.students = append(r.students, record)
	return nil
}

// Students returns a copy of every record created so far.
func (r *MemoryStudentRepository) Students() []domain.StudentRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.StudentRecord, len(r.students))
	copy(out, r.students)
	return out
}

type memoryImportErrorRepository struct {
	mu      sync.Mutex
	entries []domain.ImportError
}

// NewMemoryImportErrorRepository returns a slice backed ImportErrorRepository.
func NewMemoryImportErrorRepository() ImportErrorRepository {
	return &memoryImportErrorRepository{}
}

func (r *memoryImportErrorRepository) Record(ctx context.Context, entry domain.ImportError) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now().UTC()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memoryImportErrorRepository) ListByBatch(ctx context.Context, batchID uuid.UUID) ([]domain.ImportError, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := []domain.ImportError{}
	for _, entry := range r.entries {
		if entry.BatchID == batchID {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].RowNumber < entries[j].RowNumber })
	return entries, nil
}
