package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BatchStatus tracks an import batch through its lifecycle.
type BatchStatus string

const (
	BatchStatusPending   BatchStatus = "pending"
	BatchStatusReviewing BatchStatus = "reviewing"
	BatchStatusImporting BatchStatus = "importing"
	BatchStatusCompleted BatchStatus = "completed"
	BatchStatusFailed    BatchStatus = "failed"
)

// batchTransitions enumerates the legal status transitions. completed and
// failed are terminal.
var batchTransitions = map[BatchStatus][]BatchStatus{
	BatchStatusPending:   {BatchStatusReviewing, BatchStatusImporting},
	BatchStatusReviewing: {BatchStatusImporting},
	BatchStatusImporting: {BatchStatusCompleted, BatchStatusFailed},
}

// ImportBatch is the set of all rows parsed from a single uploaded file,
// tracked as one unit through review and commit. Row counters are a frozen
// snapshot of parser output at creation time.
type ImportBatch struct {
	ID          uuid.UUID   `json:"id"`
	FileName    string      `json:"fileName"`
	TotalRows   int         `json:"totalRows"`
	ValidRows   int         `json:"validRows"`
	InvalidRows int         `json:"invalidRows"`
	WarningRows int         `json:"warningRows"`
	Status      BatchStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// NewImportBatch snapshots parser counters into a pending batch.
func NewImportBatch(fileName string, total, valid, invalid, warning int) ImportBatch {
	now := time.Now().UTC()
	return ImportBatch{
		ID:          uuid.New(),
		FileName:    fileName,
		TotalRows:   total,
		ValidRows:   valid,
		InvalidRows: invalid,
		WarningRows: warning,
		Status:      BatchStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Transition moves the batch to next, refreshing UpdatedAt. It fails if the
// state machine does not allow the move.
func (b *ImportBatch) Transition(next BatchStatus) error {
	for _, allowed := range batchTransitions[b.Status] {
		if allowed == next {
			b.Status = next
			b.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid batch transition %s -> %s", b.Status, next)
}

// Terminal reports whether the batch reached a final state.
func (b *ImportBatch) Terminal() bool {
	return b.Status == BatchStatusCompleted || b.Status == BatchStatusFailed
}

// ImportError is one row level failure recorded while committing a batch.
type ImportError struct {
	ID        uuid.UUID `json:"id"`
	BatchID   uuid.UUID `json:"batchId"`
	RowNumber int       `json:"rowNumber"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
