package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/google/uuid"

	"github.com/wamiq271801/School-Management-sub000/internal/domain"
	"github.com/wamiq271801/School-Management-sub000/internal/matcher"
	"github.com/wamiq271801/School-Management-sub000/internal/repository"
	"github.com/wamiq271801/School-Management-sub000/internal/storage"
)

// Service orchestrates the import pipeline: parse -> validate -> match ->
// upload -> commit. It exclusively owns the batch ledger during a commit
// call; concurrent commits against the same batch id are unsupported and must
// be prevented by the caller.
type Service struct {
	batches  repository.BatchRepository
	students repository.StudentRepository
	errorLog repository.ImportErrorRepository
	store    storage.Adapter
	log      *slog.Logger
}

// NewService wires the orchestrator. The storage adapter is injected once at
// construction, never looked up from configuration at call time.
func NewService(
	batches repository.BatchRepository,
	students repository.StudentRepository,
	errorLog repository.ImportErrorRepository,
	store storage.Adapter,
	log *slog.Logger,
) *Service {
	return &Service{
		batches:  batches,
		students: students,
		errorLog: errorLog,
		store:    store,
		log:      log,
	}
}

// Parse converts an uploaded spreadsheet into validated rows.
func (s *Service) Parse(fileName string, r io.Reader) (*ParseResult, error) {
	return Parse(fileName, r)
}

// CreateBatch freezes the parse result counters into a new pending batch.
func (s *Service) CreateBatch(ctx context.Context, result *ParseResult) (domain.ImportBatch, error) {
	batch := domain.NewImportBatch(
		result.FileName,
		result.TotalRows,
		result.ValidRows,
		result.InvalidRows,
		result.WarningRows,
	)

	created, err := s.batches.Create(ctx, batch)
	if err != nil {
		return domain.ImportBatch{}, fmt.Errorf("failed to create batch: %w", err)
	}

	s.log.InfoContext(ctx, "batch created",
		slog.String("batch_id", created.ID.String()),
		slog.String("file", created.FileName),
		slog.Int("total_rows", created.TotalRows),
		slog.Int("invalid_rows", created.InvalidRows),
	)
	return created, nil
}

// GetBatch loads one batch.
func (s *Service) GetBatch(ctx context.Context, id uuid.UUID) (domain.ImportBatch, error) {
	return s.batches.GetByID(ctx, id)
}

// ListBatches pages through recent batches, newest first.
func (s *Service) ListBatches(ctx context.Context, limit, offset int) ([]domain.ImportBatch, error) {
	return s.batches.List(ctx, limit, offset)
}

// SetStatus applies a UI driven lifecycle transition (reviewing, importing).
// Terminal transitions are owned by Commit and rejected here.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status domain.BatchStatus) (domain.ImportBatch, error) {
	if status != domain.BatchStatusReviewing && status != domain.BatchStatusImporting {
		return domain.ImportBatch{}, fmt.Errorf("status %s is not caller assignable", status)
	}

	batch, err := s.batches.GetByID(ctx, id)
	if err != nil {
		return domain.ImportBatch{}, err
	}
	if err := batch.Transition(status); err != nil {
		return domain.ImportBatch{}, err
	}
	return s.batches.Update(ctx, batch)
}

// ListErrors returns the persisted row failures recorded while committing a
// batch, ordered by row number.
func (s *Service) ListErrors(ctx context.Context, batchID uuid.UUID) ([]domain.ImportError, error) {
	if s.errorLog == nil {
		return []domain.ImportError{}, nil
	}
	return s.errorLog.ListByBatch(ctx, batchID)
}

// MatchDocuments extracts an archive (when given one) and assigns each file
// to a candidate row.
func (s *Service) MatchDocuments(files []domain.NamedFile, rows []domain.ParsedRow) *matcher.Result {
	return matcher.Match(files, Candidates(rows))
}

// RowError is one ledger entry from a commit call.
type RowError struct {
	RowNumber int    `json:"rowNumber"`
	Error     string `json:"error"`
}

// CommitResult is the per-batch accounting returned by Commit. For any call,
// Imported+Failed equals the number of importable rows, regardless of how
// many individual uploads failed.
type CommitResult struct {
	Imported int        `json:"imported"`
	Failed   int        `json:"failed"`
	Errors   []RowError `json:"errors"`
}

// ProgressFunc observes (processed, total) after every committed row.
type ProgressFunc func(processed, total int)

// Commit persists every importable row of the batch, strictly sequentially in
// parse order. Row failures are accumulated, never thrown: the caller always
// receives a complete accounting. The batch ends completed only when zero
// rows failed.
func (s *Service) Commit(
	ctx context.Context,
	batchID uuid.UUID,
	rows []domain.ParsedRow,
	matches []domain.FileMatch,
	onProgress ProgressFunc,
) (*CommitResult, error) {
	batch, err := s.batches.GetByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if batch.Terminal() {
		return nil, fmt.Errorf("batch %s is already %s", batchID, batch.Status)
	}
	if batch.Status != domain.BatchStatusImporting {
		if err := batch.Transition(domain.BatchStatusImporting); err != nil {
			return nil, err
		}
		if batch, err = s.batches.Update(ctx, batch); err != nil {
			return nil, err
		}
	}

	importable := make([]domain.ParsedRow, 0, len(rows))
	for _, row := range rows {
		if row.Importable() {
			importable = append(importable, row)
		}
	}

	grouped := matcher.GroupByStudent(matches)
	result := &CommitResult{Errors: []RowError{}}
	total := len(importable)

	for processed, row := range importable {
		record := NormalizeRow(row)
		key := RowKey(row)

		if files := grouped[key]; len(files) > 0 {
			record.Documents = s.uploadDocuments(ctx, batchID, key, files)
		}

		if err := s.students.Create(ctx, record); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{
				RowNumber: row.RowNumber,
				Error:     err.Error(),
			})
			s.recordError(ctx, batchID, row.RowNumber, err)
		} else {
			result.Imported++
		}

		if onProgress != nil {
			onProgress(processed+1, total)
		}
	}

	final := domain.BatchStatusCompleted
	if result.Failed > 0 {
		final = domain.BatchStatusFailed
	}
	if err := batch.Transition(final); err != nil {
		return nil, err
	}
	if _, err := s.batches.Update(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to finalize batch: %w", err)
	}

	s.log.InfoContext(ctx, "batch committed",
		slog.String("batch_id", batchID.String()),
		slog.Int("imported", result.Imported),
		slog.Int("failed", result.Failed),
	)
	return result, nil
}

// uploadDocuments pushes each matched file through the storage adapter and
// returns the document block for the record. A single upload failure leaves
// that document slot unattached; it never fails the row.
func (s *Service) uploadDocuments(ctx context.Context, batchID uuid.UUID, studentKey string, files []domain.FileMatch) map[domain.DocumentType]domain.DocumentRef {
	tasks := make([]storage.UploadTask, 0, len(files))
	byKey := make(map[string]domain.FileMatch, len(files))

	for _, match := range files {
		if match.DocumentType == "" {
			s.log.DebugContext(ctx, "skipping file with no document category",
				slog.String("file", match.FileName),
			)
			continue
		}

		key := fmt.Sprintf("imports/%s/%s/%s%s",
			batchID, studentKey, match.DocumentType, path.Ext(match.FileName))
		tasks = append(tasks, storage.UploadTask{
			Key:         key,
			ContentType: match.File.ContentType,
			Body:        match.File.Data,
		})
		byKey[key] = match
	}
	if len(tasks) == 0 {
		return nil
	}

	documents := make(map[domain.DocumentType]domain.DocumentRef, len(tasks))
	for _, res := range storage.BatchUpload(ctx, s.log, s.store, tasks, nil) {
		match := byKey[res.Key]
		documents[match.DocumentType] = domain.DocumentRef{
			Key:        res.Key,
			URL:        res.URL,
			FileName:   match.FileName,
			Size:       res.Size,
			UploadedAt: res.UploadedAt,
		}
	}
	if len(documents) == 0 {
		return nil
	}
	return documents
}

func (s *Service) recordError(ctx context.Context, batchID uuid.UUID, rowNumber int, err error) {
	if s.errorLog == nil || err == nil {
		return
	}
	entry := domain.ImportError{
		BatchID:   batchID,
		RowNumber: rowNumber,
		Message:   err.Error(),
	}
	if recordErr := s.errorLog.Record(ctx, entry); recordErr != nil {
		s.log.WarnContext(ctx, "failed to persist import error",
			slog.Int("row", rowNumber),
			slog.String("err", recordErr.Error()),
		)
	}
}
