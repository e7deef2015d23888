package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/afero"

	"github.com/wamiq271801/School-Management-sub000/internal/config"
)

// ErrKeyNotFound is returned by GetURL when the key does not exist in the
// backend.
var ErrKeyNotFound = errors.New("storage: key not found")

// Result describes one successful upload. It is produced exactly once per
// upload and never mutated afterward.
type Result struct {
	Key        string    `json:"key"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// Adapter is the uniform contract over interchangeable document storage
// backends. Implementations perform no retries; every operation is
// independently retryable by the caller. Exists must not fail for a missing
// key, only on genuine backend unavailability. Delete is idempotent and must
// never corrupt other keys.
type Adapter interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Result, error)
	GetURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// New constructs the backend selected by cfg.Backend. The adapter is built
// once at startup and injected into its consumers.
func New(ctx context.Context, cfg config.Storage) (Adapter, error) {
	switch cfg.Backend {
	case config.BackendS3:
		return newS3Adapter(cfg.S3)
	case config.BackendDrive:
		return newDriveAdapter(ctx, cfg.Drive)
	case config.BackendLocal:
		return newLocalAdapter(afero.NewOsFs(), cfg.Local)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// UploadTask is one pending upload within a batch.
type UploadTask struct {
	Key         string
	ContentType string
	Body        []byte
}

// ProgressFunc receives (uploaded so far, total tasks) after every attempt.
type ProgressFunc func(done, total int)

// BatchUpload uploads tasks strictly sequentially, respecting backend rate
// limits and keeping progress reporting linear. Only successful results are
// accumulated; a failed task is logged and skipped without aborting the batch.
func BatchUpload(ctx context.Context, log *slog.Logger, adapter Adapter, tasks []UploadTask, onProgress ProgressFunc) []Result {
	results := make([]Result, 0, len(tasks))
	for i, task := range tasks {
		res, err := adapter.Put(ctx, task.Key, bytes.NewReader(task.Body), int64(len(task.Body)), task.ContentType)
		if err != nil {
			log.WarnContext(ctx, "upload failed, skipping",
				slog.String("key", task.Key),
				slog.String("err", err.Error()),
			)
		} else {
			results = append(results, res)
		}
		if onProgress != nil {
			onProgress(i+1, len(tasks))
		}
	}
	return results
}
