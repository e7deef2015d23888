package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/wamiq271801/School-Management-sub000/internal/config"
)

// localAdapter keeps documents on a local filesystem, for development and
// tests. The afero.Fs is injectable so tests can run against an in-memory fs.
type localAdapter struct {
	fs      afero.Fs
	dir     string
	baseURL string
}

func newLocalAdapter(fs afero.Fs, cfg config.Local) (*localAdapter, error) {
	dir := cfg.Directory
	if dir == "" {
		dir = "./data/documents"
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &localAdapter{
		fs:      fs,
		dir:     dir,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}, nil
}

func (a *localAdapter) path(key string) string {
	return path.Join(a.dir, key)
}

func (a *localAdapter) url(key string) string {
	return a.baseURL + "/" + key
}

func (a *localAdapter) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Result, error) {
	full := a.path(key)
	if err := a.fs.MkdirAll(path.Dir(full), 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create parent directory for %s: %w", key, err)
	}

	f, err := a.fs.Create(full)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create %s: %w", key, err)
	}

	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to write %s: %w", key, err)
	}

	return Result{
		Key:        key,
		URL:        a.url(key),
		Size:       written,
		UploadedAt: time.Now().UTC(),
	}, nil
}

func (a *localAdapter) GetURL(ctx context.Context, key string) (string, error) {
	exists, err := afero.Exists(a.fs, a.path(key))
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", key, err)
	}
	if !exists {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return a.url(key), nil
}

func (a *localAdapter) Delete(ctx context.Context, key string) error {
	if err := a.fs.Remove(a.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (a *localAdapter) Exists(ctx context.Context, key string) (bool, error) {
	exists, err := afero.Exists(a.fs, a.path(key))
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return exists, nil
}
