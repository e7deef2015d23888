package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/wamiq271801/School-Management-sub000/internal/config"
)

// driveAdapter stores documents in a Google Drive folder through a service
// account. Keys are file names inside the configured folder; Put overwrites an
// existing file of the same name instead of creating duplicates.
type driveAdapter struct {
	service  *drive.Service
	folderID string
}

func newDriveAdapter(ctx context.Context, cfg config.Drive) (*driveAdapter, error) {
	if cfg.CredentialsFile == "" {
		return nil, errors.New("drive credentials file is required")
	}
	if cfg.FolderID == "" {
		return nil, errors.New("drive folder id is required")
	}

	service, err := drive.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(drive.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &driveAdapter{service: service, folderID: cfg.FolderID}, nil
}

// findByKey resolves a key to the drive file id, or "" when absent.
func (a *driveAdapter) findByKey(ctx context.Context, key string) (string, error) {
	escaped := strings.ReplaceAll(key, `'`, `\'`)
	query := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false", escaped, a.folderID)

	list, err := a.service.Files.List().
		Q(query).
		Fields("files(id)").
		PageSize(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to look up %s: %w", key, err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

func (a *driveAdapter) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Result, error) {
	existingID, err := a.findByKey(ctx, key)
	if err != nil {
		return Result{}, err
	}

	var uploaded *drive.File
	if existingID != "" {
		uploaded, err = a.service.Files.Update(existingID, &drive.File{}).
			Media(r, googleapi.ContentType(contentType)).
			Fields("id", "size", "webViewLink").
			Context(ctx).
			Do()
	} else {
		uploaded, err = a.service.Files.Create(&drive.File{
			Name:    key,
			Parents: []string{a.folderID},
		}).
			Media(r, googleapi.ContentType(contentType)).
			Fields("id", "size", "webViewLink").
			Context(ctx).
			Do()
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	resSize := uploaded.Size
	if resSize == 0 {
		resSize = size
	}

	return Result{
		Key:        key,
		URL:        uploaded.WebViewLink,
		Size:       resSize,
		UploadedAt: time.Now().UTC(),
	}, nil
}

func (a *driveAdapter) GetURL(ctx context.Context, key string) (string, error) {
	id, err := a.findByKey(ctx, key)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}

	file, err := a.service.Files.Get(id).Fields("webViewLink").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return file.WebViewLink, nil
}

func (a *driveAdapter) Delete(ctx context.Context, key string) error {
	id, err := a.findByKey(ctx, key)
	if err != nil {
		return err
	}
	if id == "" {
		return nil
	}

	if err := a.service.Files.Delete(id).Context(ctx).Do(); err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == 404 {
			return nil
		}
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (a *driveAdapter) Exists(ctx context.Context, key string) (bool, error) {
	id, err := a.findByKey(ctx, key)
	if err != nil {
		return false, err
	}
	return id != "", nil
}
