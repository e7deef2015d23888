package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/wamiq271801/School-Management-sub000/internal/config"
)

// s3Adapter stores documents in an S3 compatible object store. It is the
// default production backend.
type s3Adapter struct {
	client    *minio.Client
	bucket    string
	urlExpiry time.Duration
}

func newS3Adapter(cfg config.S3) (*s3Adapter, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("s3 endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}

	return &s3Adapter{client: client, bucket: cfg.Bucket, urlExpiry: expiry}, nil
}

func (a *s3Adapter) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Result, error) {
	info, err := a.client.PutObject(ctx, a.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	url, err := a.GetURL(ctx, key)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Key:        key,
		URL:        url,
		Size:       info.Size,
		UploadedAt: time.Now().UTC(),
	}, nil
}

func (a *s3Adapter) GetURL(ctx context.Context, key string) (string, error) {
	if _, err := a.client.StatObject(ctx, a.bucket, key, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		return "", fmt.Errorf("failed to stat %s: %w", key, err)
	}

	url, err := a.client.PresignedGetObject(ctx, a.bucket, key, a.urlExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return url.String(), nil
}

func (a *s3Adapter) Delete(ctx context.Context, key string) error {
	if err := a.client.RemoveObject(ctx, a.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (a *s3Adapter) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.client.StatObject(ctx, a.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", key, err)
	}
	return true, nil
}
