package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wamiq271801/School-Management-sub000/internal/config"
)

func newTestLocalAdapter(t *testing.T) *localAdapter {
	t.Helper()

	adapter, err := newLocalAdapter(afero.NewMemMapFs(), config.Local{
		Directory: "/documents",
		BaseURL:   "http://localhost:8080/documents/",
	})
	require.NoError(t, err)
	return adapter
}

func TestLocalAdapterPutAndGetURL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	adapter := newTestLocalAdapter(t)

	body := "jpeg-bytes"
	res, err := adapter.Put(ctx, "imports/b1/s1/photo.jpg", strings.NewReader(body), int64(len(body)), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "imports/b1/s1/photo.jpg", res.Key)
	assert.Equal(t, int64(len(body)), res.Size)
	// Trailing slash on the base URL is normalized away.
	assert.Equal(t, "http://localhost:8080/documents/imports/b1/s1/photo.jpg", res.URL)
	assert.False(t, res.UploadedAt.IsZero())

	url, err := adapter.GetURL(ctx, "imports/b1/s1/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, res.URL, url)

	data, err := afero.ReadFile(adapter.fs, "/documents/imports/b1/s1/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, body, string(data))
}

func TestLocalAdapterPutOverwrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	adapter := newTestLocalAdapter(t)

	_, err := adapter.Put(ctx, "photo.jpg", strings.NewReader("first"), 5, "image/jpeg")
	require.NoError(t, err)
	res, err := adapter.Put(ctx, "photo.jpg", strings.NewReader("second"), 6, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, int64(6), res.Size)

	data, err := afero.ReadFile(adapter.fs, "/documents/photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestLocalAdapterGetURLMissingKey(t *testing.T) {
	t.Parallel()

	adapter := newTestLocalAdapter(t)
	_, err := adapter.GetURL(context.Background(), "missing.jpg")
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestLocalAdapterExists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	adapter := newTestLocalAdapter(t)

	exists, err := adapter.Exists(ctx, "photo.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = adapter.Put(ctx, "photo.jpg", strings.NewReader("x"), 1, "image/jpeg")
	require.NoError(t, err)

	exists, err = adapter.Exists(ctx, "photo.jpg")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalAdapterDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	adapter := newTestLocalAdapter(t)

	_, err := adapter.Put(ctx, "photo.jpg", strings.NewReader("x"), 1, "image/jpeg")
	require.NoError(t, err)

	require.NoError(t, adapter.Delete(ctx, "photo.jpg"))
	exists, err := adapter.Exists(ctx, "photo.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting an already absent key is not an error.
	require.NoError(t, adapter.Delete(ctx, "photo.jpg"))
}
