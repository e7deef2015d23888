package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// faultyAdapter wraps another Adapter and fails Put for the listed keys.
type faultyAdapter struct {
	Adapter
	failKeys map[string]bool
}

func (a *faultyAdapter) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (Result, error) {
	if a.failKeys[key] {
		return Result{}, errors.New("backend unavailable")
	}
	return a.Adapter.Put(ctx, key, r, size, contentType)
}

func TestBatchUploadSkipsFailedTasks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	adapter := &faultyAdapter{
		Adapter:  newTestLocalAdapter(t),
		failKeys: map[string]bool{"b.pdf": true},
	}

	tasks := []UploadTask{
		{Key: "a.jpg", ContentType: "image/jpeg", Body: []byte("aa")},
		{Key: "b.pdf", ContentType: "application/pdf", Body: []byte("bb")},
		{Key: "c.png", ContentType: "image/png", Body: []byte("cc")},
	}

	var calls [][2]int
	results := BatchUpload(ctx, log, adapter, tasks, func(done, total int) {
		calls = append(calls, [2]int{done, total})
	})

	require.Len(t, results, 2)
	assert.Equal(t, "a.jpg", results[0].Key)
	assert.Equal(t, "c.png", results[1].Key)

	// Progress advances on every task, including the failed one.
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, calls)
}

func TestBatchUploadEmpty(t *testing.T) {
	t.Parallel()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	results := BatchUpload(context.Background(), log, newTestLocalAdapter(t), nil, nil)
	assert.Empty(t, results)
}
