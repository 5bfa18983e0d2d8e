package cache

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageCache_LocalOnly(t *testing.T) {
	pc := NewPageCache(slog.Default(), nil, time.Minute)

	pc.Set("/packages", []byte("payload"))

	got, ok := pc.Get("/packages")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), got)

	pc.Invalidate(context.Background(), "/packages")

	_, ok = pc.Get("/packages")
	assert.False(t, ok)
}

func TestPageCache_MissingKey(t *testing.T) {
	pc := NewPageCache(slog.Default(), nil, time.Minute)

	_, ok := pc.Get("/unknown")
	assert.False(t, ok)
}

func TestPageCache_PublishesInvalidations(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	pc := NewPageCache(slog.Default(), rdb, time.Minute)

	mock.ExpectPublish(invalidationChannel, "/blogs").SetVal(1)
	mock.ExpectPublish(invalidationChannel, "/blogs/ten-days-in-georgia").SetVal(1)

	pc.Set("/blogs", []byte("list"))
	pc.Invalidate(context.Background(), "/blogs", "/blogs/ten-days-in-georgia")

	_, ok := pc.Get("/blogs")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPageCache_PublishFailureIsSwallowed(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	pc := NewPageCache(slog.Default(), rdb, time.Minute)

	mock.ExpectPublish(invalidationChannel, "/packages").SetErr(context.DeadlineExceeded)

	pc.Set("/packages", []byte("list"))

	// ошибка публикации не паникует и не мешает локальному сбросу
	pc.Invalidate(context.Background(), "/packages")

	_, ok := pc.Get("/packages")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
