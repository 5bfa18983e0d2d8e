package cache

import (
	"context"
	"log/slog"
	"time"

	"travkings/internal/lib/logger/sl"
	"travkings/internal/metrics"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const invalidationChannel = "page_invalidations"

// Invalidator уведомляет зависимые страницы об изменении контента.
// Публикация best-effort: ошибка не прерывает операцию записи.
type Invalidator interface {
	Invalidate(ctx context.Context, paths ...string)
}

// PageCache локальный кеш публичных страниц с межпроцессной инвалидацией
// через redis pub/sub. Без redis работает как чисто локальный кеш.
type PageCache struct {
	log   *slog.Logger
	local *gocache.Cache
	rdb   *redis.Client
}

func NewPageCache(log *slog.Logger, rdb *redis.Client, ttl time.Duration) *PageCache {
	return &PageCache{
		log:   log,
		local: gocache.New(ttl, 2*ttl),
		rdb:   rdb,
	}
}

func (c *PageCache) Get(path string) ([]byte, bool) {
	v, ok := c.local.Get(path)
	if !ok {
		return nil, false
	}
	payload, ok := v.([]byte)
	return payload, ok
}

func (c *PageCache) Set(path string, payload []byte) {
	c.local.SetDefault(path, payload)
}

// Invalidate сбрасывает локальные записи и рассылает пути другим репликам
func (c *PageCache) Invalidate(ctx context.Context, paths ...string) {
	const op = "cache.PageCache.Invalidate"

	log := c.log.With(slog.String("op", op))

	for _, path := range paths {
		c.local.Delete(path)
		metrics.PageInvalidationsTotal.Inc()
	}

	if c.rdb == nil {
		return
	}

	for _, path := range paths {
		if err := c.rdb.Publish(ctx, invalidationChannel, path).Err(); err != nil {
			log.Warn("failed to publish invalidation", slog.String("path", path), sl.Err(err))
		}
	}
}

// Listen подписывается на инвалидации других реплик; блокирует до отмены контекста
func (c *PageCache) Listen(ctx context.Context) {
	const op = "cache.PageCache.Listen"

	if c.rdb == nil {
		return
	}

	log := c.log.With(slog.String("op", op))

	sub := c.rdb.Subscribe(ctx, invalidationChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			c.local.Delete(msg.Payload)
			log.Debug("invalidated page", slog.String("path", msg.Payload))
		}
	}
}
