package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Yasin777-6/Avourist-v1/internal/pkg/metrics"
	"github.com/Yasin777-6/Avourist-v1/internal/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// Item представляет элемент кэша с временем жизни
type Item struct {
	Value      []byte
	Expiration int64
}

// Cache хранит байты шаблонов с поддержкой TTL.
// Шаблоны договоров читаются с диска один раз и переиспользуются между запросами.
type Cache struct {
	items sync.Map
	ttl   time.Duration
}

// New создает новый экземпляр кэша
func New(ttl time.Duration) *Cache {
	c := &Cache{ttl: ttl}
	go c.startCleanupTimer()
	return c
}

// Set добавляет значение в кэш
func (c *Cache) Set(key string, value []byte) {
	c.items.Store(key, Item{
		Value:      value,
		Expiration: time.Now().Add(c.ttl).UnixNano(),
	})
}

// Get получает значение из кэша
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := tracing.StartSpan(ctx, "Cache.Get")
	defer span.End()

	span.SetAttributes(attribute.String("cache.key", key))

	item, exists := c.items.Load(key)
	if !exists {
		metrics.CacheHitsTotal.WithLabelValues("miss").Inc()
		err := fmt.Errorf("cache miss: key %s not found", key)
		tracing.RecordError(ctx, err)
		return nil, err
	}

	cached := item.(Item)
	if time.Now().UnixNano() > cached.Expiration {
		c.items.Delete(key)
		metrics.CacheHitsTotal.WithLabelValues("expired").Inc()
		err := fmt.Errorf("cache miss: key %s expired", key)
		tracing.RecordError(ctx, err)
		return nil, err
	}

	metrics.CacheHitsTotal.WithLabelValues("hit").Inc()
	span.AddEvent("Cache hit")
	return cached.Value, nil
}

// Delete удаляет значение из кэша
func (c *Cache) Delete(key string) {
	c.items.Delete(key)
}

// startCleanupTimer периодически удаляет истекшие элементы
func (c *Cache) startCleanupTimer() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now().UnixNano()
		c.items.Range(func(key, value interface{}) bool {
			if item, ok := value.(Item); ok && now > item.Expiration {
				c.items.Delete(key)
			}
			return true
		})
	}
}
