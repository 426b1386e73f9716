package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"docgen-service-go/internal/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// ErrMiss возвращается, когда ключа нет или срок его жизни истек
var ErrMiss = errors.New("cache miss")

// Loader загружает значение при промахе
type Loader func(ctx context.Context) ([]byte, error)

// item представляет элемент кэша с временем жизни
type item struct {
	value      []byte
	expiration int64
}

// Cache хранит байты ресурсов (бланки, изображения) с TTL
type Cache struct {
	items   sync.Map
	ttl     time.Duration
	metrics *Metrics
	stop    chan struct{}
	once    sync.Once
}

// NewCache создает кэш с метриками из глобального реестра
func NewCache(ttl time.Duration) *Cache {
	return NewCacheWithMetrics(ttl, defaultMetrics)
}

// NewCacheWithMetrics создает кэш с заданными метриками
func NewCacheWithMetrics(ttl time.Duration, m *Metrics) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	c := &Cache{
		ttl:     ttl,
		metrics: m,
		stop:    make(chan struct{}),
	}
	go c.startCleanupTimer()
	return c
}

// Set добавляет значение в кэш
func (c *Cache) Set(key string, value []byte) {
	if old, loaded := c.items.Swap(key, item{
		value:      value,
		expiration: time.Now().Add(c.ttl).UnixNano(),
	}); !loaded {
		c.metrics.items.Inc()
	} else {
		c.metrics.bytes.Sub(float64(len(old.(item).value)))
	}
	c.metrics.bytes.Add(float64(len(value)))
}

// Get получает значение из кэша
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	_, span := tracing.StartSpan(ctx, "Cache.Get", attribute.String("cache.key", key))
	defer span.End()

	v, ok := c.items.Load(key)
	if !ok {
		c.metrics.misses.Inc()
		return nil, fmt.Errorf("%w: key %s not found", ErrMiss, key)
	}

	it := v.(item)
	if time.Now().UnixNano() > it.expiration {
		c.Delete(key)
		c.metrics.misses.Inc()
		return nil, fmt.Errorf("%w: key %s expired", ErrMiss, key)
	}

	c.metrics.hits.Inc()
	span.AddEvent("Cache hit")
	return it.value, nil
}

// GetOrLoad возвращает значение из кэша или загружает его через loader
func (c *Cache) GetOrLoad(ctx context.Context, key string, loader Loader) ([]byte, error) {
	if data, err := c.Get(ctx, key); err == nil {
		return data, nil
	}

	data, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	c.Set(key, data)
	return data, nil
}

// Delete удаляет значение из кэша
func (c *Cache) Delete(key string) {
	if old, loaded := c.items.LoadAndDelete(key); loaded {
		c.metrics.items.Dec()
		c.metrics.bytes.Sub(float64(len(old.(item).value)))
	}
}

// Clear очищает весь кэш
func (c *Cache) Clear() {
	c.items.Range(func(key, _ any) bool {
		c.Delete(key.(string))
		return true
	})
}

// Close останавливает фоновую очистку
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

// startCleanupTimer запускает периодическую очистку устаревших элементов
func (c *Cache) startCleanupTimer() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now().UnixNano()
			c.items.Range(func(key, value any) bool {
				if now > value.(item).expiration {
					c.Delete(key.(string))
				}
				return true
			})
		}
	}
}
