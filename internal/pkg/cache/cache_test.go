package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *Metrics) {
	t.Helper()
	m := NewMetrics(prometheus.NewRegistry())
	c := NewCacheWithMetrics(ttl, m)
	t.Cleanup(c.Close)
	return c, m
}

func TestCache(t *testing.T) {
	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		c, m := newTestCache(t, time.Minute)
		c.Set("letterhead", []byte("png"))

		got, err := c.Get(ctx, "letterhead")
		require.NoError(t, err)
		assert.Equal(t, []byte("png"), got)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.hits))
		assert.Equal(t, 3.0, testutil.ToFloat64(m.bytes))
	})

	t.Run("Expiration", func(t *testing.T) {
		c, m := newTestCache(t, 50*time.Millisecond)
		c.Set("stamp", []byte("value"))
		time.Sleep(80 * time.Millisecond)

		_, err := c.Get(ctx, "stamp")
		assert.ErrorIs(t, err, ErrMiss)
		assert.Equal(t, 0.0, testutil.ToFloat64(m.items))
	})

	t.Run("Overwrite keeps size accurate", func(t *testing.T) {
		c, m := newTestCache(t, time.Minute)
		c.Set("k", []byte("12345"))
		c.Set("k", []byte("12"))

		assert.Equal(t, 1.0, testutil.ToFloat64(m.items))
		assert.Equal(t, 2.0, testutil.ToFloat64(m.bytes))
	})

	t.Run("Delete and Clear", func(t *testing.T) {
		c, m := newTestCache(t, time.Minute)
		c.Set("a", []byte("1"))
		c.Set("b", []byte("2"))
		c.Delete("a")

		_, err := c.Get(ctx, "a")
		assert.ErrorIs(t, err, ErrMiss)

		c.Clear()
		assert.Equal(t, 0.0, testutil.ToFloat64(m.items))
		assert.Equal(t, 0.0, testutil.ToFloat64(m.bytes))
	})
}

func TestCache_GetOrLoad(t *testing.T) {
	c, m := newTestCache(t, time.Minute)
	ctx := context.Background()

	loads := 0
	loader := func(context.Context) ([]byte, error) {
		loads++
		return []byte("image"), nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.GetOrLoad(ctx, "sig", loader)
		require.NoError(t, err)
		assert.Equal(t, []byte("image"), got)
	}
	assert.Equal(t, 1, loads)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.misses))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.hits))

	errLoad := errors.New("unreadable")
	_, err := c.GetOrLoad(ctx, "broken", func(context.Context) ([]byte, error) { return nil, errLoad })
	assert.ErrorIs(t, err, errLoad)
	_, err = c.Get(ctx, "broken")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestCache_Concurrent(t *testing.T) {
	c, m := newTestCache(t, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key_%d", i%5)
			c.Set(key, []byte("v"))
			_, _ = c.Get(ctx, key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5.0, testutil.ToFloat64(m.items))
}
