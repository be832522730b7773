package dashboard

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC)}
}

func renderCounter(calls *int, html string) func() (string, error) {
	return func() (string, error) {
		*calls++
		return html, nil
	}
}

func TestChartCacheServesStoredEntry(t *testing.T) {
	cache := NewChartCache(time.Minute)
	calls := 0

	first, err := cache.GetOrRender("sales_trend:westeros", renderCounter(&calls, "<div>trend</div>"))
	require.NoError(t, err)
	second, err := cache.GetOrRender("sales_trend:westeros", renderCounter(&calls, "<div>other</div>"))
	require.NoError(t, err)

	assert.Equal(t, "<div>trend</div>", first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestChartCacheRerendersAfterTTL(t *testing.T) {
	clock := newFakeClock()
	cache := NewChartCache(time.Minute, WithCacheClock(clock.Now))
	calls := 0

	_, err := cache.GetOrRender("pie", renderCounter(&calls, "a"))
	require.NoError(t, err)
	clock.Advance(59 * time.Second)
	_, err = cache.GetOrRender("pie", renderCounter(&calls, "b"))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	clock.Advance(time.Second)
	html, err := cache.GetOrRender("pie", renderCounter(&calls, "b"))
	require.NoError(t, err)
	assert.Equal(t, "b", html)
	assert.Equal(t, 2, calls)
}

func TestChartCacheEvictsOldestWhenFull(t *testing.T) {
	cache := NewChartCache(time.Hour, WithCacheCapacity(3))
	calls := 0
	for i := 0; i < 4; i++ {
		_, err := cache.GetOrRender(fmt.Sprintf("panel-%d", i), renderCounter(&calls, "html"))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, cache.Len())

	// panel-0 was evicted, panel-3 is still stored.
	_, _ = cache.GetOrRender("panel-3", renderCounter(&calls, "html"))
	assert.Equal(t, 4, calls)
	_, _ = cache.GetOrRender("panel-0", renderCounter(&calls, "html"))
	assert.Equal(t, 5, calls)
}

func TestChartCachePrefersExpiredForEviction(t *testing.T) {
	clock := newFakeClock()
	cache := NewChartCache(time.Minute, WithCacheCapacity(2), WithCacheClock(clock.Now))
	calls := 0

	_, _ = cache.GetOrRender("old", renderCounter(&calls, "html"))
	clock.Advance(30 * time.Second)
	_, _ = cache.GetOrRender("fresh", renderCounter(&calls, "html"))
	clock.Advance(40 * time.Second)
	_, _ = cache.GetOrRender("new", renderCounter(&calls, "html"))

	assert.Equal(t, 2, cache.Len())
	_, _ = cache.GetOrRender("fresh", renderCounter(&calls, "html"))
	assert.Equal(t, 3, calls)
}

func TestChartCacheBoundedByDefaultCapacity(t *testing.T) {
	cache := NewChartCache(time.Minute)
	calls := 0
	for i := 0; i < DefaultChartCacheCapacity+5; i++ {
		_, err := cache.GetOrRender(fmt.Sprintf("key-%d", i), renderCounter(&calls, "html"))
		require.NoError(t, err)
	}
	assert.Equal(t, DefaultChartCacheCapacity, cache.Len())
}

func TestChartCacheZeroTTLBypassesStorage(t *testing.T) {
	cache := NewChartCache(0)
	calls := 0
	_, _ = cache.GetOrRender("key", renderCounter(&calls, "html"))
	_, _ = cache.GetOrRender("key", renderCounter(&calls, "html"))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, cache.Len())
}

func TestChartCacheDoesNotStoreErrors(t *testing.T) {
	cache := NewChartCache(time.Minute)
	boom := errors.New("render failed")

	_, err := cache.GetOrRender("bar", func() (string, error) { return "", boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, cache.Len())

	cache.Purge()
	html, err := cache.GetOrRender("bar", func() (string, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", html)
}
