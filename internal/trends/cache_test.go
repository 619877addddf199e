package trends

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheHitWithinTTL(t *testing.T) {
	c := NewCache(time.Hour)
	c.Put("k", []Keyword{kw("a", "alpha", 1)})

	got, ok := c.Get("k")
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "alpha", got[0].Keyword)
}

func TestCacheMissAfterExpiry(t *testing.T) {
	c := NewCache(time.Hour)

	now := time.Unix(1700000000, 0)
	c.now = func() time.Time { return now }
	c.Put("k", []Keyword{kw("a", "alpha", 1)})

	// one nanosecond before expiry is still a hit
	c.now = func() time.Time { return now.Add(time.Hour - time.Nanosecond) }
	_, ok := c.Get("k")
	assert.True(t, ok)

	// exactly at expiry is a miss, never served
	c.now = func() time.Time { return now.Add(time.Hour) }
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestCacheMissForUnknownKey(t *testing.T) {
	c := NewCache(time.Hour)
	_, ok := c.Get("unknown")
	assert.False(t, ok)
}

func TestCachePutStoresCopy(t *testing.T) {
	c := NewCache(time.Hour)
	original := []Keyword{kw("a", "alpha", 1)}
	c.Put("k", original)

	original[0].Keyword = "mutated"
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "alpha", got[0].Keyword)
}

func TestCacheGetReturnsCopy(t *testing.T) {
	c := NewCache(time.Hour)
	c.Put("k", []Keyword{kw("a", "alpha", 1)})

	got, ok := c.Get("k")
	require.True(t, ok)
	got[0].Keyword = "mutated"

	again, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "alpha", again[0].Keyword)
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := NewCache(time.Hour)
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Put("k", []Keyword{kw("a", "alpha", float64(j))})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got, ok := c.Get("k"); ok {
					// published entries are always complete
					assert.Len(t, got, 1)
				}
			}
		}()
	}
	wg.Wait()
}
