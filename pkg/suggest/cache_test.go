package suggest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHotCacheGetPut(t *testing.T) {
	hc := NewHotCache(4)

	_, ok := hc.Get("cat")
	assert.False(t, ok)

	hc.Put("cat", []Suggestion{{Word: "car"}})
	got, ok := hc.Get("cat")
	require.True(t, ok)
	assert.Equal(t, "car", got[0].Word)

	stats := hc.Stats()
	assert.Equal(t, 1, stats["hotCacheHits"])
	assert.Equal(t, 1, stats["hotCacheMisses"])
	assert.Equal(t, 1, stats["hotCacheEntries"])
}

func TestHotCacheEvictsLeastRecentlyUsed(t *testing.T) {
	hc := NewHotCache(3)
	for _, q := range []string{"a", "b", "c"} {
		hc.Put(q, nil)
	}

	// Touch "a" so "b" is now the oldest.
	_, ok := hc.Get("a")
	require.True(t, ok)

	hc.Put("d", nil)
	assert.Equal(t, 3, hc.Len())

	_, ok = hc.Get("b")
	assert.False(t, ok, "b should have been evicted")
	assert.NotContains(t, hc.Cached(""), "b")
	for _, q := range []string{"a", "c", "d"} {
		_, ok := hc.Get(q)
		assert.True(t, ok, q)
	}
}

func TestHotCacheOverwriteDoesNotEvict(t *testing.T) {
	hc := NewHotCache(2)
	hc.Put("a", nil)
	hc.Put("b", nil)
	hc.Put("a", []Suggestion{{Word: "ab"}})

	assert.Equal(t, 2, hc.Len())
	got, ok := hc.Get("a")
	require.True(t, ok)
	assert.Equal(t, "ab", got[0].Word)
}

func TestHotCacheCached(t *testing.T) {
	hc := NewHotCache(10)
	for _, q := range []string{"ca", "cat", "cart", "dog"} {
		hc.Put(q, nil)
	}
	assert.ElementsMatch(t, []string{"ca", "cat", "cart"}, hc.Cached("ca"))
	assert.Len(t, hc.Cached(""), 4)
}

func TestHotCachePurge(t *testing.T) {
	hc := NewHotCache(10)
	for i := 0; i < 5; i++ {
		hc.Put(fmt.Sprintf("q%d", i), nil)
	}
	hc.Purge()
	assert.Equal(t, 0, hc.Len())
	_, ok := hc.Get("q1")
	assert.False(t, ok)
}

func TestHotCacheDisabled(t *testing.T) {
	var hc *HotCache = NewHotCache(0)
	assert.Nil(t, hc)

	hc.Put("cat", nil)
	_, ok := hc.Get("cat")
	assert.False(t, ok)
	hc.Purge()
	assert.Equal(t, 0, hc.Len())
	assert.Empty(t, hc.Stats())
	assert.Empty(t, hc.Cached(""))
}
