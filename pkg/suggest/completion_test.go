package suggest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/bastiangx/wordtree/pkg/tst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCompleter(t *testing.T, opts Options, words ...string) *Completer {
	t.Helper()
	c := NewCompleter(opts)
	for _, w := range words {
		require.NoError(t, c.AddWord(w), "add %q", w)
	}
	return c
}

func rendered(s []Suggestion) []string {
	out := make([]string, len(s))
	for i, sg := range s {
		out[i] = fmt.Sprintf("(%d) %s", sg.Distance, sg.Rendered)
	}
	return out
}

func TestCompleterSuggest(t *testing.T) {
	c := newCompleter(t, DefaultOptions(), "car", "cart", "dog")

	got := c.Suggest("cat", 0)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"(1) ca|r", "(1) ca|rt"}, rendered(got))
	assert.Equal(t, "car", got[0].Word)
	assert.Equal(t, "ca", got[0].Stem)
	assert.Equal(t, "r", got[0].Suffix)
	assert.False(t, got[0].Exact)
}

func TestCompleterSuggestExact(t *testing.T) {
	c := newCompleter(t, DefaultOptions(), "car", "cart")

	got := c.Suggest("car", 0)
	require.NotEmpty(t, got)
	assert.True(t, got[0].Exact)
	assert.Equal(t, 0, got[0].Distance)
	assert.Equal(t, "car", got[0].Rendered)
}

func TestCompleterSuggestLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.Limit = 3
	c := NewCompleter(opts)
	for i := 0; i < 20; i++ {
		require.NoError(t, c.AddWord(fmt.Sprintf("ab%c", 'a'+i)))
	}

	assert.Len(t, c.Suggest("ab", 0), 3)
	assert.Len(t, c.Suggest("ab", 2), 2)
	assert.Len(t, c.Suggest("ab", 10), 10, "limits above the default bypass the cache")
	assert.Len(t, c.Suggest("ab", 0), 3)
}

func TestCompleterMaxDistance(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxDistance = 1
	c := newCompleter(t, opts, "cab", "cabs", "cabbages")

	for _, s := range c.Suggest("cab", 0) {
		assert.LessOrEqual(t, s.Distance, 1, s.Word)
	}
	words := make([]string, 0)
	for _, s := range c.Suggest("cab", 0) {
		words = append(words, s.Word)
	}
	assert.ElementsMatch(t, []string{"cab", "cabs"}, words)
}

func TestCompleterRestoreCase(t *testing.T) {
	opts := DefaultOptions()
	opts.RestoreCase = true
	c := newCompleter(t, opts, "Paris", "parrot")

	got := c.Suggest("parx", 0)
	require.Len(t, got, 2)
	words := []string{got[0].Word, got[1].Word}
	assert.Contains(t, words, "Paris")
	for _, s := range got {
		assert.Equal(t, s.Stem+s.Suffix, s.Word)
		assert.Len(t, s.Stem, 3)
	}

	plain := newCompleter(t, DefaultOptions(), "Paris")
	assert.Equal(t, "paris", plain.Suggest("pari", 0)[0].Word)
}

func TestCompleterContains(t *testing.T) {
	c := newCompleter(t, DefaultOptions(), "Cat", "dog")

	assert.True(t, c.Contains("cat"))
	assert.True(t, c.Contains("CAT"))
	assert.False(t, c.Contains("ca"))
	assert.False(t, c.Contains(""))
}

func TestCompleterAddWordPurgesCache(t *testing.T) {
	c := newCompleter(t, DefaultOptions(), "cart")

	first := c.Suggest("cat", 0)
	require.Len(t, first, 1)
	assert.Equal(t, 1, c.cache.Len())

	// Same query hits the cache.
	c.Suggest("CAT", 0)
	assert.Equal(t, 1, c.Stats()["hotCacheHits"])

	// Re-adding a known word does not invalidate anything.
	require.NoError(t, c.AddWord("cart"))
	assert.Equal(t, 1, c.cache.Len())

	require.NoError(t, c.AddWord("cat"))
	assert.Equal(t, 0, c.cache.Len())

	got := c.Suggest("cat", 0)
	require.NotEmpty(t, got)
	assert.True(t, got[0].Exact)
	assert.Equal(t, "cat", got[0].Word)
}

func TestCompleterAddWordErrors(t *testing.T) {
	c := NewCompleterWithPool(tst.NewPool(3), DefaultOptions())

	assert.ErrorIs(t, c.AddWord(""), tst.ErrInvalidArgument)
	require.NoError(t, c.AddWord("cat"))
	assert.ErrorIs(t, c.AddWord("dog"), tst.ErrPoolExhausted)

	stats := c.Stats()
	assert.Equal(t, 1, stats["totalWords"])
	assert.Equal(t, 3, stats["nodes"])
	assert.Equal(t, 0, stats["poolAvailable"])
}

func TestCompleterEmptyQuery(t *testing.T) {
	c := newCompleter(t, DefaultOptions(), "cat")
	assert.Empty(t, c.Suggest("", 0))
	assert.Empty(t, NewCompleter(DefaultOptions()).Suggest("cat", 0))
}

func TestCompleterStats(t *testing.T) {
	c := newCompleter(t, DefaultOptions(), "cat", "car", "cat")
	c.Suggest("ca", 0)

	stats := c.Stats()
	assert.Equal(t, 2, stats["totalWords"])
	assert.Equal(t, 2, stats["addedWords"])
	assert.Equal(t, 4, stats["nodes"])
	assert.Equal(t, 0, stats["poolCapacity"])
	assert.Equal(t, -1, stats["poolAvailable"])
	assert.Equal(t, 1, stats["queries"])
	assert.Equal(t, 512, stats["maxHotEntries"])
}

func TestCompleterView(t *testing.T) {
	c := newCompleter(t, DefaultOptions(), "cat")
	err := c.View(func(tree *tst.Tree) error {
		assert.Equal(t, 3, tree.NodeCount())
		return nil
	})
	require.NoError(t, err)
}

func TestCompleterConcurrent(t *testing.T) {
	c := newCompleter(t, DefaultOptions(), "cat", "car", "cart", "dog")

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				c.Suggest("cax", 0)
				c.Contains("cart")
			}
		}()
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				assert.NoError(t, c.AddWord(fmt.Sprintf("w%dx%d", w, i)))
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 4+4*50, c.Stats()["totalWords"])
	assert.True(t, c.Contains("w3x49"))
}

var _ ICompleter = (*Completer)(nil)
