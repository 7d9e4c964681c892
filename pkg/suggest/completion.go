package suggest

import (
	"sync"
	"sync/atomic"

	"github.com/bastiangx/wordtree/internal/utils"
	"github.com/bastiangx/wordtree/pkg/tst"
	"github.com/charmbracelet/log"
)

// Options tune how suggestions are produced.
type Options struct {
	// Limit caps the suggestions returned when the caller passes no limit.
	Limit int
	// MaxDistance drops candidates scoring above it; 0 keeps everything.
	MaxDistance int
	// Separator joins stem and suffix in Suggestion.Rendered.
	Separator string
	// RestoreCase spells words back with the upper-case bytes they were
	// inserted with.
	RestoreCase bool
	// CacheSize is the number of queries kept in the hot cache; 0 disables it.
	CacheSize int
}

// DefaultOptions returns the options the CLI starts with.
func DefaultOptions() Options {
	return Options{
		Limit:     24,
		Separator: "|",
		CacheSize: 512,
	}
}

type Suggestion struct {
	Word     string
	Stem     string
	Suffix   string
	Distance int
	// Exact is set when the stem is a dictionary word by itself.
	Exact    bool
	Rendered string
}

type Completer struct {
	mu      sync.RWMutex
	tree    *tst.Tree
	cache   *HotCache
	opts    Options
	queries atomic.Int64
	added   int
}

// NewCompleter creates an empty completer over an unbounded node pool.
func NewCompleter(opts Options) *Completer {
	return NewCompleterWithPool(tst.NewPool(0), opts)
}

// NewCompleterWithPool creates an empty completer whose tree allocates from
// pool, so a capacity can be imposed.
func NewCompleterWithPool(pool *tst.Pool, opts Options) *Completer {
	defaults := DefaultOptions()
	if opts.Limit <= 0 {
		opts.Limit = defaults.Limit
	}
	if opts.Separator == "" {
		opts.Separator = defaults.Separator
	}
	if opts.MaxDistance < 0 {
		opts.MaxDistance = 0
	}

	return &Completer{
		tree:  tst.NewWithPool(pool),
		cache: NewHotCache(opts.CacheSize),
		opts:  opts,
	}
}

// Options returns the options the completer was built with.
func (c *Completer) Options() Options { return c.opts }

func (c *Completer) Insert(word string) (tst.NodeID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.tree.Len()
	id, err := c.tree.Insert(word)
	if err != nil {
		return id, err
	}
	if c.tree.Len() != before {
		c.added++
		c.cache.Purge()
	}
	return id, nil
}

func (c *Completer) AddWord(word string) error {
	_, err := c.Insert(word)
	return err
}

func (c *Completer) Contains(word string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree.Find(word)
}

// Suggest runs a fuzzy lookup for query. A limit of 0 or less falls back to
// Options.Limit.
func (c *Completer) Suggest(query string, limit int) []Suggestion {
	if limit <= 0 {
		limit = c.opts.Limit
	}
	c.queries.Add(1)

	key := cacheKey(query)
	if key == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	// Cached entries are cut at the default limit; bigger requests go to the tree.
	if limit <= c.opts.Limit {
		if cached, ok := c.cache.Get(key); ok {
			return trim(cached, limit)
		}
	}

	keep := max(limit, c.opts.Limit)
	suggestions := make([]Suggestion, 0, min(keep, 64))
	c.tree.FuzzyFind(query).Scan(func(m tst.Match) bool {
		if c.opts.MaxDistance > 0 && m.Score > c.opts.MaxDistance {
			// Results are ordered by score, nothing further can qualify.
			return false
		}
		suggestions = append(suggestions, c.suggestion(m))
		return len(suggestions) < keep
	})
	log.Debugf("suggest %q: %d candidates", query, len(suggestions))

	// Held under the read lock, so no insert can purge between lookup and store.
	c.cache.Put(key, trim(suggestions, c.opts.Limit))
	return trim(suggestions, limit)
}

func (c *Completer) suggestion(m tst.Match) Suggestion {
	stem, suffix := m.Stem, m.Suffix
	if c.opts.RestoreCase {
		word := c.tree.Spell(m.Node, true)
		stem, suffix = word[:len(m.Stem)], word[len(m.Stem):]
	}

	s := Suggestion{
		Word:     stem + suffix,
		Stem:     stem,
		Suffix:   suffix,
		Distance: m.Score,
		Exact:    m.Exact,
	}
	if m.Exact {
		s.Rendered = stem
	} else {
		s.Rendered = stem + c.opts.Separator + suffix
	}
	return s
}

// View runs fn with read access to the underlying tree.
func (c *Completer) View(fn func(t *tst.Tree) error) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return fn(c.tree)
}

func (c *Completer) Stats() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pool := c.tree.Pool()
	stats := map[string]int{
		"totalWords":    c.tree.Len(),
		"addedWords":    c.added,
		"nodes":         c.tree.NodeCount(),
		"poolCapacity":  pool.Cap(),
		"poolAvailable": pool.Available(),
		"queries":       int(c.queries.Load()),
	}
	for k, v := range c.cache.Stats() {
		stats[k] = v
	}
	return stats
}

func trim(s []Suggestion, limit int) []Suggestion {
	if limit > 0 && len(s) > limit {
		s = s[:limit]
	}
	out := make([]Suggestion, len(s))
	copy(out, s)
	return out
}

// cacheKey folds the query the way the tree does, so "Cat" and "cat" share
// an entry.
func cacheKey(query string) string {
	return utils.FoldASCII(query)
}
