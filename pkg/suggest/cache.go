package suggest

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// HotCache keeps the suggestions of recent queries, keyed by the folded
// query. The least recently used query is evicted once maxEntries is reached.
// A nil *HotCache is a disabled cache.
type HotCache struct {
	entries     *patricia.Trie
	accessTime  map[string]int64
	accessCount int64
	hits        int64
	misses      int64
	maxEntries  int
	mu          sync.Mutex
}

// NewHotCache returns nil when maxEntries is not positive.
func NewHotCache(maxEntries int) *HotCache {
	if maxEntries <= 0 {
		return nil
	}
	return &HotCache{
		entries:    patricia.NewTrie(),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

func (hc *HotCache) Get(query string) ([]Suggestion, bool) {
	if hc == nil {
		return nil, false
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	item := hc.entries.Get(patricia.Prefix(query))
	if item == nil {
		hc.misses++
		return nil, false
	}
	hc.hits++
	hc.markAccessed(query)
	return item.([]Suggestion), true
}

func (hc *HotCache) Put(query string, suggestions []Suggestion) {
	if hc == nil || query == "" {
		return
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	if _, ok := hc.accessTime[query]; !ok && len(hc.accessTime) >= hc.maxEntries {
		hc.evictLRU()
	}
	hc.entries.Set(patricia.Prefix(query), suggestions)
	hc.markAccessed(query)
}

// Cached lists the cached queries starting with prefix.
func (hc *HotCache) Cached(prefix string) []string {
	if hc == nil {
		return nil
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	var queries []string
	err := hc.entries.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, _ patricia.Item) error {
		queries = append(queries, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error searching hot cache: %v", err)
	}
	return queries
}

// Purge drops every entry. Called whenever the dictionary grows, since a new
// word can change the answer to any query.
func (hc *HotCache) Purge() {
	if hc == nil {
		return
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	if len(hc.accessTime) == 0 {
		return
	}
	log.Debugf("Purging %d hot cache entries", len(hc.accessTime))
	hc.entries = patricia.NewTrie()
	hc.accessTime = make(map[string]int64, hc.maxEntries)
}

func (hc *HotCache) Len() int {
	if hc == nil {
		return 0
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return len(hc.accessTime)
}

func (hc *HotCache) Stats() map[string]int {
	if hc == nil {
		return map[string]int{}
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()

	return map[string]int{
		"hotCacheEntries": len(hc.accessTime),
		"maxHotEntries":   hc.maxEntries,
		"hotCacheHits":    int(hc.hits),
		"hotCacheMisses":  int(hc.misses),
	}
}

func (hc *HotCache) markAccessed(query string) {
	hc.accessCount++
	hc.accessTime[query] = hc.accessCount
}

func (hc *HotCache) evictLRU() {
	var oldest string
	var oldestTime int64 = math.MaxInt64

	for query, accessTime := range hc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldest = query
		}
	}

	if oldest != "" {
		hc.entries.Delete(patricia.Prefix(oldest))
		delete(hc.accessTime, oldest)
		log.Debugf("Evicted query '%s' from hot cache", oldest)
	}
}
