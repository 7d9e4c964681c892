package tst

import "github.com/tidwall/btree"

// Match is one scored suggestion. Stem is the part of the query found in the
// tree, Suffix the completion enumerated below it. Exact marks the query
// itself being a dictionary word.
type Match struct {
	Stem   string
	Suffix string
	Score  int
	Seq    int
	Node   NodeID
	Exact  bool
}

// Word returns the literal suggested word.
func (m Match) Word() string { return m.Stem + m.Suffix }

// Render joins stem and suffix with sep so the boundary between the exact
// part and the completion stays visible. Exact matches render as the bare
// stem.
func (m Match) Render(sep string) string {
	if m.Exact {
		return m.Stem
	}
	return m.Stem + sep + m.Suffix
}

// Results is a set of matches ordered by score, then by the order they were
// added. Equal scores never collide.
type Results struct {
	tree *btree.BTreeG[Match]
	seq  int
}

func byScore(a, b Match) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Seq < b.Seq
}

// NewResults creates an empty result set.
func NewResults() *Results {
	return &Results{
		tree: btree.NewBTreeGOptions(byScore, btree.Options{NoLocks: true}),
	}
}

// Add stores m under the next sequence number and returns it as stored.
func (r *Results) Add(m Match) Match {
	m.Seq = r.seq
	r.seq++
	r.tree.Set(m)
	return m
}

// Len returns the number of matches.
func (r *Results) Len() int { return r.tree.Len() }

// Scan calls iter for each match in ascending order until iter returns false.
func (r *Results) Scan(iter func(m Match) bool) {
	r.tree.Scan(iter)
}

// Best returns the lowest scored match.
func (r *Results) Best() (Match, bool) {
	var best Match
	found := false
	r.tree.Scan(func(m Match) bool {
		best, found = m, true
		return false
	})
	return best, found
}

// Matches returns up to limit matches in order; limit <= 0 returns all.
func (r *Results) Matches(limit int) []Match {
	n := r.tree.Len()
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Match, 0, n)
	r.tree.Scan(func(m Match) bool {
		if len(out) == n {
			return false
		}
		out = append(out, m)
		return true
	})
	return out
}
