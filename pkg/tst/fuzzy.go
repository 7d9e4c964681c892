package tst

import (
	"github.com/bastiangx/wordtree/pkg/levenshtein"
	"github.com/charmbracelet/log"
)

// FuzzyFind suggests dictionary words for query, ranked by edit distance.
func (t *Tree) FuzzyFind(query string) *Results {
	return t.FuzzyFindFrom(query, t.root)
}

// FuzzyFindFrom suggests words below start for query.
//
// The query is shortened one byte at a time until it is a dictionary word or
// its last byte still lands on a node. Stems of a single byte are never
// looked up, so a query that only shares its first byte with the dictionary
// yields nothing. Every word below the anchor is then scored against the
// query. A stem that is itself a word is recorded first, scoring its own
// distance to the query.
func (t *Tree) FuzzyFindFrom(query string, start NodeID) *Results {
	results := NewResults()
	target := foldString(query)
	stem := target

	anchor := Nil
	for len(stem) > 1 {
		log.Debugf("searching %q (%q)", stem, query)
		found, node := t.FindFrom(stem, start)
		if found {
			results.Add(Match{Stem: stem, Score: levenshtein.Distance(target, stem), Node: node, Exact: true})
			anchor = node
			break
		}
		if node != Nil {
			anchor = node
			break
		}
		stem = stem[:len(stem)-1]
		log.Debugf("no match, trying %q (%q)", stem, query)
	}

	if anchor == Nil {
		return results
	}
	t.extrapolate(anchor, stem, target, results)
	return results
}

// extrapolate scores every word below anchor's center link. Nodes are
// visited in pre-order (node, left, center, right) off an explicit stack and
// each suffix is rebuilt from parent links, so sibling subtrees never share
// state.
func (t *Tree) extrapolate(anchor NodeID, stem, target string, results *Results) {
	a := t.pool.node(anchor)
	if a == nil || a.center == Nil {
		return
	}

	stack := []NodeID{a.center}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.pool.node(id)
		if n == nil {
			continue
		}

		if n.terminator {
			suffix := t.spellUntil(id, anchor, false)
			score := levenshtein.Distance(target, stem+suffix)
			m := results.Add(Match{Stem: stem, Suffix: suffix, Score: score, Node: id})
			log.Debugf("scoring %q =|= %q score: %d", target, m.Render("|"), score)
		}

		if n.right != Nil {
			stack = append(stack, n.right)
		}
		if n.center != Nil {
			stack = append(stack, n.center)
		}
		if n.left != Nil {
			stack = append(stack, n.left)
		}
	}
}
