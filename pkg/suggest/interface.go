// Package suggest wraps a ternary search tree for shared use: exact lookups,
// runtime inserts and fuzzy suggestions ranked by edit distance, with a
// small cache of recent queries in front of the tree.
//
// The bare tree is single-writer. A Completer holds it behind a
// multi-reader/single-writer lock, so Contains and Suggest may run
// concurrently while AddWord waits for readers to drain.
//
// Suggestions keep the stem/suffix split the tree produced them with. The
// stem is the longest prefix of the query found in the dictionary and the
// suffix is the completion below it, so a client can render
//
//	(1) ca|rt
//
// for the query "cat" against a dictionary holding "cart".
package suggest

import "github.com/bastiangx/wordtree/pkg/tst"

// ICompleter defines the interface for suggestion engines
type ICompleter interface {
	// AddWord inserts a word at runtime
	AddWord(word string) error

	// Insert is AddWord returning the node the word ends at, so a Completer
	// can be handed to the dictionary loaders directly
	Insert(word string) (tst.NodeID, error)

	// Contains reports an exact, case-insensitive dictionary hit
	Contains(word string) bool

	// Suggest returns up to limit suggestions for query, best first
	Suggest(query string, limit int) []Suggestion

	// Stats returns word, node and cache counters
	Stats() map[string]int
}
