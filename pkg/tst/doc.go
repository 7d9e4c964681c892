/*
Package tst implements a ternary search tree used as a compact dictionary.

Words are stored one byte per node. Every node has three children: left and
right hold alternatives for the same position that sort before or after the
node's key, center continues the word with its next byte. A parent link on
each node points back at the previous byte so a word can be spelled from any
of its nodes.

	tree := tst.New()
	tree.Insert("cart")
	tree.Insert("car")
	tree.Find("car")  // true
	tree.Find("ca")   // false

Fuzzy lookups shorten the query until a prefix of it is found, then score
every word below that prefix by Levenshtein distance:

	for _, m := range tree.FuzzyFind("cat").Matches(10) {
		fmt.Printf("(%d) %s\n", m.Score, m.Render("|"))
	}
	// (1) ca|r
	// (1) ca|rt

Keys are folded to lower case on insert and on lookup. Nodes come from a
Pool, which may be capped; a full pool makes Insert fail cleanly instead of
leaving half a word behind.

The tree is never rebalanced and never shrinks. It is not safe for concurrent
use.
*/
package tst
