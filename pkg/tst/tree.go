package tst

import (
	"fmt"

	"github.com/charmbracelet/log"
)

type leg uint8

const (
	legLeft leg = iota
	legCenter
	legRight
)

// Tree is a ternary search tree over single bytes. Keys are folded to lower
// case on insert and on lookup.
//
// A Tree is not safe for concurrent use; embed it behind a lock when it is
// shared (see the suggest package).
type Tree struct {
	pool  *Pool
	root  NodeID
	words int
}

// New creates an empty tree backed by an unbounded pool.
func New() *Tree {
	return NewWithPool(NewPool(0))
}

// NewWithPool creates an empty tree that allocates its nodes from pool.
func NewWithPool(pool *Pool) *Tree {
	if pool == nil {
		pool = NewPool(0)
	}
	return &Tree{pool: pool}
}

// Root returns the root node, Nil while the tree is empty.
func (t *Tree) Root() NodeID { return t.root }

// Pool returns the pool nodes are allocated from.
func (t *Tree) Pool() *Pool { return t.pool }

// Len returns the number of distinct words inserted through the tree.
func (t *Tree) Len() int { return t.words }

// NodeCount returns the number of live nodes in the tree's pool.
func (t *Tree) NodeCount() int { return t.pool.Len() }

// Node returns a copy of the node at id.
func (t *Tree) Node(id NodeID) (Node, bool) {
	n := t.pool.node(id)
	if n == nil {
		return Node{}, false
	}
	return *n, true
}

// Insert adds word to the tree and returns the node its last byte ends at.
func (t *Tree) Insert(word string) (NodeID, error) {
	return t.InsertAt(word, &t.root)
}

// InsertAt adds word below the node referenced by slot, allocating the first
// node into slot when it is empty. If the pool runs out part way through the
// word, every node allocated by this call is released again and the tree is
// left as it was.
func (t *Tree) InsertAt(word string, slot *NodeID) (NodeID, error) {
	if word == "" {
		return Nil, fmt.Errorf("%w: empty word", ErrInvalidArgument)
	}
	if slot == nil {
		return Nil, fmt.Errorf("%w: nil root slot", ErrInvalidArgument)
	}

	var (
		cur     = *slot
		owner   = Nil
		via     = legCenter
		parent  = Nil
		created []NodeID
		first   struct {
			owner NodeID
			via   leg
		}
		uppers []NodeID
	)

	for i := 0; ; {
		c := word[i]
		if cur == Nil {
			id, err := t.pool.Alloc(c)
			if err != nil {
				if len(created) > 0 {
					t.link(slot, first.owner, first.via, Nil)
					t.release(created)
				}
				log.Debugf("insert %q failed after %d new nodes: %v", word, len(created), err)
				return Nil, fmt.Errorf("insert %q: %w", word, err)
			}
			t.pool.node(id).parent = parent
			t.link(slot, owner, via, id)
			if len(created) == 0 {
				first.owner, first.via = owner, via
			}
			created = append(created, id)
			cur = id
		}

		n := t.pool.node(cur)
		k := fold(c)
		switch {
		case k < n.key:
			owner, via, cur = cur, legLeft, n.left
		case k > n.key:
			owner, via, cur = cur, legRight, n.right
		default:
			if isUpper(c) {
				uppers = append(uppers, cur)
			}
			if i == len(word)-1 {
				if !n.terminator {
					n.terminator = true
					t.words++
				}
				for _, u := range uppers {
					t.pool.node(u).upper = true
				}
				return cur, nil
			}
			i++
			parent = cur
			owner, via, cur = cur, legCenter, n.center
		}
	}
}

// link stores id into the slot reached from owner along via. A Nil owner
// means the caller's root slot.
func (t *Tree) link(slot *NodeID, owner NodeID, via leg, id NodeID) {
	if owner == Nil {
		*slot = id
		return
	}
	n := t.pool.node(owner)
	switch via {
	case legLeft:
		n.left = id
	case legRight:
		n.right = id
	default:
		n.center = id
	}
}

func (t *Tree) release(ids []NodeID) {
	for i := len(ids) - 1; i >= 0; i-- {
		if err := t.pool.recycle(ids[i]); err != nil {
			log.Errorf("release node %d: %v", ids[i], err)
		}
	}
}

// Find reports whether word was inserted into the tree.
func (t *Tree) Find(word string) bool {
	found, _ := t.FindFrom(word, t.root)
	return found
}

// FindFrom looks word up starting at start. The returned node is the one the
// word's last byte matched, whether or not a word ends there; it is Nil when
// the walk fell off the tree first. That node anchors prefix expansion for
// fuzzy lookups.
func (t *Tree) FindFrom(word string, start NodeID) (bool, NodeID) {
	if word == "" {
		return false, Nil
	}
	cur := start
	for i := 0; ; {
		n := t.pool.node(cur)
		if n == nil {
			return false, Nil
		}
		k := fold(word[i])
		switch {
		case k < n.key:
			cur = n.left
		case k > n.key:
			cur = n.right
		default:
			if i == len(word)-1 {
				return n.terminator, cur
			}
			i++
			cur = n.center
		}
	}
}

// Spell rebuilds the word ending at id by following parent links to the
// first byte. With restoreCase set, bytes whose node carries the upper flag
// come back upper-cased.
func (t *Tree) Spell(id NodeID, restoreCase bool) string {
	return t.spellUntil(id, Nil, restoreCase)
}

// spellUntil collects keys from id upwards, stopping before stop.
func (t *Tree) spellUntil(id, stop NodeID, restoreCase bool) string {
	var buf []byte
	for cur := id; cur != Nil && cur != stop; {
		n := t.pool.node(cur)
		if n == nil {
			break
		}
		c := n.key
		if restoreCase && n.upper && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		buf = append(buf, c)
		cur = n.parent
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}
