package tst

// NodeID references a node inside a Pool. Nil is the absent reference.
type NodeID uint32

// Nil is the zero NodeID; no node ever lives at it.
const Nil NodeID = 0

// Node is a single byte-keyed tree node.
//
// left and right hold nodes whose key at the same word position compares
// less or greater than key; center holds the next byte of words sharing the
// prefix that ends here. parent points back to the node of the previous byte
// and is never an owning link.
type Node struct {
	key        byte
	parent     NodeID
	left       NodeID
	center     NodeID
	right      NodeID
	terminator bool
	upper      bool
	inUse      bool
}

// Key returns the lower-cased byte stored in the node.
func (n *Node) Key() byte { return n.key }

// SetKey stores key folded to lower case. An upper-case key also sets the
// upper flag.
func (n *Node) SetKey(key byte) {
	if isUpper(key) {
		n.upper = true
	}
	n.key = fold(key)
}

func (n *Node) Parent() NodeID { return n.parent }
func (n *Node) Left() NodeID   { return n.left }
func (n *Node) Center() NodeID { return n.center }
func (n *Node) Right() NodeID  { return n.right }

// Terminator reports whether a word ends at this node.
func (n *Node) Terminator() bool { return n.terminator }

// SetTerminator marks the node as the end of a word.
func (n *Node) SetTerminator() { n.terminator = true }

// Upper reports whether some inserted word had an upper-case byte here.
func (n *Node) Upper() bool { return n.upper }

// SetUpper sets the upper flag.
func (n *Node) SetUpper() { n.upper = true }

// Clear drops every link and flag. The key is kept.
func (n *Node) Clear() {
	n.parent, n.left, n.center, n.right = Nil, Nil, Nil, Nil
	n.terminator = false
	n.upper = false
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return n.left == Nil && n.center == Nil && n.right == Nil
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }

func fold(c byte) byte {
	if isUpper(c) {
		return c + 'a' - 'A'
	}
	return c
}

func foldString(s string) string {
	for i := 0; i < len(s); i++ {
		if isUpper(s[i]) {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				b[j] = fold(b[j])
			}
			return string(b)
		}
	}
	return s
}
