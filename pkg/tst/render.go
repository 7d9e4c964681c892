package tst

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

var legMarks = [...]byte{legLeft: '<', legCenter: '^', legRight: '>'}

// Render writes an indented outline of the tree to w, one node per line.
// Each line carries the leg the node hangs off ('<' left, '^' center,
// '>' right), its key, and '*' when a word ends there. Nodes deeper than
// maxDepth are elided; maxDepth <= 0 renders everything.
func Render(w io.Writer, t *Tree, maxDepth int) error {
	if t.root == Nil {
		_, err := io.WriteString(w, "(empty)\n")
		return err
	}

	type frame struct {
		id    NodeID
		via   leg
		depth int
	}

	var b strings.Builder
	elided := 0
	stack := []frame{{id: t.root, via: legCenter}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.pool.node(f.id)
		if n == nil {
			continue
		}
		if maxDepth > 0 && f.depth >= maxDepth {
			elided++
		} else {
			b.WriteString(strings.Repeat("  ", f.depth))
			b.WriteByte(legMarks[f.via])
			b.WriteString(printable(n.key))
			if n.terminator {
				b.WriteByte('*')
			}
			b.WriteByte('\n')
		}

		if n.right != Nil {
			stack = append(stack, frame{n.right, legRight, f.depth + 1})
		}
		if n.center != Nil {
			stack = append(stack, frame{n.center, legCenter, f.depth + 1})
		}
		if n.left != Nil {
			stack = append(stack, frame{n.left, legLeft, f.depth + 1})
		}
	}
	if elided > 0 {
		fmt.Fprintf(&b, "... %d nodes below depth %d\n", elided, maxDepth)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Dump writes a flat listing of every live node in pool order: id, key,
// links and flags. Absent links print as '-'.
func Dump(w io.Writer, t *Tree) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	fmt.Fprintln(tw, "id\tkey\tl\tc\tr\tp\tflags")
	for i := 1; i < len(t.pool.nodes); i++ {
		n := &t.pool.nodes[i]
		if !n.inUse {
			continue
		}
		flags := ""
		if n.terminator {
			flags += "T"
		}
		if n.upper {
			flags += "U"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i, printable(n.key),
			t.linkKey(n.left), t.linkKey(n.center), t.linkKey(n.right), t.linkKey(n.parent),
			flags)
	}
	return tw.Flush()
}

func (t *Tree) linkKey(id NodeID) string {
	n := t.pool.node(id)
	if n == nil {
		return "-"
	}
	return printable(n.key)
}

func printable(c byte) string {
	if c < 0x20 || c >= 0x7f {
		return fmt.Sprintf("\\x%02x", c)
	}
	return string(c)
}
