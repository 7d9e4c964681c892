package tst

import "fmt"

// Pool hands out fixed-size nodes from a single arena and takes them back
// through a free stack. A capacity of zero lets the arena grow without bound.
type Pool struct {
	nodes    []Node
	free     []NodeID
	capacity int
}

// NewPool creates a pool holding at most capacity live nodes.
func NewPool(capacity int) *Pool {
	if capacity < 0 {
		capacity = 0
	}
	reserve := capacity
	if reserve == 0 || reserve > 4096 {
		reserve = 4096
	}
	nodes := make([]Node, 1, reserve+1)
	return &Pool{
		nodes:    nodes,
		capacity: capacity,
	}
}

// Alloc returns a cleared node keyed by key.
func (p *Pool) Alloc(key byte) (NodeID, error) {
	var id NodeID
	switch {
	case len(p.free) > 0:
		id = p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
	case p.capacity > 0 && len(p.nodes)-1 >= p.capacity:
		return Nil, fmt.Errorf("%w: capacity %d", ErrPoolExhausted, p.capacity)
	default:
		p.nodes = append(p.nodes, Node{})
		id = NodeID(len(p.nodes) - 1)
	}
	n := &p.nodes[id]
	*n = Node{inUse: true}
	n.SetKey(key)
	return id, nil
}

// recycle returns a live node to the pool. Its links are not followed, so
// only nodes that nothing links to may be recycled: the tree calls it when
// rolling back a failed insert.
func (p *Pool) recycle(id NodeID) error {
	n := p.node(id)
	if n == nil {
		return fmt.Errorf("%w: free of unknown node %d", ErrInvalidArgument, id)
	}
	n.Clear()
	n.inUse = false
	p.free = append(p.free, id)
	return nil
}

// Len returns the number of live nodes.
func (p *Pool) Len() int { return len(p.nodes) - 1 - len(p.free) }

// Cap returns the configured capacity, zero meaning unbounded.
func (p *Pool) Cap() int { return p.capacity }

// Available returns how many more nodes can be allocated, or -1 when the
// pool is unbounded.
func (p *Pool) Available() int {
	if p.capacity == 0 {
		return -1
	}
	return p.capacity - p.Len()
}

// node resolves a live id, nil otherwise.
func (p *Pool) node(id NodeID) *Node {
	if id == Nil || int(id) >= len(p.nodes) {
		return nil
	}
	n := &p.nodes[id]
	if !n.inUse {
		return nil
	}
	return n
}
