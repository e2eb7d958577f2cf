// Package tree builds Huffman trees over byte symbols, derives their prefix
// codes and converts them to and from a compact pre-order bit sequence.
//
// Trees are stored as an arena: a flat slice of nodes addressed by NodeID.
// Every internal node owns exactly two children and no node is shared, so the
// arena always describes a strict binary tree rooted at Root.
package tree

import (
	"container/heap"
	"errors"
)

// Symbol is a single byte of input.
type Symbol = byte

// NodeID addresses a node inside a Tree.
type NodeID int32

// None is the NodeID of a missing child.
const None NodeID = -1

const (
	maxLeaves = 256
	// maxDepth is the deepest a leaf can sit in a tree of maxLeaves leaves.
	maxDepth = maxLeaves - 1
)

// ErrEmpty is returned by Build when no symbol has a positive count.
var ErrEmpty = errors.New("tree: empty frequency table")

type node struct {
	left, right NodeID
	symbol      Symbol
}

func (n node) leaf() bool { return n.left == None }

// Tree is a Huffman tree. A Tree is immutable once built or deserialized and
// may be shared between decoders.
type Tree struct {
	nodes  []node
	root   NodeID
	leaves int
}

func (t *Tree) add(n node) NodeID {
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

// Root returns the entry point of the tree.
func (t *Tree) Root() NodeID { return t.root }

// IsLeaf reports whether id is a leaf.
func (t *Tree) IsLeaf(id NodeID) bool { return t.nodes[id].leaf() }

// Symbol returns the symbol held by leaf id.
func (t *Tree) Symbol(id NodeID) Symbol { return t.nodes[id].symbol }

// Left returns the left child of id, or None for a leaf.
func (t *Tree) Left(id NodeID) NodeID { return t.nodes[id].left }

// Right returns the right child of id, or None for a leaf.
func (t *Tree) Right(id NodeID) NodeID { return t.nodes[id].right }

// Child follows one branch: false (a 0 bit) goes left, true goes right.
func (t *Tree) Child(id NodeID, bit bool) NodeID {
	if bit {
		return t.nodes[id].right
	}
	return t.nodes[id].left
}

// Leaves returns the number of leaves, which is the alphabet size.
func (t *Tree) Leaves() int { return t.leaves }

// Len returns the total number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Equal reports whether both trees have the same shape and the same symbols
// at the same paths.
func (t *Tree) Equal(o *Tree) bool {
	if t == nil || o == nil {
		return t == o
	}
	var eq func(a, b NodeID) bool
	eq = func(a, b NodeID) bool {
		na, nb := t.nodes[a], o.nodes[b]
		if na.leaf() != nb.leaf() {
			return false
		}
		if na.leaf() {
			return na.symbol == nb.symbol
		}
		return eq(na.left, nb.left) && eq(na.right, nb.right)
	}
	return eq(t.root, o.root)
}

// item is a priority queue entry. seq is the insertion order and breaks
// weight ties so that construction is deterministic.
type item struct {
	weight uint64
	seq    uint32
	id     NodeID
}

type queue []item

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].weight != q[j].weight {
		return q[i].weight < q[j].weight
	}
	return q[i].seq < q[j].seq
}
func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queue) Push(x any) { *q = append(*q, x.(item)) }

func (q *queue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// Build constructs a Huffman tree from per-symbol counts, indexed by symbol.
//
// Leaves enter the queue in ascending symbol order. The two lightest entries
// are merged until one remains; the first one popped becomes the left child.
// A table with a single symbol yields a tree whose root is that leaf.
func Build(counts [256]uint64) (*Tree, error) {
	t := &Tree{root: None}
	q := make(queue, 0, maxLeaves)
	var seq uint32
	for s, c := range counts {
		if c == 0 {
			continue
		}
		id := t.add(node{left: None, right: None, symbol: Symbol(s)})
		q = append(q, item{weight: c, seq: seq, id: id})
		seq++
	}
	if len(q) == 0 {
		return nil, ErrEmpty
	}
	t.leaves = len(q)

	heap.Init(&q)
	for q.Len() > 1 {
		a := heap.Pop(&q).(item)
		b := heap.Pop(&q).(item)
		id := t.add(node{left: a.id, right: b.id})
		heap.Push(&q, item{weight: a.weight + b.weight, seq: seq, id: id})
		seq++
	}
	t.root = q[0].id
	return t, nil
}
