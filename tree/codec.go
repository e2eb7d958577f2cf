package tree

import (
	"errors"
	"fmt"
)

// ErrMalformed is returned when a serialized tree cannot be decoded.
var ErrMalformed = errors.New("tree: malformed serialized tree")

// BitWriter is the sink a tree serializes into.
type BitWriter interface {
	WriteBit(bit bool) error
	WriteBits(v uint64, n uint8) error
}

// BitReader is the source a tree deserializes from. Reads past the end of
// the available bits must fail.
type BitReader interface {
	ReadBit() (bool, error)
	ReadBits(n uint8) (uint64, error)
}

// SerializedSize returns the number of bits Serialize emits: one control bit
// per node plus eight symbol bits per leaf.
func (t *Tree) SerializedSize() int {
	return len(t.nodes) + 8*t.leaves
}

// Serialize writes the tree in pre-order. An internal node is a 0 bit
// followed by its left and right subtrees; a leaf is a 1 bit followed by its
// symbol, most significant bit first. It returns the number of bits written.
func (t *Tree) Serialize(w BitWriter) (int, error) {
	bits := 0
	var walk func(id NodeID) error
	walk = func(id NodeID) error {
		n := t.nodes[id]
		if n.leaf() {
			if err := w.WriteBit(true); err != nil {
				return err
			}
			if err := w.WriteBits(uint64(n.symbol), 8); err != nil {
				return err
			}
			bits += 9
			return nil
		}
		if err := w.WriteBit(false); err != nil {
			return err
		}
		bits++
		if err := walk(n.left); err != nil {
			return err
		}
		return walk(n.right)
	}
	err := walk(t.root)
	return bits, err
}

// Deserialize reads a tree written by Serialize. It stops right after the
// last leaf of the tree; the caller checks that this matches the expected
// size.
func Deserialize(r BitReader) (*Tree, error) {
	d := deserializer{r: r, t: &Tree{root: None}}
	root, err := d.node(0)
	if err != nil {
		return nil, err
	}
	d.t.root = root
	return d.t, nil
}

type deserializer struct {
	r BitReader
	t *Tree
}

func (d *deserializer) node(depth int) (NodeID, error) {
	if depth > maxDepth {
		return None, fmt.Errorf("%w: nested deeper than %d levels", ErrMalformed, maxDepth)
	}
	leaf, err := d.r.ReadBit()
	if err != nil {
		return None, fmt.Errorf("%w: missing control bit at depth %d: %v", ErrMalformed, depth, err)
	}

	if leaf {
		if d.t.leaves == maxLeaves {
			return None, fmt.Errorf("%w: more than %d leaves", ErrMalformed, maxLeaves)
		}
		v, err := d.r.ReadBits(8)
		if err != nil {
			return None, fmt.Errorf("%w: short leaf payload at depth %d: %v", ErrMalformed, depth, err)
		}
		d.t.leaves++
		return d.t.add(node{left: None, right: None, symbol: Symbol(v)}), nil
	}

	// Children are attached once both subtrees are known.
	id := d.t.add(node{left: None, right: None})
	left, err := d.node(depth + 1)
	if err != nil {
		return None, err
	}
	right, err := d.node(depth + 1)
	if err != nil {
		return None, err
	}
	d.t.nodes[id].left = left
	d.t.nodes[id].right = right
	return id, nil
}
