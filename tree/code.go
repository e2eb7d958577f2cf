package tree

import "strings"

const maxCodeBits = 256

// Code is the path from the root to a leaf. Bit i is the branch taken at
// depth i: 0 for left, 1 for right. Bits are stored MSB-first in words.
type Code struct {
	words [maxCodeBits / 64]uint64
	n     int
}

// Len returns the number of bits in the code.
func (c Code) Len() int { return c.n }

// Bit returns bit i of the code as 0 or 1.
func (c Code) Bit(i int) uint8 {
	return uint8(c.words[i/64]>>(63-uint(i%64))) & 1
}

func (c Code) append(bit uint8) Code {
	if bit != 0 {
		c.words[c.n/64] |= 1 << (63 - uint(c.n%64))
	}
	c.n++
	return c
}

// Chunks returns the number of chunks needed to emit the code.
func (c Code) Chunks() int { return (c.n + 63) / 64 }

// Chunk returns up to 64 bits of the code starting at bit 64*k, right
// aligned in v, together with their count.
func (c Code) Chunk(k int) (v uint64, n uint8) {
	rest := c.n - 64*k
	if rest > 64 {
		rest = 64
	}
	return c.words[k] >> (64 - uint(rest)), uint8(rest)
}

// HasPrefix reports whether p is a prefix of c.
func (c Code) HasPrefix(p Code) bool {
	if p.n > c.n {
		return false
	}
	for i := 0; i < p.n; i++ {
		if c.Bit(i) != p.Bit(i) {
			return false
		}
	}
	return true
}

func (c Code) String() string {
	var sb strings.Builder
	sb.Grow(c.n)
	for i := 0; i < c.n; i++ {
		sb.WriteByte('0' + c.Bit(i))
	}
	return sb.String()
}

// SingleSymbolCode is the code of the only symbol of a one-leaf tree.
var SingleSymbolCode = Code{}.append(1)

// CodeTable maps every symbol of a tree to its code.
type CodeTable struct {
	codes   [256]Code
	present [256]bool
	size    int
}

func (ct *CodeTable) set(s Symbol, c Code) {
	if !ct.present[s] {
		ct.size++
	}
	ct.codes[s] = c
	ct.present[s] = true
}

// Lookup returns the code of s and whether s has one.
func (ct *CodeTable) Lookup(s Symbol) (Code, bool) {
	return ct.codes[s], ct.present[s]
}

// Len returns the number of symbols with a code.
func (ct *CodeTable) Len() int { return ct.size }

// Lengths returns the code length of every symbol, 0 for absent ones.
func (ct *CodeTable) Lengths() [256]int {
	var out [256]int
	for s := range ct.codes {
		if ct.present[s] {
			out[s] = ct.codes[s].n
		}
	}
	return out
}

// Codes walks the tree and assigns every leaf the path leading to it.
//
// A tree whose root is a leaf has no paths; its only symbol gets the
// reserved single-bit code 1, never 0, so its stream cannot be mistaken for
// padding.
func (t *Tree) Codes() *CodeTable {
	ct := &CodeTable{}
	if t.IsLeaf(t.root) {
		ct.set(t.Symbol(t.root), SingleSymbolCode)
		return ct
	}

	var walk func(id NodeID, path Code)
	walk = func(id NodeID, path Code) {
		n := t.nodes[id]
		if n.leaf() {
			ct.set(n.symbol, path)
			return
		}
		walk(n.left, path.append(0))
		walk(n.right, path.append(1))
	}
	walk(t.root, Code{})
	return ct
}
