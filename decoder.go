package hfcompress

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/seiflotfy/hfcompress/bitstream"
	"github.com/seiflotfy/hfcompress/tree"
)

// Decoder restores the original bytes from an Archive.
type Decoder struct {
	config Config
	trees  *lru.Cache[string, *tree.Tree]
}

// NewDecoder creates a new decoder with the given options.
func NewDecoder(opts ...Option) (*Decoder, error) {
	d := &Decoder{config: newConfig(opts)}
	if d.config.TreeCacheSize > 0 {
		cache, err := lru.New[string, *tree.Tree](d.config.TreeCacheSize)
		if err != nil {
			return nil, fmt.Errorf("create tree cache: %w", err)
		}
		d.trees = cache
	}
	return d, nil
}

// CacheLen returns the number of cached trees.
func (d *Decoder) CacheLen() int {
	if d.trees == nil {
		return 0
	}
	return d.trees.Len()
}

// Decode reconstructs the tree stored in a and walks it over the code
// stream, emitting one byte per leaf reached.
func (d *Decoder) Decode(a *Archive) ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("invalid archive: %w", err)
	}
	if a.TreeSize == 0 {
		return []byte{}, nil
	}

	r := bitstream.NewReader(a.Payload)
	t, err := d.readTree(a, r)
	if err != nil {
		return nil, err
	}

	r.Limit(a.Bits())
	out, err := walk(t, r)
	if err != nil {
		return nil, err
	}
	d.config.Logger.Debugf("decoded %d bytes from %d code bits", len(out), a.CodeBits())
	return out, nil
}

// readTree leaves r positioned right after the tree.
func (d *Decoder) readTree(a *Archive, r *bitstream.Reader) (*tree.Tree, error) {
	var key string
	if d.trees != nil {
		key = treeKey(a)
		if t, ok := d.trees.Get(key); ok {
			if err := skip(r, int64(a.TreeSize)); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedTree, err)
			}
			return t, nil
		}
	}

	r.Limit(int64(a.TreeSize))
	t, err := tree.Deserialize(r)
	if err != nil {
		return nil, fmt.Errorf("read tree: %w", err)
	}
	if r.Offset() != int64(a.TreeSize) {
		return nil, fmt.Errorf("read tree: %w: tree ends at bit %d, header says %d",
			ErrMalformedTree, r.Offset(), a.TreeSize)
	}

	if d.trees != nil {
		d.trees.Add(key, t)
	}
	return t, nil
}

// treeKey identifies a serialized tree: its size followed by its bits, with
// the code bits sharing the last byte masked off.
func treeKey(a *Archive) string {
	n := (int(a.TreeSize) + 7) / 8
	key := make([]byte, 2+n)
	key[0] = byte(a.TreeSize >> 8)
	key[1] = byte(a.TreeSize)
	copy(key[2:], a.Payload[:n])
	if rem := a.TreeSize % 8; rem != 0 {
		key[len(key)-1] &^= byte(1)<<(8-rem) - 1
	}
	return string(key)
}

func skip(r *bitstream.Reader, bits int64) error {
	for bits > 0 {
		n := uint8(64)
		if bits < 64 {
			n = uint8(bits)
		}
		if _, err := r.ReadBits(n); err != nil {
			return err
		}
		bits -= int64(n)
	}
	return nil
}

func walk(t *tree.Tree, r *bitstream.Reader) ([]byte, error) {
	root := t.Root()
	out := make([]byte, 0, r.Remaining()/4)

	// A lone leaf has the single-bit code 1.
	if t.IsLeaf(root) {
		sym := t.Symbol(root)
		for r.Remaining() > 0 {
			bit, err := r.ReadBit()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrTruncatedStream, err)
			}
			if !bit {
				return nil, fmt.Errorf("%w: 0 bit at offset %d in single-symbol stream", ErrInvalidCode, r.Offset()-1)
			}
			out = append(out, sym)
		}
		return out, nil
	}

	n := root
	for r.Remaining() > 0 {
		bit, err := r.ReadBit()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTruncatedStream, err)
		}
		n = t.Child(n, bit)
		if t.IsLeaf(n) {
			out = append(out, t.Symbol(n))
			n = root
		}
	}
	if n != root {
		return nil, fmt.Errorf("%w: stream ends inside a code after %d bytes", ErrTruncatedStream, len(out))
	}
	return out, nil
}
