package hfcompress

import (
	"bytes"
	"fmt"

	"github.com/seiflotfy/hfcompress/bitstream"
	"github.com/seiflotfy/hfcompress/tree"
)

// Model is a reusable Huffman code built from a frequency table.
type Model struct {
	freq  FrequencyTable
	tree  *tree.Tree
	codes *tree.CodeTable
}

// NewModel builds the tree and code table for freq. At least one symbol
// must have a positive count.
func NewModel(freq FrequencyTable) (*Model, error) {
	t, err := tree.Build(freq)
	if err != nil {
		return nil, fmt.Errorf("build model: %w", err)
	}
	return &Model{freq: freq, tree: t, codes: t.Codes()}, nil
}

// TrainModel builds a model from the byte statistics of sample.
func TrainModel(sample []byte) (*Model, error) {
	return NewModel(CountFrequencies(sample))
}

// Tree returns the model's Huffman tree.
func (m *Model) Tree() *tree.Tree { return m.tree }

// Codes returns the model's code table.
func (m *Model) Codes() *tree.CodeTable { return m.codes }

// Frequencies returns the table the model was built from.
func (m *Model) Frequencies() FrequencyTable { return m.freq }

// EncodedBits returns the number of code bits data would occupy.
func (m *Model) EncodedBits(data []byte) (int64, error) {
	var bits int64
	for i, b := range data {
		code, ok := m.codes.Lookup(b)
		if !ok {
			return 0, fmt.Errorf("%w: 0x%02x at offset %d", ErrUnknownSymbol, b, i)
		}
		bits += int64(code.Len())
	}
	return bits, nil
}

// Encode compresses data with the model's code. Every byte of data must
// have a code, which always holds when the model was trained on data.
func (m *Model) Encode(data []byte) (*Archive, error) {
	treeSize, err := checkTreeSize(m.tree.SerializedSize())
	if err != nil {
		return nil, err
	}
	codeBits, err := m.EncodedBits(data)
	if err != nil {
		return nil, err
	}

	var payload bytes.Buffer
	payload.Grow(int((int64(treeSize) + codeBits + 7) / 8))
	w := bitstream.NewWriter(&payload)

	written, err := m.tree.Serialize(w)
	if err != nil {
		return nil, fmt.Errorf("serialize tree: %w", err)
	}
	if written != int(treeSize) {
		return nil, fmt.Errorf("serialize tree: wrote %d bits, expected %d", written, treeSize)
	}
	for _, b := range data {
		code, _ := m.codes.Lookup(b)
		if err := w.WriteCode(code); err != nil {
			return nil, fmt.Errorf("write codes: %w", err)
		}
	}
	padding, err := w.Close()
	if err != nil {
		return nil, fmt.Errorf("flush payload: %w", err)
	}

	return &Archive{
		Padding:  padding,
		TreeSize: treeSize,
		Payload:  payload.Bytes(),
	}, nil
}
