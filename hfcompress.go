// Package hfcompress implements a lossless byte compressor based on static
// Huffman coding. A compressed file carries its own code tree, so it can be
// decoded without any side information.
package hfcompress

import (
	"errors"

	"github.com/op/go-logging"

	"github.com/seiflotfy/hfcompress/tree"
)

const logModule = "hfcompress"

var log = logging.MustGetLogger(logModule)

// The default go-logging backend prints every level. Library debug output
// stays off until a program installs its own backend.
func init() {
	logging.SetLevel(logging.WARNING, logModule)
}

// Config holds configuration shared by Encoder and Decoder.
type Config struct {
	TreeCacheSize int             // Decoded trees kept by a Decoder (0 = no cache)
	Logger        *logging.Logger // Logger for debug output (nil = package logger)
}

// Option is a functional option for configuring encoders and decoders.
type Option func(*Config)

// WithTreeCache keeps up to n decoded trees in a Decoder, keyed by their
// serialized form. Archives produced from inputs with the same symbol
// statistics then skip tree reconstruction. n <= 0 disables the cache.
func WithTreeCache(n int) Option {
	return func(c *Config) {
		c.TreeCacheSize = n
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *logging.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

func newConfig(opts []Option) Config {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = log
	}
	return cfg
}

var (
	// ErrMalformedTree indicates the serialized tree is truncated or invalid.
	ErrMalformedTree = tree.ErrMalformed
	// ErrTruncatedStream indicates the code stream does not end on a symbol
	// boundary, or the file is shorter than its header claims.
	ErrTruncatedStream = errors.New("hfcompress: truncated stream")
	// ErrInvalidHeader indicates a header field outside its valid range.
	ErrInvalidHeader = errors.New("hfcompress: invalid header")
	// ErrInvalidCode indicates a bit sequence that leads nowhere in the tree.
	ErrInvalidCode = errors.New("hfcompress: invalid code")
	// ErrUnknownSymbol indicates input containing a byte the model has no code for.
	ErrUnknownSymbol = errors.New("hfcompress: symbol not in model")
)

// Encoder builds a Huffman code for each input and compresses with it.
type Encoder struct {
	config Config
}

// NewEncoder creates a new encoder with the given options.
func NewEncoder(opts ...Option) *Encoder {
	return &Encoder{config: newConfig(opts)}
}

// Encode compresses data into an Archive. Empty input yields an empty
// Archive whose serialized form is the bare header.
func (e *Encoder) Encode(data []byte) (*Archive, error) {
	a, _, err := e.EncodeModel(data)
	return a, err
}

// EncodeModel is like Encode but also returns the model trained on data.
// The model is nil for empty input.
func (e *Encoder) EncodeModel(data []byte) (*Archive, *Model, error) {
	if len(data) == 0 {
		return &Archive{}, nil, nil
	}

	m, err := TrainModel(data)
	if err != nil {
		return nil, nil, err
	}
	a, err := m.Encode(data)
	if err != nil {
		return nil, nil, err
	}
	e.config.Logger.Debugf("encoded %d bytes: %d symbols, tree %d bits, codes %d bits, padding %d",
		len(data), m.tree.Leaves(), a.TreeSize, a.CodeBits(), a.Padding)
	return a, m, nil
}

// Compress encodes data and returns the serialized archive.
func Compress(data []byte) ([]byte, error) {
	a, err := NewEncoder().Encode(data)
	if err != nil {
		return nil, err
	}
	return a.MarshalBinary()
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	var a Archive
	if err := a.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	d, err := NewDecoder()
	if err != nil {
		return nil, err
	}
	return d.Decode(&a)
}
