package hfcompress

import (
	"bytes"
	"errors"
	"testing"
)

// Fuzz test for compression/decompression
func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte("hello"))
	f.Add([]byte("user_000001"))
	f.Add([]byte("hello世界"))
	f.Add([]byte("🚀rocket"))
	f.Add([]byte(""))
	f.Add([]byte("a"))
	f.Add([]byte("abcdefghijklmnopqrstuvwxyz"))
	f.Add([]byte("tab\there"))
	f.Add([]byte("null\x00byte"))
	f.Add(allBytes())

	f.Fuzz(func(t *testing.T, input []byte) {
		packed, err := Compress(input)
		if err != nil {
			t.Fatalf("compress %q: %v", input, err)
		}
		got, err := Decompress(packed)
		if err != nil {
			t.Fatalf("decompress %q: %v", input, err)
		}
		if !bytes.Equal(input, got) {
			t.Errorf("expected %q, got %q", input, got)
		}
	})
}

// Fuzz test for arbitrary input to the decoder; it must fail cleanly.
func FuzzDecompress(f *testing.F) {
	f.Add(goldenAAAB)
	f.Add(goldenTenA)
	f.Add([]byte{0, 0, 0})
	f.Add([]byte{0x07, 0x00, 0x01, 0x80})
	f.Add([]byte{0x00, 0xFF, 0xFF, 0x00})

	known := []error{ErrMalformedTree, ErrTruncatedStream, ErrInvalidHeader, ErrInvalidCode}

	f.Fuzz(func(t *testing.T, data []byte) {
		out, err := Decompress(data)
		if err != nil {
			for _, k := range known {
				if errors.Is(err, k) {
					return
				}
			}
			t.Fatalf("unexpected error kind: %v", err)
		}

		// Anything that decodes must survive another round trip.
		packed, err := Compress(out)
		if err != nil {
			t.Fatalf("recompress: %v", err)
		}
		again, err := Decompress(packed)
		if err != nil {
			t.Fatalf("decompress recompressed: %v", err)
		}
		if !bytes.Equal(out, again) {
			t.Errorf("recompressed output differs")
		}
	})
}
