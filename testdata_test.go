package hfcompress

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestAllTestdataFiles tests compression and decompression on all files in testdata/
func TestAllTestdataFiles(t *testing.T) {
	testdataDir := "testdata"

	files, err := os.ReadDir(testdataDir)
	require.NoError(t, err)

	d, err := NewDecoder(WithTreeCache(4))
	require.NoError(t, err)

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		filename := file.Name()
		t.Run(filename, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(testdataDir, filename))
			require.NoError(t, err)

			a, err := NewEncoder().Encode(data)
			require.NoError(t, err)
			packed, err := a.MarshalBinary()
			require.NoError(t, err)

			var restored Archive
			require.NoError(t, restored.UnmarshalBinary(packed))
			got, err := d.Decode(&restored)
			require.NoError(t, err)
			require.True(t, bytes.Equal(data, got), "content mismatch")

			if len(data) > 0 {
				freq := CountFrequencies(data)
				t.Logf("%s: %d -> %d bytes (%.2fx), %d symbols, tree %d bits",
					filename, len(data), len(packed), float64(len(data))/float64(len(packed)),
					freq.Symbols(), a.TreeSize)
			}
		})
	}
}
