package tree_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/seiflotfy/hfcompress/bitstream"
	"github.com/seiflotfy/hfcompress/tree"
)

func serialize(t *testing.T, tr *tree.Tree) ([]byte, int) {
	t.Helper()
	var buf bytes.Buffer
	w := bitstream.NewWriter(&buf)
	n, err := tr.Serialize(w)
	require.NoError(t, err)
	_, err = w.Close()
	require.NoError(t, err)
	return buf.Bytes(), n
}

func TestSerializeLayout(t *testing.T) {
	tr, err := tree.Build(countsOf("aaab"))
	require.NoError(t, err)

	// 0 | 1 01100010 | 1 01100001, then five bits of padding.
	data, n := serialize(t, tr)
	require.Equal(t, 19, n)
	require.Equal(t, tr.SerializedSize(), n)
	require.Equal(t, []byte{0x58, 0xAC, 0x20}, data)
}

func TestSerializeSingleLeaf(t *testing.T) {
	tr, err := tree.Build(countsOf("a"))
	require.NoError(t, err)

	data, n := serialize(t, tr)
	require.Equal(t, 9, n)
	require.Equal(t, []byte{0xB0, 0x80}, data)
}

func TestSerializeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 50; i++ {
		tr, err := tree.Build(randomCounts(rng))
		require.NoError(t, err)

		data, n := serialize(t, tr)
		r := bitstream.NewReader(data)
		r.Limit(int64(n))
		got, err := tree.Deserialize(r)
		require.NoError(t, err)
		require.Equal(t, int64(n), r.Offset())
		require.True(t, tr.Equal(got))
		require.Equal(t, tr.Leaves(), got.Leaves())
		require.Equal(t, tr.Codes().Lengths(), got.Codes().Lengths())
	}
}

func TestSerializeRoundTripDeepTree(t *testing.T) {
	tr, err := tree.Build(fibonacciCounts(80))
	require.NoError(t, err)

	data, n := serialize(t, tr)
	got, err := tree.Deserialize(bitstream.NewReader(data))
	require.NoError(t, err)
	require.True(t, tr.Equal(got))
	require.Equal(t, tr.SerializedSize(), n)
}

func TestDeserializeEveryPrefixFails(t *testing.T) {
	tr, err := tree.Build(countsOf("the quick brown fox"))
	require.NoError(t, err)
	data, n := serialize(t, tr)

	for cut := 0; cut < n; cut++ {
		r := bitstream.NewReader(data)
		r.Limit(int64(cut))
		_, err := tree.Deserialize(r)
		require.ErrorIs(t, err, tree.ErrMalformed, "cut at bit %d", cut)
	}
}

func TestDeserializeTooDeep(t *testing.T) {
	zeros := make([]byte, 64)
	_, err := tree.Deserialize(bitstream.NewReader(zeros))
	require.ErrorIs(t, err, tree.ErrMalformed)
	require.Contains(t, err.Error(), "deeper")
}

func TestDeserializeEmpty(t *testing.T) {
	_, err := tree.Deserialize(bitstream.NewReader(nil))
	require.ErrorIs(t, err, tree.ErrMalformed)
}

func TestEqual(t *testing.T) {
	a, err := tree.Build(countsOf("aaab"))
	require.NoError(t, err)
	b, err := tree.Build(countsOf("abbb"))
	require.NoError(t, err)
	c, err := tree.Build(countsOf("aabbbb"))
	require.NoError(t, err)

	require.True(t, a.Equal(a))
	require.False(t, a.Equal(b))
	require.True(t, b.Equal(c))
}
