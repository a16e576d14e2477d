package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLZ4Compressor_RoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("hello world, this compresses well. "), 200)

	c := NewLZ4Compressor()

	compressed, err := c.Compress(data)
	require.NoError(t, err)
	require.Less(t, len(compressed), len(data))

	out, err := c.Decompress(compressed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestLZ4Compressor_Decompress_SizeMismatch(t *testing.T) {
	data := bytes.Repeat([]byte("a"), 256)

	c := NewLZ4Compressor()
	compressed, err := c.Compress(data)
	require.NoError(t, err)

	_, err = c.Decompress(compressed, len(data)-1)
	require.Error(t, err)
}

func TestNoOpCompressor_RoundTrip(t *testing.T) {
	data := []byte("raw bytes, unchanged")

	c := NewNoOpCompressor()

	compressed, err := c.Compress(data)
	require.NoError(t, err)
	require.Equal(t, data, compressed)

	out, err := c.Decompress(compressed, len(data))
	require.NoError(t, err)
	require.Equal(t, data, out)
}
