package compress

import (
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/vfarchive/vfa/vfaerr"
)

// lz4CompressorPool pools lz4.CompressorHC instances; the HC compressor
// keeps internal hash/chain tables that are worth reusing across Write
// calls.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.CompressorHC{Level: lz4.Level9}
	},
}

// LZ4Compressor compresses entry payloads with LZ4 HC at its maximum
// compression level.
type LZ4Compressor struct{}

var _ Codec = LZ4Compressor{}

// NewLZ4Compressor returns an LZ4Compressor.
func NewLZ4Compressor() LZ4Compressor { return LZ4Compressor{} }

// Compress compresses data with LZ4 HC. The returned slice length never
// exceeds CompressBound(len(data)); callers implementing the archive's
// fallback rule should treat a zero-length result, or a result not strictly
// smaller than data, as "compression did not help".
func (LZ4Compressor) Compress(data []byte) ([]byte, error) {
	dst := make([]byte, CompressBound(len(data)))

	c, _ := lz4CompressorPool.Get().(*lz4.CompressorHC)
	defer lz4CompressorPool.Put(c)

	n, err := c.CompressBlock(data, dst)
	if err != nil {
		return nil, err
	}

	return dst[:n], nil
}

// Decompress restores the original rawSize bytes from compressed LZ4 data.
// Returns vfaerr.ErrDecompress if the decompressed length does not equal
// rawSize exactly.
func (LZ4Compressor) Decompress(data []byte, rawSize int) ([]byte, error) {
	dst := make([]byte, rawSize)

	n, err := lz4.UncompressBlock(data, dst)
	if err != nil {
		return nil, err
	}
	if n != rawSize {
		return nil, vfaerr.ErrDecompress
	}

	return dst, nil
}

// CompressBound returns the maximum possible size of compressing n bytes
// with LZ4, used to size the compression destination buffer.
func CompressBound(n int) int {
	return lz4.CompressBlockBound(n)
}
