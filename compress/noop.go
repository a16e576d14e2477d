package compress

// NoOpCompressor is the codec for entries stored raw: Compress and
// Decompress both return their input unchanged.
type NoOpCompressor struct{}

var _ Codec = NoOpCompressor{}

// NewNoOpCompressor returns a NoOpCompressor.
func NewNoOpCompressor() NoOpCompressor { return NoOpCompressor{} }

// Compress returns data unchanged.
func (NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data unchanged. rawSize is ignored; callers are
// expected to have already sized data to rawSize.
func (NoOpCompressor) Decompress(data []byte, rawSize int) ([]byte, error) {
	return data, nil
}
