package archive

import (
	"fmt"

	"github.com/vfarchive/vfa/internal/fphash"
	"github.com/vfarchive/vfa/section"
	"github.com/vfarchive/vfa/vfaerr"
)

// encoded holds the result of running the write-side codec pipeline over a
// plaintext payload.
type encoded struct {
	flags          uint8
	hash           uint32
	rawSize        uint32
	compressedSize uint32
	cryptedSize    uint32
	payload        []byte
}

// encode runs the write-side codec pipeline: optional LZ4 HC compression
// with fallback, then optional AES-256-CBC encryption. wantFlags requests
// which stages to attempt; the returned flags reflect which stages
// actually ran (compression is skipped if it would not shrink the input).
func (a *Archive) encode(data []byte, wantFlags uint8) (encoded, error) {
	hash := fphash.Hash32(data)
	flags := wantFlags &^ section.FlagCompressedLZ4 &^ section.FlagCryptedAES256

	stage := data
	if wantFlags&section.FlagCompressedLZ4 != 0 {
		compressed, err := codecFor(section.FlagCompressedLZ4).Compress(data)
		if err != nil {
			return encoded{}, fmt.Errorf("%w: compress: %w", vfaerr.ErrIO, err)
		}
		if len(compressed) > 0 && len(compressed) < len(data) {
			stage = compressed
			flags |= section.FlagCompressedLZ4
		}
	}
	compressedSize := uint32(len(stage))

	if wantFlags&section.FlagCryptedAES256 != 0 {
		cipher, err := a.cipher()
		if err != nil {
			return encoded{}, err
		}
		stage = cipher.Encrypt(stage)
		flags |= section.FlagCryptedAES256
	}

	return encoded{
		flags:          flags,
		hash:           hash,
		rawSize:        uint32(len(data)),
		compressedSize: compressedSize,
		cryptedSize:    uint32(len(stage)),
		payload:        stage,
	}, nil
}

// decode runs the read-side codec pipeline, the exact inverse of encode:
// decrypt, then decompress, then verify the integrity hash against the
// stored value.
func (a *Archive) decode(entry *section.Entry, payload []byte) ([]byte, error) {
	stage := payload

	if entry.HasFlag(section.FlagCryptedAES256) {
		cipher, err := a.cipher()
		if err != nil {
			return nil, err
		}
		plain, err := cipher.Decrypt(stage)
		if err != nil {
			return nil, err
		}
		stage = plain
	}

	if entry.HasFlag(section.FlagCompressedLZ4) {
		plain, err := codecFor(section.FlagCompressedLZ4).Decompress(stage, int(entry.RawSize))
		if err != nil {
			return nil, err
		}
		stage = plain
	}

	if fphash.Hash32(stage) != entry.Hash {
		return nil, fmt.Errorf("%w: index %d", vfaerr.ErrIntegrity, entry.Index)
	}

	return stage, nil
}
