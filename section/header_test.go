package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vfarchive/vfa/vfaerr"
)

func TestHeader_BytesAndParse(t *testing.T) {
	original := Header{Magic: Magic, BytesPerBlock: 4096, FirstEntry: 4096}

	data := original.Bytes()
	require.Len(t, data, HeaderSize)

	var parsed Header
	require.NoError(t, parsed.Parse(data))
	require.Equal(t, original, parsed)
}

func TestHeader_Parse_BadMagic(t *testing.T) {
	h := Header{Magic: 0xdeadbeef, BytesPerBlock: 4096, FirstEntry: 4096}

	var parsed Header
	err := parsed.Parse(h.Bytes())

	require.Error(t, err)
	require.ErrorIs(t, err, vfaerr.ErrBadMagic)
}

func TestHeader_Parse_ShortRead(t *testing.T) {
	var parsed Header
	err := parsed.Parse([]byte{1, 2, 3})

	require.Error(t, err)
	require.ErrorIs(t, err, vfaerr.ErrShortRead)
}

func TestAlignUp(t *testing.T) {
	require.Equal(t, uint32(4096), AlignUp(12, 4096))
	require.Equal(t, uint32(4096), AlignUp(4096, 4096))
	require.Equal(t, uint32(8192), AlignUp(4097, 4096))
}
