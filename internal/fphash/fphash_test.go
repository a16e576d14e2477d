package fphash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndex_NormalizesSeparatorsAndCase(t *testing.T) {
	a := Index("Textures\\Wall.PNG")
	b := Index("textures/wall.png")

	require.Equal(t, b, a)
}

func TestIndex_Deterministic(t *testing.T) {
	require.Equal(t, Index("a/b/c"), Index("a/b/c"))
}

func TestHash32_Deterministic(t *testing.T) {
	data := []byte("the quick brown fox")
	require.Equal(t, Hash32(data), Hash32(data))
}

func TestHash32_DiffersOnTamper(t *testing.T) {
	data := []byte("the quick brown fox")
	tampered := append([]byte(nil), data...)
	tampered[0] ^= 0xff

	require.NotEqual(t, Hash32(data), Hash32(tampered))
}
