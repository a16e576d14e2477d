package crypt

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func testKey() []byte {
	key := make([]byte, KeySize)
	key[KeySize-1] = 0x01
	return key
}

func TestCipher_EncryptDecrypt_RoundTrip(t *testing.T) {
	c, err := New(testKey())
	require.NoError(t, err)

	for _, n := range []int{0, 1, 15, 16, 17, 1024} {
		plaintext := bytes.Repeat([]byte{0xAB}, n)

		ciphertext := c.Encrypt(plaintext)
		require.Zero(t, len(ciphertext)%blockSize)

		decrypted, err := c.Decrypt(ciphertext)
		require.NoError(t, err)
		require.Equal(t, plaintext, decrypted)
	}
}

func TestCipher_UsesFixedIV(t *testing.T) {
	c, err := New(testKey())
	require.NoError(t, err)

	plaintext := []byte("same plaintext every time")
	require.Equal(t, c.Encrypt(plaintext), c.Encrypt(plaintext))
}

func TestNew_RejectsWrongKeySize(t *testing.T) {
	_, err := New(make([]byte, 16))
	require.Error(t, err)
}

func TestCipher_Decrypt_RejectsBadLength(t *testing.T) {
	c, err := New(testKey())
	require.NoError(t, err)

	_, err = c.Decrypt([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestIV_MatchesFixedHexString(t *testing.T) {
	require.Equal(t, []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F}, IV)
}
