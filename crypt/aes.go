// Package crypt implements the AES-256-CBC encryption stage of the per-entry
// codec pipeline, using a fixed 16-byte IV shared by every archive.
//
// No third-party AES implementation appears anywhere in the retrieved
// example pack; crypto/aes and crypto/cipher are the standard library's own
// constant-time AES-256-CBC primitives and are used here directly rather
// than reimplementing block cipher chaining by hand.
package crypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"fmt"

	"github.com/vfarchive/vfa/vfaerr"
)

// KeySize is the length in bytes of an archive's AES-256 key.
const KeySize = 32

const blockSize = aes.BlockSize

// ivHex is the fixed 16-byte initialization vector shared by every archive,
// independent of the per-archive key.
const ivHex = "000102030405060708090A0B0C0D0E0F"

// IV is the archive format's fixed CBC initialization vector.
var IV = mustDecodeHex(ivHex)

func mustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Cipher encrypts and decrypts entry payloads with AES-256-CBC under a
// single 32-byte key and the archive format's fixed IV.
type Cipher struct {
	block cipher.Block
}

// New builds a Cipher from a 32-byte AES-256 key.
func New(key []byte) (Cipher, error) {
	if len(key) != KeySize {
		return Cipher{}, fmt.Errorf("%w: aes key must be %d bytes, got %d", vfaerr.ErrConfig, KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return Cipher{}, fmt.Errorf("crypt: %w", err)
	}

	return Cipher{block: block}, nil
}

// Encrypt pads plaintext with PKCS#7 padding to a multiple of the AES block
// size and encrypts it with CBC mode under the fixed IV. The returned
// slice's length is always a multiple of 16.
func (c Cipher) Encrypt(plaintext []byte) []byte {
	padded := pkcs7Pad(plaintext, blockSize)
	ciphertext := make([]byte, len(padded))

	mode := cipher.NewCBCEncrypter(c.block, IV)
	mode.CryptBlocks(ciphertext, padded)

	return ciphertext
}

// Decrypt reverses Encrypt: it CBC-decrypts ciphertext under the fixed IV
// and strips PKCS#7 padding. ciphertext's length must be a non-zero
// multiple of 16.
func (c Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%blockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a multiple of the block size", vfaerr.ErrIntegrity, len(ciphertext))
	}

	padded := make([]byte, len(ciphertext))
	mode := cipher.NewCBCDecrypter(c.block, IV)
	mode.CryptBlocks(padded, ciphertext)

	return pkcs7Unpad(padded)
}

func pkcs7Pad(data []byte, size int) []byte {
	padLen := size - len(data)%size
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	n := len(data)
	if n == 0 {
		return nil, fmt.Errorf("%w: empty padded buffer", vfaerr.ErrIntegrity)
	}

	padLen := int(data[n-1])
	if padLen == 0 || padLen > blockSize || padLen > n {
		return nil, fmt.Errorf("%w: invalid padding length %d", vfaerr.ErrIntegrity, padLen)
	}
	if !bytes.Equal(data[n-padLen:], bytes.Repeat([]byte{byte(padLen)}, padLen)) {
		return nil, fmt.Errorf("%w: malformed padding", vfaerr.ErrIntegrity)
	}

	return data[:n-padLen], nil
}
