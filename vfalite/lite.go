//go:build vfa_lite

// Package vfalite supplies the compile-time constants a "lite" build
// substitutes for the per-job AES key an ordinary build reads from the job
// list, plus a startup tamper check: the constants' own xxHash32 values
// are compared against expected hashes embedded at build time, and the
// process exits (silently, with status 0) on mismatch.
package vfalite

import (
	"os"

	"github.com/vfarchive/vfa/endian"
	"github.com/vfarchive/vfa/internal/fphash"
	"github.com/vfarchive/vfa/section"
)

// Key is the built-in 32-byte AES key a lite build uses in place of a
// per-job key from the job list.
var Key = []byte{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01,
}

const (
	expectedKeyHash   uint32 = 0xD4E79439
	expectedMagicHash uint32 = 0x35579559
	expectedIVHash    uint32 = 0x672376E9

	ivString = "000102030405060708090A0B0C0D0E0F"
)

// Enabled reports whether this build was compiled with the vfa_lite tag.
const Enabled = true

// CheckTamper verifies that Key, the archive magic, and the fixed IV
// string have not been altered since this binary was built, by comparing
// their xxHash32 fingerprints against the expected build-time values. A
// mismatch means the binary (or its source) has been tampered with; this
// fails silently with a clean exit rather than a diagnostic, so as not to
// help an attacker locate the check.
func CheckTamper() {
	if fphash.Hash32(Key) != expectedKeyHash {
		os.Exit(0)
	}

	magicBytes := make([]byte, 4)
	endian.Engine.PutUint32(magicBytes, section.Magic)
	if fphash.Hash32(magicBytes) != expectedMagicHash {
		os.Exit(0)
	}

	if fphash.Hash32([]byte(ivString)) != expectedIVHash {
		os.Exit(0)
	}
}
