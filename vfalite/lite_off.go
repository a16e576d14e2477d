//go:build !vfa_lite

package vfalite

// Key is nil in an ordinary build: the per-job key always comes from the
// job list instead.
var Key []byte

// Enabled reports whether this build was compiled with the vfa_lite tag.
const Enabled = false

// CheckTamper is a no-op outside a lite build.
func CheckTamper() {}
