package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// ShortLen is the number of hex characters kept by Short.
const ShortLen = 12

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// Prefix returns the first prefixLen characters of SHA256Hex(input), or the
// whole hash when prefixLen is larger.
func Prefix(input string, prefixLen int) string {
	full := SHA256Hex(input)
	if prefixLen < 0 || prefixLen > len(full) {
		return full
	}
	return full[:prefixLen]
}

// Short returns a short irreversible tag for input, used to correlate client
// addresses in logs and rate-limit keys without storing them.
func Short(input string) string {
	return Prefix(input, ShortLen)
}
