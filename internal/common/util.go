package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString hex-encodes size random bytes, so the returned string
// has 2*size characters.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray zeros the slice in place. Used to clear password buffers
// once they are no longer needed. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
