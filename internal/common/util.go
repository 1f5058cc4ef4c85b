package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString generates size random bytes and returns them hex-encoded,
// so the resulting string is 2*size characters long.
//
// It returns an error if the random number generator fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateRandByteArray returns n bytes from crypto/rand.
// crypto/rand.Read never returns an error on supported platforms.
func GenerateRandByteArray(n int) []byte {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return b
}

// WipeByteArray overwrites the contents of b with zeros. Nil is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// DefaultMaxUploadBytes is the largest file accepted when nothing else is configured.
const DefaultMaxUploadBytes int64 = 32 << 20

// MaxMessageSize returns the gRPC message limit needed to carry a file of
// maxUploadBytes. Content travels base64-encoded inside a JSON body, so the
// limit is the encoded length plus 64 KiB for the remaining fields.
func MaxMessageSize(maxUploadBytes int64) int {
	return int((maxUploadBytes+2)/3*4) + 64<<10
}
