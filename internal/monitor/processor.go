package monitor

import (
	"crypto/sha256"
	"fmt"
)

// FingerprintText returns the hex-encoded SHA-256 digest of the UTF-8
// encoding of text. The digest is the sole basis for change detection, so
// it must be stable across processes and time.
func FingerprintText(text string) string {
	hash := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%x", hash)
}
