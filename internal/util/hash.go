package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashURL derives a stable cache key from a URL.
func HashURL(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}
