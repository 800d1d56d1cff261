package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the hex encoded sha256 digest of text.
func SHA256Hex(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// HashKey builds a cache key of the form "<prefix>:<sha256(content)>".
func HashKey(prefix, content string) string {
	return prefix + ":" + SHA256Hex(content)
}
