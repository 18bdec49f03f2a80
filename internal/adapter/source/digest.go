package source

import (
	"crypto/md5"
	"encoding/hex"
)

// Digest returns the content identity of text as 32 lowercase hex digits.
// It is a cache key, not a security primitive.
func Digest(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
