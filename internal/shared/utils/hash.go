package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash returns the hex SHA-256 of data
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ETag returns a strong entity tag for binary content such as the wallpaper
func ETag(data []byte) string {
	h := ContentHash(data)
	return `"` + h[:16] + `"`
}
