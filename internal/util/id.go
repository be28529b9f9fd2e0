package util

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

func NewID(prefix string) string {
	bytes := make([]byte, 16)
	_, _ = rand.Read(bytes)
	if prefix == "" {
		return hex.EncodeToString(bytes)
	}
	return prefix + "_" + hex.EncodeToString(bytes)
}

// NumericID returns a millisecond-timestamp identifier as a string.
// Collisions are possible within the same millisecond; records that need
// stronger uniqueness use NewID instead.
func NumericID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}
