package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// ContentKey builds a stable cache key from a namespace and the raw lyrics
// content. Identical input always maps to the same key.
func ContentKey(namespace string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return namespace + ":" + hex.EncodeToString(h.Sum(nil))
}

// ParseMillis reads a playback time in milliseconds from a query value.
// Empty means 0.
func ParseMillis(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", raw, err)
	}
	if ms < 0 {
		return 0, fmt.Errorf("invalid time %q: must not be negative", raw)
	}
	return ms, nil
}
