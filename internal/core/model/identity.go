package model

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
)

const (
	idLength       = 10
	hashPrefixLen  = 40
	fallbackIDSeed = "startup"
)

// DeriveID computes the deterministic startup identifier: the first 10 hex
// characters of the SHA-1 of the name, or of the first 40 characters of
// fallbackText when no name is known. The same resolved input always maps to
// the same id, which keeps index writes idempotent across re-runs.
func DeriveID(name, fallbackText string) string {
	src := strings.TrimSpace(name)
	if src == "" {
		src = fallbackText
		if len(src) > hashPrefixLen {
			src = src[:hashPrefixLen]
		}
	}
	if src == "" {
		src = fallbackIDSeed
	}
	sum := sha1.Sum([]byte(src))
	return hex.EncodeToString(sum[:])[:idLength]
}

// EnsureID assigns the deterministic id if it is still unset. First write
// wins: once the id exists, later calls are no-ops, so any step can safely
// attempt assignment without disturbing an earlier one.
func (p *StartupProfile) EnsureID(fallbackText string) {
	if p.StartupID != "" {
		return
	}
	p.StartupID = DeriveID(p.Name, fallbackText)
}
