package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Keyer derives cache keys.
type Keyer interface {
	// LyricsKey is the key for a lyric lookup. Queries that differ only in
	// case or spacing share a key.
	LyricsKey(query string) string

	// HTTPKey is the key for a raw HTTP response in namespace.
	HTTPKey(namespace, key string) string
}

// DefaultKeyer is the unscoped [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LyricsKey returns "lyrics:" followed by the SHA-256 of the normalized query.
func (DefaultKeyer) LyricsKey(query string) string {
	return "lyrics:" + Hash([]byte(NormalizeQuery(query)))
}

// HTTPKey returns "http:namespace:key".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// NormalizeQuery lowercases q and collapses runs of whitespace.
func NormalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

var _ Keyer = DefaultKeyer{}
