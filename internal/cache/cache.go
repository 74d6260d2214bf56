// Package cache stores parsed source results so repeated analyses over years
// of logs skip reparsing. Keys are derived from source content, so an edited
// log file naturally misses and is reparsed.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the storage contract shared by the memory, disk, and layered
// implementations.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a cache key from a source reference and its raw content.
func Key(ref string, content []byte) string {
	h := sha256.New()
	h.Write([]byte(ref))
	h.Write([]byte{0})
	h.Write(content)
	return "doselog:v1:" + hex.EncodeToString(h.Sum(nil))
}
