// Package cache stores raw news API bodies and LLM replies between requests
// and, with a disk layer, between runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

const keyPrefix = "newslens:v1:"

// Namespaces in use
const (
	NamespaceNews = "news"
	NamespaceLLM  = "llm"
)

// Cache holds opaque byte values under keys built by Key
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	// Purge removes every entry of one namespace
	Purge(namespace string) error
	Clear() error
}

// Key builds "newslens:v1:<namespace>:<sha256 of parts>". Parts are
// separated by NUL so moving a boundary changes the key.
func Key(namespace string, parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return keyPrefix + namespace + ":" + hex.EncodeToString(hash[:])
}

// Split returns the namespace and hash of a key built by Key
func Split(key string) (namespace, hash string, ok bool) {
	rest, found := strings.CutPrefix(key, keyPrefix)
	if !found {
		return "", "", false
	}
	namespace, hash, ok = strings.Cut(rest, ":")
	return namespace, hash, ok && namespace != "" && hash != ""
}

// New returns a memory cache in front of a disk cache in dir, or a
// memory-only cache when dir is empty
func New(dir string, ttl time.Duration) Cache {
	memory := NewMemoryCache(ttl, 10*time.Minute)
	if dir == "" {
		return memory
	}
	return NewLayeredCache(memory, NewDiskCache(dir, ttl))
}
