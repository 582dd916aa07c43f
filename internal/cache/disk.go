package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
)

// DiskCache stores one JSON file per entry under <dir>/<namespace>/ so
// responses survive between runs
type DiskCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewDiskCache creates a disk cache rooted at dir
func NewDiskCache(dir string, ttl time.Duration) *DiskCache {
	return &DiskCache{dir: dir, ttl: ttl, now: time.Now}
}

type diskEntry struct {
	Key       string    `json:"key"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Data      []byte    `json:"data"`
}

// Get returns the entry for key. Expired or unreadable entries are removed.
func (c *DiskCache) Get(key string) ([]byte, bool) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry diskEntry
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Key != key || c.now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false
	}
	return entry.Data, true
}

// Set writes the entry atomically; a zero ttl uses the cache default
func (c *DiskCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}
	now := c.now()
	raw, err := json.Marshal(diskEntry{Key: key, StoredAt: now, ExpiresAt: now.Add(ttl), Data: value})
	if err != nil {
		return eris.Wrap(err, "cache: marshal entry")
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "cache: create dir")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return eris.Wrap(err, "cache: write file")
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return eris.Wrap(err, "cache: rename file")
	}
	return nil
}

// Delete removes key. A missing entry is not an error.
func (c *DiskCache) Delete(key string) error {
	if err := os.Remove(c.path(key)); err != nil && !os.IsNotExist(err) {
		return eris.Wrap(err, "cache: delete")
	}
	return nil
}

// Purge removes the namespace directory
func (c *DiskCache) Purge(namespace string) error {
	if namespace == "" || namespace != filepath.Base(namespace) {
		return eris.Errorf("cache: invalid namespace %q", namespace)
	}
	return eris.Wrap(os.RemoveAll(filepath.Join(c.dir, namespace)), "cache: purge")
}

// Clear removes the whole cache directory
func (c *DiskCache) Clear() error {
	return eris.Wrap(os.RemoveAll(c.dir), "cache: clear")
}

// path maps a key to <dir>/<namespace>/<hash>.json; keys not built by Key
// land in <dir>/misc under a hash of the whole key
func (c *DiskCache) path(key string) string {
	namespace, hash, ok := Split(key)
	if !ok || namespace != filepath.Base(namespace) {
		namespace, hash, _ = Split(Key("misc", key))
	}
	return filepath.Join(c.dir, namespace, hash+".json")
}
