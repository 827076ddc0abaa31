package github

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Cache stores fetched API payloads as JSON files with a freshness window.
type Cache struct {
	Dir string
	TTL time.Duration

	now func() time.Time
}

// cacheEnvelope wraps cached data with its write time.
type cacheEnvelope struct {
	CachedAt int64           `json:"cached_at"`
	Data     json.RawMessage `json:"data"`
}

// NewCache creates a file cache rooted at dir.
func NewCache(dir string, ttl time.Duration) *Cache {
	return &Cache{Dir: dir, TTL: ttl, now: time.Now}
}

func (c *Cache) path(name string) string {
	return filepath.Join(c.Dir, name+".json")
}

// Load reads a cached entry into out. It reports false when the entry is
// missing, expired, or unreadable.
func (c *Cache) Load(name string, out any) bool {
	data, err := os.ReadFile(c.path(name))
	if err != nil {
		return false
	}

	var env cacheEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return false
	}

	age := c.now().Sub(time.Unix(env.CachedAt, 0))
	if c.TTL > 0 && age > c.TTL {
		return false
	}

	return json.Unmarshal(env.Data, out) == nil
}

// Store writes a cache entry. Failures are silent: the cache is an
// optimization, not a source of truth.
func (c *Cache) Store(name string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	env := cacheEnvelope{CachedAt: c.now().Unix(), Data: raw}
	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return
	}
	os.WriteFile(c.path(name), out, 0644)
}

// Clear removes every cache entry under the cache directory.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(c.Dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
