// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package htmlcache is a flat on-disk cache for page-derived results.
// One JSON file per URL, named by the URL's content hash, holding a
// timestamp and an arbitrary JSON payload. Expiry is lazy: a record
// older than the TTL reads as a miss. There is no size bound and no
// invalidation beyond TTL. Concurrent writers to the same key race
// last-write-wins, which is acceptable because entries are idempotent
// re-derivations of the same URL.
package htmlcache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// now is a package var so tests can control expiry.
var now = time.Now

// entry is the on-disk record shape.
type entry struct {
	Timestamp int64           `json:"timestamp"`
	URL       string          `json:"url"`
	Data      json.RawMessage `json:"data"`
}

// Cache reads and writes TTL-keyed records under a directory.
type Cache struct {
	Dir string
	TTL time.Duration
}

// New returns a cache rooted at dir with the given TTL. A zero or
// negative TTL disables reads (every lookup misses).
func New(dir string, ttl time.Duration) *Cache {
	return &Cache{Dir: dir, TTL: ttl}
}

// path returns the cache file path for a URL.
func (c *Cache) path(url string) string {
	h := sha256.Sum256([]byte(url))
	return filepath.Join(c.Dir, fmt.Sprintf("%x.json", h[:16]))
}

// Get unmarshals the cached payload for url into out and reports
// whether it was a hit. Missing, unreadable, corrupt, or expired
// records are all misses.
func (c *Cache) Get(url string, out any) bool {
	if c == nil || c.Dir == "" || c.TTL <= 0 {
		return false
	}

	data, err := os.ReadFile(c.path(url))
	if err != nil {
		return false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return false
	}

	if now().Unix()-e.Timestamp > int64(c.TTL.Seconds()) {
		return false
	}

	return json.Unmarshal(e.Data, out) == nil
}

// Put stores the payload for url. Write failures are returned but
// callers treat them as non-fatal: the cache is an optimization, not a
// source of truth.
func (c *Cache) Put(url string, data any) error {
	if c == nil || c.Dir == "" {
		return nil
	}

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling cache payload: %w", err)
	}

	e := entry{
		Timestamp: now().Unix(),
		URL:       url,
		Data:      raw,
	}
	out, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}

	return os.WriteFile(c.path(url), out, 0o644)
}
