package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Cache is a TTL cache for source responses. Entries live in memory and,
// unless MemoryOnly is set, in one JSON file per key under Dir.
type Cache struct {
	dir    string
	ttl    time.Duration
	now    func() time.Time
	mu     sync.RWMutex
	memory map[string]cacheEntry
}

type cacheEntry struct {
	Key       string          `json:"key"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Data      json.RawMessage `json:"data"`
}

// CacheConfig configures the cache behavior.
type CacheConfig struct {
	// Dir is the directory for file-based cache. If empty, uses a temp dir.
	Dir string

	// TTL is the time-to-live for cached entries. Default is 15 minutes.
	TTL time.Duration

	// MemoryOnly disables file-based caching.
	MemoryOnly bool

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// CacheStats provides statistics about cache usage.
type CacheStats struct {
	Dir           string `json:"dir,omitempty"`
	MemoryEntries int    `json:"memoryEntries"`
	FileEntries   int    `json:"fileEntries"`
	TotalSizeKB   int64  `json:"totalSizeKB"`
}

// NewCache creates a new cache with the given configuration.
func NewCache(cfg CacheConfig) (*Cache, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = 15 * time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	dir := cfg.Dir
	if cfg.MemoryOnly {
		dir = ""
	} else if dir == "" {
		dir = filepath.Join(os.TempDir(), "issuefinder-cache")
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	return &Cache{
		dir:    dir,
		ttl:    cfg.TTL,
		now:    cfg.Now,
		memory: make(map[string]cacheEntry),
	}, nil
}

// Get decodes the cached value for key into v. It reports false on a miss,
// an expired entry or a value that no longer decodes.
func (c *Cache) Get(ctx context.Context, key string, v any) bool {
	hash := hashKey(key)
	now := c.now()

	c.mu.RLock()
	entry, ok := c.memory[hash]
	c.mu.RUnlock()

	if !ok || now.After(entry.ExpiresAt) {
		if c.dir == "" {
			return false
		}
		fromFile, err := c.readFile(hash)
		if err != nil || now.After(fromFile.ExpiresAt) {
			return false
		}
		entry = fromFile
		c.mu.Lock()
		c.memory[hash] = entry
		c.mu.Unlock()
	}

	return json.Unmarshal(entry.Data, v) == nil
}

// Set encodes v and stores it under key.
func (c *Cache) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	hash := hashKey(key)
	entry := cacheEntry{Key: key, ExpiresAt: c.now().Add(c.ttl), Data: data}

	c.mu.Lock()
	c.memory[hash] = entry
	c.mu.Unlock()

	if c.dir != "" {
		return c.writeFile(hash, entry)
	}
	return nil
}

// Delete removes a value from the cache.
func (c *Cache) Delete(ctx context.Context, key string) error {
	hash := hashKey(key)

	c.mu.Lock()
	delete(c.memory, hash)
	c.mu.Unlock()

	if c.dir != "" {
		if err := os.Remove(c.path(hash)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Clear removes all entries from the cache.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.memory = make(map[string]cacheEntry)
	c.mu.Unlock()

	return c.eachFile(func(path string, _ os.DirEntry) error {
		return os.Remove(path)
	})
}

// Prune removes expired entries and returns how many were dropped.
func (c *Cache) Prune(ctx context.Context) (int, error) {
	now := c.now()
	pruned := 0

	c.mu.Lock()
	for hash, entry := range c.memory {
		if now.After(entry.ExpiresAt) {
			delete(c.memory, hash)
			pruned++
		}
	}
	c.mu.Unlock()

	err := c.eachFile(func(path string, _ os.DirEntry) error {
		entry, err := c.readPath(path)
		if err != nil || now.After(entry.ExpiresAt) {
			if rmErr := os.Remove(path); rmErr == nil {
				pruned++
			}
		}
		return nil
	})

	return pruned, err
}

// Stats returns cache statistics.
func (c *Cache) Stats(ctx context.Context) CacheStats {
	c.mu.RLock()
	stats := CacheStats{Dir: c.dir, MemoryEntries: len(c.memory)}
	c.mu.RUnlock()

	var total int64
	_ = c.eachFile(func(_ string, d os.DirEntry) error {
		stats.FileEntries++
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	stats.TotalSizeKB = total / 1024

	return stats
}

func (c *Cache) path(hash string) string {
	return filepath.Join(c.dir, hash+".json")
}

func (c *Cache) readFile(hash string) (cacheEntry, error) {
	return c.readPath(c.path(hash))
}

func (c *Cache) readPath(path string) (cacheEntry, error) {
	var entry cacheEntry
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304
	if err != nil {
		return entry, err
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return entry, err
	}
	return entry, nil
}

func (c *Cache) writeFile(hash string, entry cacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.path(hash), data, 0600); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

func (c *Cache) eachFile(fn func(path string, d os.DirEntry) error) error {
	if c.dir == "" {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, d := range entries {
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			continue
		}
		if err := fn(filepath.Join(c.dir, d.Name()), d); err != nil {
			return err
		}
	}
	return nil
}

// hashKey creates a hash of the cache key.
func hashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:16])
}

// WithCache returns the cached value for key, or calls fetch and caches
// its result. Fetch errors are returned as-is and never cached.
func WithCache[T any](ctx context.Context, cache *Cache, key string, fetch func(context.Context) (T, error)) (T, error) {
	var result T
	if cache.Get(ctx, key, &result) {
		return result, nil
	}

	result, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	_ = cache.Set(ctx, key, result)
	return result, nil
}
