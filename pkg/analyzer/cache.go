package analyzer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/iiunuii/ccmbar/pkg/logger"
)

var (
	bucketSnapshots = []byte("snapshots") // "latest" -> cachedSnapshot
	keyLatest       = []byte("latest")
)

// DefaultCacheTTL bounds how long a cached snapshot is served.
//
// Toggling a setting makes the host re-invoke the plugin immediately with
// refresh=true; the cache lets that re-render skip a second analyzer scan
// while staying far below the host's own refresh schedule.
const DefaultCacheTTL = 10 * time.Second

// CacheConfig contains snapshot cache configuration.
type CacheConfig struct {
	// Path is the BoltDB file location.
	// Default: ~/.claude-monitor/widget-cache.db.
	Path string

	// TTL is the maximum age of a served snapshot. Zero uses the default;
	// negative disables caching.
	TTL time.Duration
}

// cachedSnapshot is the stored cache record.
type cachedSnapshot struct {
	FetchedAt time.Time `json:"fetchedAt"`
	Snapshot  Snapshot  `json:"snapshot"`
}

// cachingClient wraps a Client with a short-TTL BoltDB cache.
//
// Every cache failure degrades to a direct fetch; the cache can only ever
// save work, never fail a render.
type cachingClient struct {
	inner Client
	path  string
	ttl   time.Duration
	log   logger.Logger
	now   func() time.Time
}

// WithCache wraps a client with snapshot caching.
//
// Parameters:
//   - inner: Client performing real fetches
//   - cfg: Cache configuration (empty fields use defaults)
//   - log: Logger instance
//
// Returns the inner client unchanged when caching is disabled.
func WithCache(inner Client, cfg CacheConfig, log logger.Logger) Client {
	if cfg.TTL < 0 {
		return inner
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultCacheTTL
	}
	if cfg.Path == "" {
		cfg.Path = DefaultCachePath()
	}
	if cfg.Path == "" {
		return inner
	}

	return &cachingClient{
		inner: inner,
		path:  cfg.Path,
		ttl:   cfg.TTL,
		log:   log,
		now:   time.Now,
	}
}

// Fetch implements Client.Fetch.
func (c *cachingClient) Fetch() (*Snapshot, error) {
	db, err := c.open()
	if err != nil {
		c.log.Debug("snapshot cache unavailable", "error", err)
		return c.inner.Fetch()
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			c.log.Warn("failed to close snapshot cache", "error", closeErr)
		}
	}()

	if snapshot, ok := c.load(db); ok {
		c.log.Debug("serving cached snapshot")
		return snapshot, nil
	}

	snapshot, err := c.inner.Fetch()
	if err != nil {
		return nil, err
	}

	c.store(db, snapshot)
	return snapshot, nil
}

// open opens the cache database, creating the directory on first use.
//
// A short open timeout keeps a concurrent invocation holding the file lock
// from stalling this render.
func (c *cachingClient) open() (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bolt.Open(c.path, 0600, &bolt.Options{Timeout: 500 * time.Millisecond})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	return db, nil
}

// load returns the cached snapshot when present and fresh.
func (c *cachingClient) load(db *bolt.DB) (*Snapshot, bool) {
	var cached cachedSnapshot
	found := false

	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSnapshots)
		if b == nil {
			return nil
		}
		data := b.Get(keyLatest)
		if data == nil {
			return nil
		}
		if unmarshalErr := json.Unmarshal(data, &cached); unmarshalErr != nil {
			return fmt.Errorf("failed to unmarshal cached snapshot: %w", unmarshalErr)
		}
		found = true
		return nil
	})
	if err != nil {
		c.log.Debug("snapshot cache read failed", "error", err)
		return nil, false
	}

	if !found || c.now().Sub(cached.FetchedAt) > c.ttl {
		return nil, false
	}
	return &cached.Snapshot, true
}

// store writes a fresh snapshot to the cache, best effort.
func (c *cachingClient) store(db *bolt.DB, snapshot *Snapshot) {
	err := db.Update(func(tx *bolt.Tx) error {
		b, createErr := tx.CreateBucketIfNotExists(bucketSnapshots)
		if createErr != nil {
			return fmt.Errorf("failed to create snapshots bucket: %w", createErr)
		}

		data, marshalErr := json.Marshal(cachedSnapshot{
			FetchedAt: c.now(),
			Snapshot:  *snapshot,
		})
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal snapshot: %w", marshalErr)
		}

		return b.Put(keyLatest, data)
	})
	if err != nil {
		c.log.Debug("snapshot cache write failed", "error", err)
	}
}

// DefaultCachePath returns the standard cache database location.
func DefaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".claude-monitor", "widget-cache.db")
}
