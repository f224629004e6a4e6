package trackcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"cadence/internal/logging"
)

// sweepEvery is the Set-call stride between full expiry sweeps. The sweep is
// amortized housekeeping; Get-time expiry is the authoritative check.
const sweepEvery = 50

// Entry holds the resolved fields cached for one track identity.
// Timestamp is the epoch second of the last write.
type Entry struct {
	SongName   string `json:"songName"`
	ArtistName string `json:"artistName"`
	ArtworkURL string `json:"artworkUrl,omitempty"`
	ListenURL  string `json:"listenUrl,omitempty"`
	Duration   int    `json:"duration,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

// KeyedEntry pairs an entry with its identity key for listings.
type KeyedEntry struct {
	Key string
	Entry
}

// Cache provides access to the track metadata cache.
type Cache struct {
	path   string
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]Entry
	sets    int
}

// New creates a cache backed by the file at path. If path is empty the cache
// is in-memory only. Existing contents are loaded best-effort; a missing or
// corrupt file starts empty.
func New(path string, ttl time.Duration, logger *slog.Logger) *Cache {
	logger = logging.NewComponentLogger(logger, "trackcache")

	c := &Cache{
		path:    path,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
		entries: make(map[string]Entry),
	}

	if path == "" {
		return c
	}

	if err := c.load(); err != nil {
		logger.Warn("failed to load track cache",
			logging.String(logging.FieldEventType, "trackcache_load_failed"),
			logging.Error(err),
			logging.String(logging.FieldImpact, "previously resolved tracks will be searched again"))
	}

	return c
}

// Get returns the cached entry for key if present and within the TTL.
// Expired entries are evicted on read.
func (c *Cache) Get(key string) (Entry, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Entry{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, found := c.entries[key]
	if !found {
		return Entry{}, false
	}
	if c.expired(entry) {
		delete(c.entries, key)
		return Entry{}, false
	}
	return entry, true
}

// Set stamps the entry with the current time and stores it unconditionally,
// overwriting any previous value. Every sweepEvery-th call also evicts all
// expired entries. Persistence is best-effort; failures are logged and the
// in-memory state stays authoritative for this process.
func (c *Cache) Set(key string, entry Entry) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry.Timestamp = c.now().Unix()
	c.entries[key] = entry

	c.sets++
	if c.sets%sweepEvery == 0 {
		c.sweep()
	}

	c.persist()

	c.logger.Debug("cached track metadata",
		logging.String("key", key),
		logging.String("song", entry.SongName),
		logging.String("artist", entry.ArtistName))
}

// Save flushes the current contents to disk. Used on shutdown; per-Set
// persistence already keeps the file current during normal operation.
func (c *Cache) Save() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.persist()
}

// List returns all live entries sorted by Timestamp descending (newest first).
// Expired entries are skipped.
func (c *Cache) List() []KeyedEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]KeyedEntry, 0, len(c.entries))
	for key, entry := range c.entries {
		if c.expired(entry) {
			continue
		}
		entries = append(entries, KeyedEntry{Key: key, Entry: entry})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Timestamp != entries[j].Timestamp {
			return entries[i].Timestamp > entries[j].Timestamp
		}
		return entries[i].Key < entries[j].Key
	})

	return entries
}

// Clear removes all entries and persists the empty cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)
	c.persist()
	c.logger.Debug("cleared track cache")
}

// Count returns the number of live entries.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := 0
	for _, entry := range c.entries {
		if !c.expired(entry) {
			count++
		}
	}
	return count
}

func (c *Cache) expired(entry Entry) bool {
	if c.ttl <= 0 {
		return false
	}
	return c.now().Sub(time.Unix(entry.Timestamp, 0)) > c.ttl
}

func (c *Cache) sweep() {
	evicted := 0
	for key, entry := range c.entries {
		if c.expired(entry) {
			delete(c.entries, key)
			evicted++
		}
	}
	if evicted > 0 {
		c.logger.Debug("swept expired cache entries", logging.Int("evicted", evicted))
	}
}

// load reads the cache file into memory. Callers hold no lock; load runs only
// during construction.
func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // fresh start
		}
		return fmt.Errorf("read cache file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	c.entries = make(map[string]Entry, len(entries))
	for key, entry := range entries {
		if strings.TrimSpace(key) != "" {
			c.entries[key] = entry
		}
	}

	c.logger.Debug("loaded track cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))

	return nil
}

// persist writes the cache to disk atomically. Failures are logged and the
// write is skipped; the caller must hold the lock.
func (c *Cache) persist() {
	if c.path == "" {
		return
	}
	if err := c.save(); err != nil {
		c.logger.Warn("failed to persist track cache",
			logging.String(logging.FieldEventType, "trackcache_save_failed"),
			logging.Error(err),
			logging.String(logging.FieldImpact, "cache changes are lost on restart"))
	}
}

func (c *Cache) save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath) // cleanup on failure
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
