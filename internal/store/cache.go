package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/skpatro/tallystock/internal/core/domain"
)

// ParseCache stores previously normalized batches on disk, keyed by
// filename plus source modification time. Cache failures are never
// surfaced to the import path: a failed read or write degrades to a miss
// and is logged.
type ParseCache struct {
	dir    string
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

type cacheEntry struct {
	StoredAt time.Time           `json:"storedAt"`
	Batch    *domain.ParsedBatch `json:"batch"`
}

func NewParseCache(dir string, ttl time.Duration, logger *slog.Logger) *ParseCache {
	return &ParseCache{dir: dir, ttl: ttl, logger: logger, now: time.Now}
}

func (c *ParseCache) entryPath(fileName string, modTime time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", fileName, modTime.UnixNano())))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:16])+".json")
}

// Get returns the cached batch for the file version, or nil on any kind
// of miss (absent, stale, unreadable, undecodable).
func (c *ParseCache) Get(fileName string, modTime time.Time) *domain.ParsedBatch {
	path := c.entryPath(fileName, modTime)
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warn("parse cache read failed, treating as miss", "file", fileName, "error", err)
		}
		return nil
	}
	var entry cacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.Warn("parse cache entry corrupt, treating as miss", "file", fileName, "error", err)
		return nil
	}
	if c.ttl > 0 && c.now().Sub(entry.StoredAt) > c.ttl {
		return nil
	}
	return entry.Batch
}

// Put stores a batch for the file version. Failures are logged and
// swallowed; the import proceeds regardless.
func (c *ParseCache) Put(fileName string, modTime time.Time, batch *domain.ParsedBatch) {
	entry := cacheEntry{StoredAt: c.now(), Batch: batch}
	raw, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("parse cache encode failed", "file", fileName, "error", err)
		return
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		c.logger.Warn("parse cache dir create failed", "file", fileName, "error", err)
		return
	}
	if err := os.WriteFile(c.entryPath(fileName, modTime), raw, 0o644); err != nil {
		c.logger.Warn("parse cache write failed", "file", fileName, "error", err)
	}
}
