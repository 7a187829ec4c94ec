package modules

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"
)

// DiskCache is a persistent, content-hash-keyed build cache backed by
// a local SQLite file. It stores each loaded module's source with its
// hash; it does not spare the file read (Lookup reads the file to hash
// it) and the loader still parses and checks the source on every run.
type DiskCache struct {
	db *sql.DB
}

// OpenDiskCache opens (creating if absent) the SQLite file at path and
// ensures its schema exists.
func OpenDiskCache(path string) (*DiskCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening disk cache %s: %w", path, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS check_cache (
	path TEXT PRIMARY KEY,
	content_hash TEXT NOT NULL,
	content TEXT NOT NULL,
	size INTEGER NOT NULL,
	checked_at INTEGER NOT NULL
)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing disk cache schema: %w", err)
	}
	return &DiskCache{db: db}, nil
}

func (c *DiskCache) Close() error { return c.db.Close() }

// Lookup returns the cached content for path if its recorded content
// hash still matches the file currently on disk. The file is read on
// every call to compute that hash.
func (c *DiskCache) Lookup(path string) (string, bool) {
	var hash, content string
	row := c.db.QueryRow(`SELECT content_hash, content FROM check_cache WHERE path = ?`, path)
	if err := row.Scan(&hash, &content); err != nil {
		return "", false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	if hashOf(data) != hash {
		return "", false
	}
	return content, true
}

// Store records path's current content and hash for future Lookups.
func (c *DiskCache) Store(path, content string) error {
	hash := hashOf([]byte(content))
	_, err := c.db.Exec(
		`INSERT INTO check_cache (path, content_hash, content, size, checked_at)
		 VALUES (?, ?, ?, ?, unixepoch())
		 ON CONFLICT(path) DO UPDATE SET content_hash = excluded.content_hash,
			content = excluded.content, size = excluded.size, checked_at = excluded.checked_at`,
		path, hash, content, len(content),
	)
	return err
}

// Stats reports the cache's on-disk row count, total content size, and
// the most recent checked_at timestamp (zero if the cache is empty),
// used by the CLI's --cache-stats flag.
func (c *DiskCache) Stats() (entries int, totalBytes int64, lastChecked time.Time, err error) {
	var lastUnix sql.NullInt64
	row := c.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(size), 0), MAX(checked_at) FROM check_cache`)
	if err = row.Scan(&entries, &totalBytes, &lastUnix); err != nil {
		return entries, totalBytes, time.Time{}, err
	}
	if lastUnix.Valid {
		lastChecked = time.Unix(lastUnix.Int64, 0)
	}
	return entries, totalBytes, lastChecked, nil
}

func hashOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
