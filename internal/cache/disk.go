package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type diskEntry struct {
	Key     string    `json:"key"`
	Value   string    `json:"value"`
	Expiry  time.Time `json:"expiry"`
	Created time.Time `json:"created"`
}

// Disk stores one JSON file per key under a cache directory. Writes go
// through a temp file plus rename so a concurrent reader never observes
// a half-written entry.
type Disk struct {
	dir string
}

func NewDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Disk{dir: dir}, nil
}

func (d *Disk) Get(_ context.Context, key string) (string, error) {
	data, err := os.ReadFile(d.path(key))
	if err != nil {
		return "", ErrMiss
	}

	var entry diskEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return "", ErrMiss
	}

	if time.Now().After(entry.Expiry) {
		// Expired entries read as misses; the file is cleaned up lazily.
		os.Remove(d.path(key))
		return "", ErrMiss
	}

	return entry.Value, nil
}

func (d *Disk) Set(_ context.Context, key, value string, ttl time.Duration) error {
	entry := diskEntry{
		Key:     key,
		Value:   value,
		Expiry:  time.Now().Add(ttl),
		Created: time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	path := d.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}

	return os.Rename(tmp, path)
}

func (d *Disk) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(d.dir, hex.EncodeToString(sum[:])+".json")
}
