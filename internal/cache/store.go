// Package cache provides the query cache that sits between the gallery and
// the backend: fetch(key, fn) with a stale time, per-key de-duplication of
// concurrent fetches, prefix invalidation and an optional on-disk store so
// fresh results survive between runs.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrCacheMiss is returned by Store.Get when a key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// Store is a byte-level key/value store with per-entry TTL.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// FileStore keeps entries as JSON files under a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store in dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

type fileEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get returns the stored bytes or ErrCacheMiss.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	path := s.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Corrupt entry, treat as miss
		_ = os.Remove(path)
		return nil, ErrCacheMiss
	}

	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, ErrCacheMiss
	}

	return entry.Data, nil
}

// Set stores data. A ttl of zero never expires.
func (s *FileStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, encoded, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Delete removes key. Deleting a missing key is not an error.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for the file store.
func (s *FileStore) Close() error {
	return nil
}

// path spreads entries over 256 subdirectories by hash prefix.
func (s *FileStore) path(key string) string {
	hash := Hash([]byte(key))
	return filepath.Join(s.dir, hash[:2], hash[2:]+".json")
}

// NullStore never stores anything.
type NullStore struct{}

// NewNullStore returns a store that always misses.
func NewNullStore() *NullStore { return &NullStore{} }

func (NullStore) Get(ctx context.Context, key string) ([]byte, error) { return nil, ErrCacheMiss }

func (NullStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (NullStore) Delete(ctx context.Context, key string) error { return nil }

func (NullStore) Close() error { return nil }

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*NullStore)(nil)
)
