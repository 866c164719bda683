// Package vault implements the persistent key/value store behind the wallet:
// a plaintext preferences tier and a secret tier whose records may be
// encrypted with a password before they are written. Both tiers share one
// underlying KV namespace and are kept apart by key prefixes.
package vault

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/aurumwallet/aurum/internal/fileutil"
	walleterr "github.com/aurumwallet/aurum/pkg/errors"
)

const (
	// storeFilePermissions is the permission mode for the store file.
	storeFilePermissions = 0o600

	// storeDirPermissions is the permission mode for the store directory.
	storeDirPermissions = 0o700
)

// KV is the platform preference store abstraction. Implementations must
// report a missing key as walleterr.ErrNotFound, distinct from I/O failures.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Keys() ([]string, error)
}

// FileKV is a file-backed KV: one JSON document holding all entries,
// rewritten atomically on every mutation. Plays the role the platform
// preference store has on mobile.
type FileKV struct {
	path string
	mu   sync.Mutex
}

// NewFileKV creates a file-backed KV rooted at path.
// The file is created lazily on the first write.
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

// Get returns the value for key.
func (s *FileKV) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return "", err
	}

	value, ok := entries[key]
	if !ok {
		return "", walleterr.ErrNotFound
	}
	return value, nil
}

// Set writes the value for key.
func (s *FileKV) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}

	entries[key] = value
	return s.flush(entries)
}

// Delete removes key. Removing an absent key is not an error.
func (s *FileKV) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := entries[key]; !ok {
		return nil
	}

	delete(entries, key)
	return s.flush(entries)
}

// Keys returns all keys in sorted order.
func (s *FileKV) Keys() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// load reads the store file. A missing file is an empty store.
func (s *FileKV) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path) //nolint:gosec // G304: path is fixed at construction, not user input
	if os.IsNotExist(err) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, walleterr.Wrap(walleterr.ErrStorage, "reading store file")
	}

	entries := make(map[string]string)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, walleterr.Wrap(walleterr.ErrStorage, "store file corrupted")
	}
	return entries, nil
}

// flush rewrites the store file atomically.
func (s *FileKV) flush(entries map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), storeDirPermissions); err != nil {
		return walleterr.Wrap(walleterr.ErrStorage, "creating store directory")
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling store: %w", err)
	}

	if err := fileutil.WriteAtomic(s.path, data, storeFilePermissions); err != nil {
		return walleterr.Wrap(walleterr.ErrStorage, "writing store file")
	}
	return nil
}

// clearPrefix removes every key under prefix from kv, collecting the first
// error but still attempting the remaining deletions.
func clearPrefix(kv KV, prefix string) error {
	keys, err := kv.Keys()
	if err != nil {
		return err
	}

	var firstErr error
	for _, k := range keys {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			if err := kv.Delete(k); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
