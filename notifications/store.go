package notifications

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore persists flags as one small file per key under a directory.
// It backs the single subscription flag; nothing heavier is warranted for
// one string value.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a store over it
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Get returns the stored value, or empty when the key has never been set
func (s *FileStore) Get(key string) (string, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, key))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// Set writes the value, replacing any previous one
func (s *FileStore) Set(key, value string) error {
	return os.WriteFile(filepath.Join(s.dir, key), []byte(value), 0o600)
}

// MemoryStore is an in-memory Store for tests
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore returns an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the stored value, or empty when unset
func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key], nil
}

// Set stores the value
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
