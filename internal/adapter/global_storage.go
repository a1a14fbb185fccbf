package adapter

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	m "github.com/breakerb0y/aaropa-calamares/internal/model"
)

// GlobalStorage is the key/value state shared between installer steps.
type GlobalStorage interface {
	// Value returns the value stored under key.
	Value(key string) (any, bool)

	// Insert stores value under key, replacing any previous value.
	Insert(key string, value any)

	// Keys returns the stored keys, sorted.
	Keys() []string

	// Snapshot returns a shallow copy of every stored value.
	Snapshot() map[string]any

	// Save persists the storage. In-memory storages do nothing.
	Save() error
}

type memoryValues struct {
	mu     sync.RWMutex
	values map[string]any
}

func (s *memoryValues) Value(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]

	return v, ok
}

func (s *memoryValues) Insert(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
}

func (s *memoryValues) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Sorted(maps.Keys(s.values))
}

func (s *memoryValues) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.values)
}

// MemoryGlobalStorage keeps the installer state in memory only.
type MemoryGlobalStorage struct {
	memoryValues
}

// NewMemoryGlobalStorage returns a storage seeded with a copy of values.
func NewMemoryGlobalStorage(values map[string]any) *MemoryGlobalStorage {
	seed := maps.Clone(values)
	if seed == nil {
		seed = map[string]any{}
	}

	return &MemoryGlobalStorage{memoryValues{values: seed}}
}

// Save is a no-op.
func (s *MemoryGlobalStorage) Save() error { return nil }

// FileGlobalStorage keeps the installer state in a YAML document.
type FileGlobalStorage struct {
	memoryValues

	path m.Path
}

// NewFileGlobalStorage loads the storage at path. A missing file yields an
// empty storage that Save creates.
func NewFileGlobalStorage(path m.Path) (*FileGlobalStorage, error) {
	storage := &FileGlobalStorage{
		memoryValues: memoryValues{values: map[string]any{}},
		path:         path,
	}

	data, err := os.ReadFile(string(path))
	if errors.Is(err, os.ErrNotExist) {
		return storage, nil
	}

	if err != nil {
		return nil, fmt.Errorf("read global storage %s: %w", path, err)
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse global storage %s: %w", path, err)
	}

	if values != nil {
		storage.values = values
	}

	return storage, nil
}

// Path returns the backing file.
func (s *FileGlobalStorage) Path() m.Path { return s.path }

// Save writes the storage to its file, creating parent directories.
func (s *FileGlobalStorage) Save() error {
	data, err := MarshalStorage(s.Snapshot())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(string(s.path)), 0o755); err != nil {
		return fmt.Errorf("create global storage dir: %w", err)
	}

	if err := os.WriteFile(string(s.path), data, 0o600); err != nil {
		return fmt.Errorf("write global storage %s: %w", s.path, err)
	}

	return nil
}

// MarshalStorage renders storage values as a YAML document with sorted
// keys.
func MarshalStorage(values map[string]any) ([]byte, error) {
	if values == nil {
		values = map[string]any{}
	}

	data, err := yaml.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("marshal global storage: %w", err)
	}

	return data, nil
}

// StorageOpener opens the installer storage at a path.
type StorageOpener interface {
	Open(path m.Path) (GlobalStorage, error)
}

// StorageOpenerFunc adapts a function to StorageOpener.
type StorageOpenerFunc func(path m.Path) (GlobalStorage, error)

// Open calls f.
func (f StorageOpenerFunc) Open(path m.Path) (GlobalStorage, error) { return f(path) }

// OpenGlobalStorage opens the file storage at path, or an empty in-memory
// storage when path is empty.
func OpenGlobalStorage(path m.Path) (GlobalStorage, error) {
	if path == "" {
		return NewMemoryGlobalStorage(nil), nil
	}

	storage, err := NewFileGlobalStorage(path)
	if err != nil {
		return nil, err
	}

	return storage, nil
}
