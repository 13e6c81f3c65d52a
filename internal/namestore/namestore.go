// Package namestore persists small per-player key/value settings such as the
// leaderboard name.
package namestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrEmptyName is returned when storing a blank value.
var ErrEmptyName = errors.New("namestore: empty value")

// Store is a key/value store for one player.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// FileStore keeps values of all scopes in one YAML file:
//
//	scope:
//	  key: value
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string]map[string]string
}

// Open loads path, or starts empty if it does not exist.
func Open(path string) (*FileStore, error) {
	fs := &FileStore{path: path, data: map[string]map[string]string{}}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("namestore: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &fs.data); err != nil {
		return nil, fmt.Errorf("namestore: parse %s: %w", path, err)
	}
	if fs.data == nil {
		fs.data = map[string]map[string]string{}
	}
	return fs, nil
}

// Scoped returns the store of one scope (e.g. an SSH user).
func (f *FileStore) Scoped(scope string) Store {
	return &scoped{file: f, scope: scope}
}

func (f *FileStore) get(scope, key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[scope][key]
	return v, ok
}

func (f *FileStore) set(scope, key, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyName
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data[scope] == nil {
		f.data[scope] = map[string]string{}
	}
	f.data[scope][key] = value
	return f.save()
}

// save writes the file atomically. Caller holds mu.
func (f *FileStore) save() error {
	b, err := yaml.Marshal(f.data)
	if err != nil {
		return fmt.Errorf("namestore: encode: %w", err)
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("namestore: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".names-*")
	if err != nil {
		return fmt.Errorf("namestore: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("namestore: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("namestore: write: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("namestore: replace %s: %w", f.path, err)
	}
	return nil
}

type scoped struct {
	file  *FileStore
	scope string
}

func (s *scoped) Get(key string) (string, bool) { return s.file.get(s.scope, key) }
func (s *scoped) Set(key, value string) error  { return s.file.set(s.scope, key, value) }

// Memory is a Store that forgets everything on exit.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Memory) Set(key, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return ErrEmptyName
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
