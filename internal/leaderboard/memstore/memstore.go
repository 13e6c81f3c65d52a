// Package memstore is an in-process leaderboard.Store.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/tomz197/runner/internal/leaderboard"
)

// Store keeps documents in memory. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	docs  map[string]json.RawMessage            // Documents written with Put
	lists map[string]map[string]json.RawMessage // Children appended with PushUnique
}

// New returns an empty store.
func New() *Store {
	return &Store{
		docs:  make(map[string]json.RawMessage),
		lists: make(map[string]map[string]json.RawMessage),
	}
}

// Put replaces the document at path, dropping any children.
func (s *Store) Put(ctx context.Context, path string, record any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("memstore: encode %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lists, path)
	if string(raw) == "null" {
		delete(s.docs, path)
		return nil
	}
	s.docs[path] = raw
	return nil
}

// Get returns the document at path, or the id → child object of a list.
func (s *Store) Get(ctx context.Context, path string) (leaderboard.Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return leaderboard.Snapshot{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if raw, ok := s.docs[path]; ok {
		return leaderboard.NewSnapshot(raw), true, nil
	}
	children, ok := s.lists[path]
	if !ok || len(children) == 0 {
		return leaderboard.Snapshot{}, false, nil
	}
	raw, err := json.Marshal(children)
	if err != nil {
		return leaderboard.Snapshot{}, false, fmt.Errorf("memstore: encode %s: %w", path, err)
	}
	return leaderboard.NewSnapshot(raw), true, nil
}

// PushUnique appends record under a time-ordered UUID.
func (s *Store) PushUnique(ctx context.Context, path string, record any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("memstore: encode %s: %w", path, err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("memstore: generate id: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, path)
	children, ok := s.lists[path]
	if !ok {
		children = make(map[string]json.RawMessage)
		s.lists[path] = children
	}
	children[id.String()] = raw
	return id.String(), nil
}

// Len returns the number of children stored under path.
func (s *Store) Len(path string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lists[path])
}

var _ leaderboard.Store = (*Store)(nil)
