// Package memory is an in-process RemoteStore used in tests and when no
// cloud backend is configured.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"masarif/internal/cloud"
)

type Store struct {
	mu        sync.Mutex
	snapshots map[string][]byte
}

var _ cloud.RemoteStore = (*Store)(nil)

func New() *Store {
	return &Store{snapshots: make(map[string][]byte)}
}

// Upload stores an encoded copy so later mutations of the caller's
// snapshot cannot leak in.
func (s *Store) Upload(_ context.Context, userID string, snap cloud.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[userID] = data
	return nil
}

func (s *Store) Download(_ context.Context, userID string) (*cloud.Snapshot, error) {
	s.mu.Lock()
	data, ok := s.snapshots[userID]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	var snap cloud.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
