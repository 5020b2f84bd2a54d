// Package memory provides the in-memory audit store used in tests and
// single-process deployments.
package memory

import (
	"context"
	"sync"

	id "schemeteller/pkg/domain"
	"schemeteller/pkg/platform/audit"
)

// Store keeps audit events in an append-only slice guarded by a mutex.
type Store struct {
	mu     sync.RWMutex
	events []audit.Event
}

func New() *Store {
	return &Store{}
}

func (s *Store) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *Store) ListByUser(_ context.Context, userID id.UserID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Event
	for _, e := range s.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Publish lets the memory store double as a Publisher in wiring that has no
// external sink configured.
func (s *Store) Publish(ctx context.Context, event audit.Event) error {
	return s.Append(ctx, event)
}
