package analytics

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory append-only implementation of Store.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
	nextID int64
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// Append adds an event to the stream.
func (s *MemoryStore) Append(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = s.nextID
	s.nextID++
	s.events = append(s.events, event)
	return nil
}

// ListByDocument returns all events for a document in append order.
func (s *MemoryStore) ListByDocument(ctx context.Context, documentID string) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, event := range s.events {
		if event.DocumentID == documentID {
			out = append(out, event)
		}
	}
	return out, nil
}

// ListSince returns all events at or after the given time in append order.
func (s *MemoryStore) ListSince(ctx context.Context, since time.Time) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, event := range s.events {
		if !event.Timestamp.Before(since) {
			out = append(out, event)
		}
	}
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
