package analytics

import (
	"context"
	"time"
)

// Store persists the append-only event stream.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByDocument(ctx context.Context, documentID string) ([]Event, error)
	ListSince(ctx context.Context, since time.Time) ([]Event, error)
}
