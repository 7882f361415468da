package simplify

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]SimplifiedDocument
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]SimplifiedDocument),
	}
}

// Upsert stores or replaces the result for a document.
func (r *MemoryRepo) Upsert(ctx context.Context, doc SimplifiedDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.DocumentID] = doc
	return nil
}

// GetByID returns the result for a document.
func (r *MemoryRepo) GetByID(ctx context.Context, documentID string) (SimplifiedDocument, error) {
	if err := ctx.Err(); err != nil {
		return SimplifiedDocument{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.data[documentID]
	if !ok {
		return SimplifiedDocument{}, ErrNotFound
	}
	return doc, nil
}

// Delete removes the result for a document. Missing results are not an error;
// deletion is called for documents that never completed.
func (r *MemoryRepo) Delete(ctx context.Context, documentID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, documentID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
