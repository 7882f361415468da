package simplify

import "context"

// Repo defines persistence operations for simplified documents.
type Repo interface {
	Upsert(ctx context.Context, doc SimplifiedDocument) error
	GetByID(ctx context.Context, documentID string) (SimplifiedDocument, error)
	Delete(ctx context.Context, documentID string) error
}
