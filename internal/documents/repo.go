package documents

import "context"

// Repo defines persistence operations for document metadata.
type Repo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID string) (Document, error)
	UpdateStatus(ctx context.Context, documentID string, status Status, errorMessage string) error
	UpdateProcessingResult(ctx context.Context, documentID string, upd ProcessingUpdate) error
	Delete(ctx context.Context, documentID string) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error)
}
