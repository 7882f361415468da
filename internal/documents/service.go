package documents

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"legaldoc-backend/internal/shared/metrics"
	"legaldoc-backend/internal/shared/storage/object"
	"legaldoc-backend/internal/shared/telemetry"
	"legaldoc-backend/internal/shared/util"
)

// AnalyticsSink records usage events. Implementations must never block the
// caller on failure; recording is best-effort.
type AnalyticsSink interface {
	Record(ctx context.Context, action, documentID, userID string, metadata map[string]any)
}

// Service contains business logic for document uploads and metadata.
type Service struct {
	Store       object.ObjectStore
	Repo        Repo
	Analytics   AnalyticsSink
	MaxFileSize int64
}

// Upload validates the file, stores its bytes and records the metadata. The
// validator runs before any byte reaches the object store, so a rejected file
// leaves no trace.
func (s *Service) Upload(ctx context.Context, userID, filename, contentType string, size int64, r io.Reader) (Document, error) {
	if filename == "" {
		return Document{}, ErrInvalidInput
	}

	fileType, verr := ValidateUpload(filename, contentType, size, s.MaxFileSize)
	if verr != nil {
		return Document{}, verr
	}

	safeName, err := util.SanitizeFileName(filename)
	if err != nil {
		return Document{}, &ValidationError{
			Code:    ValidationCodeInvalidName,
			Message: "file name contains no usable characters",
		}
	}
	storageKey, storedSize, _, err := s.Store.Save(ctx, userID, safeName, r)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		ID:              uuid.NewString(),
		Filename:        filename,
		FileType:        fileType,
		FileSize:        storedSize,
		UploadTimestamp: time.Now().UTC(),
		Status:          StatusUploaded,
		UserID:          userID,
		StoragePath:     storageKey,
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		// The object is orphaned if we cannot record it.
		if delErr := s.Store.Delete(ctx, storageKey); delErr != nil {
			telemetry.Warn("documents.orphan_cleanup_failed", map[string]any{
				"storage_path": storageKey,
				"error":        delErr.Error(),
			})
		}
		return Document{}, err
	}

	metrics.IncUpload()
	if s.Analytics != nil {
		s.Analytics.Record(ctx, "upload", doc.ID, userID, map[string]any{
			"file_type": string(doc.FileType),
			"file_size": doc.FileSize,
		})
	}

	telemetry.Info("documents.uploaded", map[string]any{
		"document_id": doc.ID,
		"file_type":   string(doc.FileType),
		"file_size":   doc.FileSize,
	})
	return doc, nil
}

// Get returns a document's metadata by ID.
func (s *Service) Get(ctx context.Context, documentID string) (Document, error) {
	if documentID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, documentID)
}

// Delete removes the document record and its stored objects.
func (s *Service) Delete(ctx context.Context, documentID string) error {
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return err
	}

	if err := s.Repo.Delete(ctx, documentID); err != nil {
		return err
	}

	// Object removal is best-effort; the record is already gone.
	for _, key := range []string{doc.StoragePath, doc.ProcessedPath} {
		if key == "" {
			continue
		}
		if err := s.Store.Delete(ctx, key); err != nil {
			telemetry.Warn("documents.object_delete_failed", map[string]any{
				"document_id":  documentID,
				"storage_path": key,
				"error":        err.Error(),
			})
		}
	}

	if s.Analytics != nil {
		s.Analytics.Record(ctx, "delete", documentID, doc.UserID, nil)
	}
	return nil
}

// List returns the caller's documents, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// OpenOriginal streams the stored original file bytes.
func (s *Service) OpenOriginal(ctx context.Context, documentID string) (io.ReadCloser, Document, error) {
	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, Document{}, err
	}
	rc, err := s.Store.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, Document{}, err
	}
	return rc, doc, nil
}
