package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `
document_id, filename, file_type, file_size, upload_timestamp, processing_timestamp,
status, user_id, extraction_method, ocr_confidence, language_detected,
storage_path, processed_path, error_message`

// Create inserts a new document record.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    document_id,
    filename,
    file_type,
    file_size,
    upload_timestamp,
    status,
    user_id,
    storage_path
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	var userID sql.NullString
	if doc.UserID != "" {
		userID = sql.NullString{String: doc.UserID, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.Filename,
		string(doc.FileType),
		doc.FileSize,
		doc.UploadTimestamp,
		string(doc.Status),
		userID,
		doc.StoragePath,
	)
	return err
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE document_id = $1 AND deleted_at IS NULL
LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// UpdateStatus sets the status and error message for a document.
func (r *PGRepo) UpdateStatus(ctx context.Context, documentID string, status Status, errorMessage string) error {
	const query = `
UPDATE documents
SET status = $1, error_message = $2
WHERE document_id = $3 AND deleted_at IS NULL`

	var errMsg sql.NullString
	if errorMessage != "" {
		errMsg = sql.NullString{String: errorMessage, Valid: true}
	}

	res, err := r.DB.ExecContext(ctx, query, string(status), errMsg, documentID)
	if err != nil {
		return err
	}
	updated, _ := res.RowsAffected()
	if updated == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProcessingResult applies the outcome of a processing run.
func (r *PGRepo) UpdateProcessingResult(ctx context.Context, documentID string, upd ProcessingUpdate) error {
	const query = `
UPDATE documents
SET status = $1,
    processing_timestamp = $2,
    extraction_method = COALESCE($3, extraction_method),
    ocr_confidence = COALESCE($4, ocr_confidence),
    language_detected = COALESCE($5, language_detected),
    processed_path = COALESCE($6, processed_path),
    error_message = $7
WHERE document_id = $8 AND deleted_at IS NULL`

	var method, language, processedPath, errMsg sql.NullString
	if upd.ExtractionMethod != "" {
		method = sql.NullString{String: upd.ExtractionMethod, Valid: true}
	}
	if upd.LanguageDetected != "" {
		language = sql.NullString{String: upd.LanguageDetected, Valid: true}
	}
	if upd.ProcessedPath != "" {
		processedPath = sql.NullString{String: upd.ProcessedPath, Valid: true}
	}
	if upd.ErrorMessage != "" {
		errMsg = sql.NullString{String: upd.ErrorMessage, Valid: true}
	}
	var confidence sql.NullFloat64
	if upd.OCRConfidence != nil {
		confidence = sql.NullFloat64{Float64: *upd.OCRConfidence, Valid: true}
	}

	res, err := r.DB.ExecContext(
		ctx,
		query,
		string(upd.Status),
		upd.ProcessingTimestamp,
		method,
		confidence,
		language,
		processedPath,
		errMsg,
		documentID,
	)
	if err != nil {
		return err
	}
	updated, _ := res.RowsAffected()
	if updated == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete soft-deletes a document record.
func (r *PGRepo) Delete(ctx context.Context, documentID string) error {
	const query = `
UPDATE documents
SET deleted_at = NOW()
WHERE document_id = $1 AND deleted_at IS NULL`
	res, err := r.DB.ExecContext(ctx, query, documentID)
	if err != nil {
		return err
	}
	deleted, _ := res.RowsAffected()
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser lists documents ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY upload_timestamp DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var fileType, status string
	var processingTS sql.NullTime
	var userID, method, language, processedPath, errMsg sql.NullString
	var confidence sql.NullFloat64

	if err := row.Scan(
		&doc.ID,
		&doc.Filename,
		&fileType,
		&doc.FileSize,
		&doc.UploadTimestamp,
		&processingTS,
		&status,
		&userID,
		&method,
		&confidence,
		&language,
		&doc.StoragePath,
		&processedPath,
		&errMsg,
	); err != nil {
		return Document{}, err
	}

	doc.FileType = FileType(fileType)
	doc.Status = Status(status)
	if processingTS.Valid {
		ts := processingTS.Time
		doc.ProcessingTimestamp = &ts
	}
	if userID.Valid {
		doc.UserID = userID.String
	}
	if method.Valid {
		doc.ExtractionMethod = method.String
	}
	if confidence.Valid {
		v := confidence.Float64
		doc.OCRConfidence = &v
	}
	if language.Valid {
		doc.LanguageDetected = language.String
	}
	if processedPath.Valid {
		doc.ProcessedPath = processedPath.String
	}
	if errMsg.Valid {
		doc.ErrorMessage = errMsg.String
	}
	return doc, nil
}

var _ Repo = (*PGRepo)(nil)
