package simplify

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. List fields are stored as JSONB.
type PGRepo struct {
	DB *sql.DB
}

// Upsert stores or replaces the result for a document.
func (r *PGRepo) Upsert(ctx context.Context, doc SimplifiedDocument) error {
	const query = `
INSERT INTO simplified_documents (
    document_id,
    original_filename,
    summary,
    key_points,
    important_terms,
    deadlines_obligations,
    warnings,
    next_steps,
    processing_timestamp,
    simplification_level,
    confidence_score,
    original_text,
    word_count_original,
    word_count_simplified,
    reading_level
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (document_id) DO UPDATE SET
    original_filename = EXCLUDED.original_filename,
    summary = EXCLUDED.summary,
    key_points = EXCLUDED.key_points,
    important_terms = EXCLUDED.important_terms,
    deadlines_obligations = EXCLUDED.deadlines_obligations,
    warnings = EXCLUDED.warnings,
    next_steps = EXCLUDED.next_steps,
    processing_timestamp = EXCLUDED.processing_timestamp,
    simplification_level = EXCLUDED.simplification_level,
    confidence_score = EXCLUDED.confidence_score,
    original_text = EXCLUDED.original_text,
    word_count_original = EXCLUDED.word_count_original,
    word_count_simplified = EXCLUDED.word_count_simplified,
    reading_level = EXCLUDED.reading_level`

	keyPoints, err := marshalList(doc.KeyPoints)
	if err != nil {
		return err
	}
	terms, err := marshalTerms(doc.ImportantTerms)
	if err != nil {
		return err
	}
	deadlines, err := marshalList(doc.DeadlinesObligations)
	if err != nil {
		return err
	}
	warnings, err := marshalList(doc.Warnings)
	if err != nil {
		return err
	}
	nextSteps, err := marshalList(doc.NextSteps)
	if err != nil {
		return err
	}

	var originalText sql.NullString
	if doc.OriginalText != "" {
		originalText = sql.NullString{String: doc.OriginalText, Valid: true}
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		doc.DocumentID,
		doc.OriginalFilename,
		doc.Summary,
		keyPoints,
		terms,
		deadlines,
		warnings,
		nextSteps,
		doc.ProcessingTimestamp,
		doc.SimplificationLevel,
		doc.ConfidenceScore,
		originalText,
		doc.WordCountOriginal,
		doc.WordCountSimplified,
		doc.ReadingLevel,
	)
	return err
}

// GetByID returns the result for a document.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (SimplifiedDocument, error) {
	const query = `
SELECT document_id, original_filename, summary, key_points, important_terms,
       deadlines_obligations, warnings, next_steps, processing_timestamp,
       simplification_level, confidence_score, original_text,
       word_count_original, word_count_simplified, reading_level
FROM simplified_documents
WHERE document_id = $1
LIMIT 1`

	var doc SimplifiedDocument
	var keyPoints, terms, deadlines, warnings, nextSteps []byte
	var originalText sql.NullString

	err := r.DB.QueryRowContext(ctx, query, documentID).Scan(
		&doc.DocumentID,
		&doc.OriginalFilename,
		&doc.Summary,
		&keyPoints,
		&terms,
		&deadlines,
		&warnings,
		&nextSteps,
		&doc.ProcessingTimestamp,
		&doc.SimplificationLevel,
		&doc.ConfidenceScore,
		&originalText,
		&doc.WordCountOriginal,
		&doc.WordCountSimplified,
		&doc.ReadingLevel,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SimplifiedDocument{}, ErrNotFound
		}
		return SimplifiedDocument{}, err
	}

	if err := unmarshalInto(keyPoints, &doc.KeyPoints); err != nil {
		return SimplifiedDocument{}, err
	}
	if err := unmarshalInto(terms, &doc.ImportantTerms); err != nil {
		return SimplifiedDocument{}, err
	}
	if err := unmarshalInto(deadlines, &doc.DeadlinesObligations); err != nil {
		return SimplifiedDocument{}, err
	}
	if err := unmarshalInto(warnings, &doc.Warnings); err != nil {
		return SimplifiedDocument{}, err
	}
	if err := unmarshalInto(nextSteps, &doc.NextSteps); err != nil {
		return SimplifiedDocument{}, err
	}
	if originalText.Valid {
		doc.OriginalText = originalText.String
	}
	return doc, nil
}

// Delete removes the result for a document.
func (r *PGRepo) Delete(ctx context.Context, documentID string) error {
	const query = `DELETE FROM simplified_documents WHERE document_id = $1`
	_, err := r.DB.ExecContext(ctx, query, documentID)
	return err
}

func marshalList(items []string) ([]byte, error) {
	if items == nil {
		items = []string{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal list: %w", err)
	}
	return raw, nil
}

func marshalTerms(terms map[string]string) ([]byte, error) {
	if terms == nil {
		terms = map[string]string{}
	}
	raw, err := json.Marshal(terms)
	if err != nil {
		return nil, fmt.Errorf("marshal terms: %w", err)
	}
	return raw, nil
}

func unmarshalInto(raw []byte, dest any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}

var _ Repo = (*PGRepo)(nil)
