package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// PGStore implements Store using Postgres. Rows are insert-only.
type PGStore struct {
	DB *sql.DB
}

// Append adds an event to the stream.
func (s *PGStore) Append(ctx context.Context, event Event) error {
	const query = `
INSERT INTO analytics_events (
    document_id,
    user_id,
    action,
    event_timestamp,
    metadata,
    processing_time,
    file_size,
    simplification_level,
    confidence_score,
    user_feedback
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	metadata := event.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	rawMetadata, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	var userID, level, feedback sql.NullString
	if event.UserID != "" {
		userID = sql.NullString{String: event.UserID, Valid: true}
	}
	if event.SimplificationLevel != "" {
		level = sql.NullString{String: event.SimplificationLevel, Valid: true}
	}
	if event.UserFeedback != "" {
		feedback = sql.NullString{String: event.UserFeedback, Valid: true}
	}
	var processingTime, confidence sql.NullFloat64
	if event.ProcessingTime != nil {
		processingTime = sql.NullFloat64{Float64: *event.ProcessingTime, Valid: true}
	}
	if event.ConfidenceScore != nil {
		confidence = sql.NullFloat64{Float64: *event.ConfidenceScore, Valid: true}
	}
	var fileSize sql.NullInt64
	if event.FileSize != nil {
		fileSize = sql.NullInt64{Int64: *event.FileSize, Valid: true}
	}

	_, err = s.DB.ExecContext(
		ctx,
		query,
		event.DocumentID,
		userID,
		event.Action,
		event.Timestamp,
		rawMetadata,
		processingTime,
		fileSize,
		level,
		confidence,
		feedback,
	)
	return err
}

const eventColumns = `
id, document_id, user_id, action, event_timestamp, metadata,
processing_time, file_size, simplification_level, confidence_score, user_feedback`

// ListByDocument returns all events for a document in append order.
func (s *PGStore) ListByDocument(ctx context.Context, documentID string) ([]Event, error) {
	query := `
SELECT ` + eventColumns + `
FROM analytics_events
WHERE document_id = $1
ORDER BY id ASC`
	rows, err := s.DB.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListSince returns all events at or after the given time in append order.
func (s *PGStore) ListSince(ctx context.Context, since time.Time) ([]Event, error) {
	query := `
SELECT ` + eventColumns + `
FROM analytics_events
WHERE event_timestamp >= $1
ORDER BY id ASC`
	rows, err := s.DB.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var out []Event
	for rows.Next() {
		var event Event
		var userID, level, feedback sql.NullString
		var processingTime, confidence sql.NullFloat64
		var fileSize sql.NullInt64
		var rawMetadata []byte

		if err := rows.Scan(
			&event.ID,
			&event.DocumentID,
			&userID,
			&event.Action,
			&event.Timestamp,
			&rawMetadata,
			&processingTime,
			&fileSize,
			&level,
			&confidence,
			&feedback,
		); err != nil {
			return nil, err
		}

		if userID.Valid {
			event.UserID = userID.String
		}
		if level.Valid {
			event.SimplificationLevel = level.String
		}
		if feedback.Valid {
			event.UserFeedback = feedback.String
		}
		if processingTime.Valid {
			v := processingTime.Float64
			event.ProcessingTime = &v
		}
		if confidence.Valid {
			v := confidence.Float64
			event.ConfidenceScore = &v
		}
		if fileSize.Valid {
			v := fileSize.Int64
			event.FileSize = &v
		}
		if len(rawMetadata) > 0 {
			_ = json.Unmarshal(rawMetadata, &event.Metadata)
		}
		out = append(out, event)
	}
	return out, rows.Err()
}

var _ Store = (*PGStore)(nil)
