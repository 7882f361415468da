package analytics

import (
	"context"
	"sort"
	"time"

	"legaldoc-backend/internal/shared/telemetry"
)

const recordTimeout = 5 * time.Second

// Service records usage events and derives aggregate reports from the
// append-only stream. Aggregates are computed in process so every Store
// implementation behaves identically.
type Service struct {
	Store Store
	Now   func() time.Time
}

// NewService constructs a Service over the given store.
func NewService(store Store) *Service {
	return &Service{Store: store, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Track validates and appends a single event.
func (s *Service) Track(ctx context.Context, event Event) error {
	if !ValidAction(event.Action) {
		return &InvalidActionError{Action: event.Action}
	}
	if event.DocumentID == "" {
		return ErrMissingDocument
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	return s.Store.Append(ctx, event)
}

// Record implements the fire-and-forget sink used by the document and
// simplification services. Failures are logged, never propagated, and the
// write is detached from the caller's context so request cancellation does
// not lose events.
func (s *Service) Record(ctx context.Context, action, documentID, userID string, metadata map[string]any) {
	event := Event{
		DocumentID: documentID,
		UserID:     userID,
		Action:     action,
		Timestamp:  s.now().UTC(),
		Metadata:   metadata,
	}
	liftKnownFields(&event)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				telemetry.Error("analytics.record.panic", map[string]any{"panic": r})
			}
		}()
		recordCtx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := s.Track(recordCtx, event); err != nil {
			telemetry.Warn("analytics.record.failed", map[string]any{
				"action":      action,
				"document_id": documentID,
				"err":         err.Error(),
			})
		}
	}()
}

// liftKnownFields promotes well-known metadata keys into typed columns so
// aggregates do not have to parse metadata.
func liftKnownFields(event *Event) {
	if event.Metadata == nil {
		return
	}
	if v, ok := toFloat(event.Metadata["processing_time"]); ok {
		event.ProcessingTime = &v
	}
	if v, ok := toFloat(event.Metadata["file_size"]); ok {
		size := int64(v)
		event.FileSize = &size
	}
	if v, ok := event.Metadata["simplification_level"].(string); ok {
		event.SimplificationLevel = v
	}
	if v, ok := toFloat(event.Metadata["confidence_score"]); ok {
		event.ConfidenceScore = &v
	}
	if v, ok := event.Metadata["user_feedback"].(string); ok {
		event.UserFeedback = v
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// UsageStats summarizes activity over a trailing window.
type UsageStats struct {
	PeriodDays      int            `json:"period_days"`
	TotalEvents     int            `json:"total_events"`
	ActionCounts    map[string]int `json:"action_counts"`
	UniqueDocuments int            `json:"unique_documents"`
	UniqueUsers     int            `json:"unique_users"`
	EventsPerDay    float64        `json:"events_per_day"`
}

// Usage computes usage statistics for the trailing window.
func (s *Service) Usage(ctx context.Context, days int) (*UsageStats, error) {
	days = clampDays(days)
	events, err := s.listWindow(ctx, days)
	if err != nil {
		return nil, err
	}

	stats := &UsageStats{
		PeriodDays:   days,
		TotalEvents:  len(events),
		ActionCounts: map[string]int{},
	}
	docs := map[string]bool{}
	users := map[string]bool{}
	for _, event := range events {
		stats.ActionCounts[event.Action]++
		docs[event.DocumentID] = true
		if event.UserID != "" {
			users[event.UserID] = true
		}
	}
	stats.UniqueDocuments = len(docs)
	stats.UniqueUsers = len(users)
	if days > 0 {
		stats.EventsPerDay = round2(float64(len(events)) / float64(days))
	}
	return stats, nil
}

// PerformanceStats summarizes processing outcomes over a trailing window.
type PerformanceStats struct {
	PeriodDays         int     `json:"period_days"`
	ProcessedDocuments int     `json:"processed_documents"`
	FailedDocuments    int     `json:"failed_documents"`
	SuccessRate        float64 `json:"success_rate"`
	AvgProcessingTime  float64 `json:"avg_processing_time_seconds"`
	MinProcessingTime  float64 `json:"min_processing_time_seconds"`
	MaxProcessingTime  float64 `json:"max_processing_time_seconds"`
	AvgConfidenceScore float64 `json:"avg_confidence_score"`
	TimedSampleCount   int     `json:"timed_sample_count"`
	ScoredSampleCount  int     `json:"scored_sample_count"`
}

// Performance computes processing performance for the trailing window.
func (s *Service) Performance(ctx context.Context, days int) (*PerformanceStats, error) {
	days = clampDays(days)
	events, err := s.listWindow(ctx, days)
	if err != nil {
		return nil, err
	}

	stats := &PerformanceStats{PeriodDays: days}
	var timeSum, confSum float64
	for _, event := range events {
		switch event.Action {
		case ActionProcess:
			stats.ProcessedDocuments++
		case ActionError:
			stats.FailedDocuments++
		default:
			continue
		}
		if event.ProcessingTime != nil {
			v := *event.ProcessingTime
			timeSum += v
			if stats.TimedSampleCount == 0 || v < stats.MinProcessingTime {
				stats.MinProcessingTime = v
			}
			if v > stats.MaxProcessingTime {
				stats.MaxProcessingTime = v
			}
			stats.TimedSampleCount++
		}
		if event.ConfidenceScore != nil {
			confSum += *event.ConfidenceScore
			stats.ScoredSampleCount++
		}
	}
	if total := stats.ProcessedDocuments + stats.FailedDocuments; total > 0 {
		stats.SuccessRate = round2(float64(stats.ProcessedDocuments) / float64(total))
	}
	if stats.TimedSampleCount > 0 {
		stats.AvgProcessingTime = round2(timeSum / float64(stats.TimedSampleCount))
		stats.MinProcessingTime = round2(stats.MinProcessingTime)
		stats.MaxProcessingTime = round2(stats.MaxProcessingTime)
	}
	if stats.ScoredSampleCount > 0 {
		stats.AvgConfidenceScore = round2(confSum / float64(stats.ScoredSampleCount))
	}
	return stats, nil
}

// DocumentReport is the event history and summary for one document.
type DocumentReport struct {
	DocumentID   string         `json:"document_id"`
	TotalEvents  int            `json:"total_events"`
	ActionCounts map[string]int `json:"action_counts"`
	FirstEvent   *time.Time     `json:"first_event,omitempty"`
	LastEvent    *time.Time     `json:"last_event,omitempty"`
	Events       []EventView    `json:"events"`
}

// EventView is the wire form of one event.
type EventView struct {
	Action    string         `json:"action"`
	Timestamp time.Time      `json:"timestamp"`
	UserID    string         `json:"user_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Document reports all recorded activity for a single document.
func (s *Service) Document(ctx context.Context, documentID string) (*DocumentReport, error) {
	events, err := s.Store.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	report := &DocumentReport{
		DocumentID:   documentID,
		TotalEvents:  len(events),
		ActionCounts: map[string]int{},
		Events:       make([]EventView, 0, len(events)),
	}
	for i, event := range events {
		report.ActionCounts[event.Action]++
		if i == 0 {
			ts := event.Timestamp
			report.FirstEvent = &ts
		}
		if i == len(events)-1 {
			ts := event.Timestamp
			report.LastEvent = &ts
		}
		report.Events = append(report.Events, EventView{
			Action:    event.Action,
			Timestamp: event.Timestamp,
			UserID:    event.UserID,
			Metadata:  event.Metadata,
		})
	}
	return report, nil
}

// TypeCount is one file type with its upload count.
type TypeCount struct {
	FileType string `json:"file_type"`
	Count    int    `json:"count"`
}

// DocumentTypes counts uploads per file type over the trailing window.
func (s *Service) DocumentTypes(ctx context.Context, days int) ([]TypeCount, error) {
	days = clampDays(days)
	events, err := s.listWindow(ctx, days)
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, event := range events {
		if event.Action != ActionUpload {
			continue
		}
		fileType, _ := event.Metadata["file_type"].(string)
		if fileType == "" {
			fileType = "unknown"
		}
		counts[fileType]++
	}
	out := make([]TypeCount, 0, len(counts))
	for fileType, count := range counts {
		out = append(out, TypeCount{FileType: fileType, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].FileType < out[j].FileType
	})
	return out, nil
}

// LevelEffectiveness is average confidence for one simplification level.
type LevelEffectiveness struct {
	Level         string  `json:"simplification_level"`
	Count         int     `json:"count"`
	AvgConfidence float64 `json:"avg_confidence_score"`
}

// Effectiveness reports average confidence per simplification level over
// the trailing window.
func (s *Service) Effectiveness(ctx context.Context, days int) ([]LevelEffectiveness, error) {
	days = clampDays(days)
	events, err := s.listWindow(ctx, days)
	if err != nil {
		return nil, err
	}
	type acc struct {
		count int
		sum   float64
	}
	byLevel := map[string]*acc{}
	for _, event := range events {
		if event.Action != ActionProcess || event.SimplificationLevel == "" || event.ConfidenceScore == nil {
			continue
		}
		a := byLevel[event.SimplificationLevel]
		if a == nil {
			a = &acc{}
			byLevel[event.SimplificationLevel] = a
		}
		a.count++
		a.sum += *event.ConfidenceScore
	}
	out := make([]LevelEffectiveness, 0, len(byLevel))
	for level, a := range byLevel {
		out = append(out, LevelEffectiveness{
			Level:         level,
			Count:         a.count,
			AvgConfidence: round2(a.sum / float64(a.count)),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Level < out[j].Level })
	return out, nil
}

func (s *Service) listWindow(ctx context.Context, days int) ([]Event, error) {
	since := s.now().UTC().AddDate(0, 0, -days)
	return s.Store.ListSince(ctx, since)
}

func clampDays(days int) int {
	if days <= 0 {
		return 30
	}
	if days > 365 {
		return 365
	}
	return days
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
