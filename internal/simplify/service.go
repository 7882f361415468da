package simplify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"legaldoc-backend/internal/documents"
	"legaldoc-backend/internal/extract"
	"legaldoc-backend/internal/llm"
	"legaldoc-backend/internal/shared/metrics"
	"legaldoc-backend/internal/shared/storage/object"
	"legaldoc-backend/internal/shared/telemetry"
)

// Enqueuer hands processing jobs to a background worker. When nil, batch
// requests are processed inline.
type Enqueuer interface {
	EnqueueProcess(ctx context.Context, documentID, level, audience, requestID string, includeOriginal bool) error
}

// Service orchestrates the extraction and simplification pipeline.
type Service struct {
	Repo      Repo
	DocRepo   documents.Repo
	Store     object.ObjectStore
	Extractor *extract.Engine
	LLM       llm.Client
	Analytics documents.AnalyticsSink
	Queue     Enqueuer
	Model     string
}

// ProcessResult pairs the stored result with whether this call reused a
// previous run.
type ProcessResult struct {
	Document documents.Document
	Result   SimplifiedDocument
	Reused   bool
}

// Process runs the full pipeline for one document. It is idempotent: a
// document that already completed returns its stored result without touching
// the LLM again. Every failure path marks the document failed with a recorded
// reason before returning.
func (s *Service) Process(ctx context.Context, documentID string, opts Options) (ProcessResult, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return ProcessResult{}, err
	}

	doc, err := s.DocRepo.GetByID(ctx, documentID)
	if err != nil {
		return ProcessResult{}, err
	}

	switch doc.Status {
	case documents.StatusCompleted:
		existing, err := s.Repo.GetByID(ctx, documentID)
		if err == nil {
			return ProcessResult{Document: doc, Result: existing, Reused: true}, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return ProcessResult{}, err
		}
		// Completed but no stored result: reprocess.
	case documents.StatusProcessing:
		return ProcessResult{}, ErrInProgress
	}

	startedAt := time.Now().UTC()
	if err := s.DocRepo.UpdateStatus(ctx, documentID, documents.StatusProcessing, ""); err != nil {
		return ProcessResult{}, err
	}
	metrics.IncProcessingStarted()
	s.logStatus(ctx, doc, string(doc.Status)+"->processing", 0)

	result, err := s.runPipeline(ctx, doc, opts, startedAt)
	if err != nil {
		s.failProcessing(ctx, doc, err, startedAt)
		return ProcessResult{}, err
	}

	completedAt := time.Now().UTC()
	update := documents.ProcessingUpdate{
		Status:              documents.StatusCompleted,
		ProcessingTimestamp: completedAt,
		ExtractionMethod:    result.extraction.Method,
		OCRConfidence:       result.extraction.OCRConfidence,
		LanguageDetected:    result.extraction.Language,
		ProcessedPath:       result.processedPath,
	}
	if err := s.DocRepo.UpdateProcessingResult(ctx, documentID, update); err != nil {
		s.failProcessing(ctx, doc, fmt.Errorf("record completion: %w", err), startedAt)
		return ProcessResult{}, err
	}

	durationMs := float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0
	metrics.IncProcessingCompleted()
	metrics.ObserveProcessingDurationMs(durationMs)
	s.logStatus(ctx, doc, "processing->completed", durationMs)

	if s.Analytics != nil {
		s.Analytics.Record(ctx, "process", doc.ID, doc.UserID, map[string]any{
			"processing_time":      completedAt.Sub(startedAt).Seconds(),
			"simplification_level": opts.Level,
			"confidence_score":     result.stored.ConfidenceScore,
			"file_size":            doc.FileSize,
		})
	}

	doc.Status = documents.StatusCompleted
	return ProcessResult{Document: doc, Result: result.stored}, nil
}

type pipelineOutput struct {
	stored        SimplifiedDocument
	extraction    extract.Result
	processedPath string
}

func (s *Service) runPipeline(ctx context.Context, doc documents.Document, opts Options, startedAt time.Time) (pipelineOutput, error) {
	if s.Store == nil || s.Extractor == nil {
		return pipelineOutput{}, errors.New("missing extraction dependencies")
	}
	if s.LLM == nil {
		return pipelineOutput{}, errors.New("missing llm client")
	}

	data, err := s.loadOriginal(ctx, doc.StoragePath)
	if err != nil {
		return pipelineOutput{}, fmt.Errorf("load original: %w", err)
	}

	extracted, err := s.Extractor.ExtractText(ctx, data, doc.FileType)
	if err != nil {
		return pipelineOutput{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	requestID := requestIDFromContext(ctx)
	llmClient := newRetryingLLM(s.LLM, doc.ID, requestID)

	input := llm.SimplifyInput{
		DocumentText: extracted.Text,
		Level:        opts.Level,
		Audience:     opts.Audience,
	}
	raw, err := llmClient.SimplifyDocument(ctx, input)
	if err != nil {
		return pipelineOutput{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	parsed, err := ParseLLMResult(raw)
	if err != nil {
		// One repair round trip before giving up.
		rawRetry, retryErr := llmClient.SimplifyDocument(llm.WithFixJSON(ctx, string(raw)), input)
		if retryErr != nil {
			return pipelineOutput{}, fmt.Errorf("%w: %v", ErrUpstream, retryErr)
		}
		parsed, err = ParseLLMResult(rawRetry)
		if err != nil {
			return pipelineOutput{}, err
		}
	}

	confidence := parsed.ConfidenceScore
	if confidence == 0 {
		confidence = HeuristicConfidence(parsed)
	}
	simplified := simplifiedText(parsed)

	// Word counts always come from the extracted text; the text itself is
	// only stored when the caller asked for it.
	originalText := ""
	if opts.IncludeOriginal {
		originalText = extracted.Text
	}

	stored := SimplifiedDocument{
		DocumentID:           doc.ID,
		OriginalFilename:     doc.Filename,
		Summary:              parsed.Summary,
		KeyPoints:            parsed.KeyPoints,
		ImportantTerms:       parsed.ImportantTerms,
		DeadlinesObligations: parsed.DeadlinesObligations,
		Warnings:             parsed.Warnings,
		NextSteps:            parsed.NextSteps,
		ProcessingTimestamp:  time.Now().UTC(),
		SimplificationLevel:  opts.Level,
		ConfidenceScore:      confidence,
		OriginalText:         originalText,
		WordCountOriginal:    WordCount(extracted.Text),
		WordCountSimplified:  WordCount(simplified),
		ReadingLevel:         ReadingLevel(simplified),
	}

	// The result row lands before the document flips to completed, so a
	// completed document always has a readable result.
	if err := s.Repo.Upsert(ctx, stored); err != nil {
		return pipelineOutput{}, fmt.Errorf("store result: %w", err)
	}

	processedPath := s.saveRendered(ctx, doc, stored)

	return pipelineOutput{stored: stored, extraction: extracted, processedPath: processedPath}, nil
}

// saveRendered persists the markdown view next to the original. Failure is
// non-fatal; the download endpoint renders on the fly.
func (s *Service) saveRendered(ctx context.Context, doc documents.Document, stored SimplifiedDocument) string {
	key := doc.StoragePath + ".simplified.md"
	md := RenderMarkdown(stored)
	if _, err := s.Store.SaveWithKey(ctx, key, "text/markdown; charset=utf-8", strings.NewReader(md)); err != nil {
		telemetry.Warn("simplify.save_rendered_failed", map[string]any{
			"document_id": doc.ID,
			"error":       err.Error(),
		})
		return ""
	}
	return key
}

func (s *Service) loadOriginal(ctx context.Context, storagePath string) ([]byte, error) {
	body, err := s.Store.Open(ctx, storagePath)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

// failProcessing flips the document to failed with the recorded reason. It
// uses a background context so cancellation of the request cannot leave the
// document stuck in processing.
func (s *Service) failProcessing(ctx context.Context, doc documents.Document, cause error, startedAt time.Time) {
	completedAt := time.Now().UTC()
	update := documents.ProcessingUpdate{
		Status:              documents.StatusFailed,
		ProcessingTimestamp: completedAt,
		ErrorMessage:        sanitizeError(cause),
	}
	if err := s.DocRepo.UpdateProcessingResult(context.Background(), doc.ID, update); err != nil {
		telemetry.Error("simplify.fail_update_failed", map[string]any{
			"document_id": doc.ID,
			"error":       err.Error(),
			"cause":       sanitizeError(cause),
		})
	}

	durationMs := float64(completedAt.Sub(startedAt).Microseconds()) / 1000.0
	metrics.IncProcessingFailed()
	metrics.ObserveProcessingDurationMs(durationMs)
	s.logStatus(ctx, doc, "processing->failed", durationMs)

	if s.Analytics != nil {
		s.Analytics.Record(context.Background(), "error", doc.ID, doc.UserID, map[string]any{
			"error": sanitizeError(cause),
		})
	}
}

func (s *Service) logStatus(ctx context.Context, doc documents.Document, transition string, durationMs float64) {
	fields := map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"document_id":       doc.ID,
		"user_id":           doc.UserID,
		"status_transition": transition,
	}
	if durationMs > 0 {
		fields["duration_ms"] = durationMs
	}
	telemetry.Info("processing.status", fields)
}

// Get returns the stored result for a completed document.
func (s *Service) Get(ctx context.Context, documentID string) (SimplifiedDocument, documents.Document, error) {
	doc, err := s.DocRepo.GetByID(ctx, documentID)
	if err != nil {
		return SimplifiedDocument{}, documents.Document{}, err
	}
	if doc.Status != documents.StatusCompleted {
		return SimplifiedDocument{}, doc, ErrNotProcessed
	}
	result, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return SimplifiedDocument{}, doc, err
	}
	return result, doc, nil
}

// BatchOutcome reports the per-document result of a batch request.
type BatchOutcome struct {
	DocumentID string
	Status     string
	Error      string
}

const maxBatchSize = 10

// ProcessBatch runs processing for up to maxBatchSize documents. With a queue
// configured the jobs are enqueued for the worker; otherwise they run inline,
// sequentially, and individual failures do not abort the batch.
func (s *Service) ProcessBatch(ctx context.Context, documentIDs []string, opts Options) ([]BatchOutcome, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return nil, err
	}
	if len(documentIDs) == 0 {
		return nil, errors.New("document_ids is required")
	}
	if len(documentIDs) > maxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds the maximum of %d", len(documentIDs), maxBatchSize)
	}

	requestID := requestIDFromContext(ctx)
	outcomes := make([]BatchOutcome, 0, len(documentIDs))
	for _, id := range documentIDs {
		if s.Queue != nil {
			if err := s.Queue.EnqueueProcess(ctx, id, opts.Level, opts.Audience, requestID, opts.IncludeOriginal); err != nil {
				outcomes = append(outcomes, BatchOutcome{DocumentID: id, Status: "error", Error: sanitizeError(err)})
				continue
			}
			outcomes = append(outcomes, BatchOutcome{DocumentID: id, Status: "queued"})
			continue
		}

		if _, err := s.Process(ctx, id, opts); err != nil {
			outcomes = append(outcomes, BatchOutcome{DocumentID: id, Status: "failed", Error: sanitizeError(err)})
			continue
		}
		outcomes = append(outcomes, BatchOutcome{DocumentID: id, Status: "completed"})
	}
	return outcomes, nil
}

// Answer runs document Q&A over a processed document's original text.
func (s *Service) Answer(ctx context.Context, documentID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", errors.New("question is required")
	}

	result, doc, err := s.Get(ctx, documentID)
	if err != nil {
		return "", err
	}
	if s.LLM == nil {
		return "", errors.New("missing llm client")
	}

	text := result.OriginalText
	if text == "" {
		text = result.Summary
	}

	llmClient := newRetryingLLM(s.LLM, documentID, requestIDFromContext(ctx))
	answer, err := llmClient.AnswerQuestion(ctx, llm.QuestionInput{
		DocumentText: text,
		Question:     question,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if s.Analytics != nil {
		s.Analytics.Record(ctx, "qa", documentID, doc.UserID, map[string]any{
			"question_length": len(question),
		})
	}
	return answer, nil
}

// Download renders the stored result as markdown.
func (s *Service) Download(ctx context.Context, documentID string) (string, SimplifiedDocument, error) {
	result, doc, err := s.Get(ctx, documentID)
	if err != nil {
		return "", SimplifiedDocument{}, err
	}
	if s.Analytics != nil {
		s.Analytics.Record(ctx, "download", documentID, doc.UserID, nil)
	}
	return RenderMarkdown(result), result, nil
}
