package simplify

import "time"

// ProcessRequest selects processing options for a document.
type ProcessRequest struct {
	SimplificationLevel string `json:"simplification_level"`
	TargetAudience      string `json:"target_audience"`
	IncludeOriginal     bool   `json:"include_original"`
}

// BatchProcessRequest selects processing options for several documents.
type BatchProcessRequest struct {
	DocumentIDs         []string `json:"document_ids"`
	SimplificationLevel string   `json:"simplification_level"`
	TargetAudience      string   `json:"target_audience"`
	IncludeOriginal     bool     `json:"include_original"`
}

// QuestionRequest carries a Q&A question for a processed document.
type QuestionRequest struct {
	Question string `json:"question"`
}

// ResultResponse is the outward-facing simplified document.
type ResultResponse struct {
	DocumentID           string            `json:"document_id"`
	OriginalFilename     string            `json:"original_filename"`
	Summary              string            `json:"summary"`
	KeyPoints            []string          `json:"key_points"`
	ImportantTerms       map[string]string `json:"important_terms"`
	DeadlinesObligations []string          `json:"deadlines_obligations"`
	Warnings             []string          `json:"warnings"`
	NextSteps            []string          `json:"next_steps"`
	ProcessingTimestamp  time.Time         `json:"processing_timestamp"`
	SimplificationLevel  string            `json:"simplification_level"`
	ConfidenceScore      float64           `json:"confidence_score"`
	OriginalText         string            `json:"original_text,omitempty"`
	WordCountOriginal    int               `json:"word_count_original"`
	WordCountSimplified  int               `json:"word_count_simplified"`
	ReadingLevel         string            `json:"reading_level"`
}

// BatchOutcomeResponse reports one document's batch outcome.
type BatchOutcomeResponse struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

func toResultResponse(doc SimplifiedDocument) ResultResponse {
	return ResultResponse{
		DocumentID:           doc.DocumentID,
		OriginalFilename:     doc.OriginalFilename,
		Summary:              doc.Summary,
		KeyPoints:            doc.KeyPoints,
		ImportantTerms:       doc.ImportantTerms,
		DeadlinesObligations: doc.DeadlinesObligations,
		Warnings:             doc.Warnings,
		NextSteps:            doc.NextSteps,
		ProcessingTimestamp:  doc.ProcessingTimestamp,
		SimplificationLevel:  doc.SimplificationLevel,
		ConfidenceScore:      doc.ConfidenceScore,
		OriginalText:         doc.OriginalText,
		WordCountOriginal:    doc.WordCountOriginal,
		WordCountSimplified:  doc.WordCountSimplified,
		ReadingLevel:         doc.ReadingLevel,
	}
}
