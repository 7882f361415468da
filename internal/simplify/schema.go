package simplify

import (
	"encoding/json"
	"fmt"
	"strings"
)

// llmResult is the shape the simplification prompt asks the model to return.
type llmResult struct {
	Summary              string            `json:"summary"`
	KeyPoints            []string          `json:"key_points"`
	ImportantTerms       map[string]string `json:"important_terms"`
	DeadlinesObligations []string          `json:"deadlines_obligations"`
	Warnings             []string          `json:"warnings"`
	NextSteps            []string          `json:"next_steps"`
	ConfidenceScore      float64           `json:"confidence_score"`
}

// ParseLLMResult decodes and validates the model payload. A payload that
// decodes but misses required content returns ErrInvalidResult so the caller
// can fail the run instead of persisting garbage.
func ParseLLMResult(raw json.RawMessage) (llmResult, error) {
	var parsed llmResult
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return llmResult{}, fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}

	parsed.Summary = strings.TrimSpace(parsed.Summary)
	parsed.KeyPoints = cleanList(parsed.KeyPoints)
	parsed.ImportantTerms = cleanTerms(parsed.ImportantTerms)
	parsed.DeadlinesObligations = cleanList(parsed.DeadlinesObligations)
	parsed.Warnings = cleanList(parsed.Warnings)
	parsed.NextSteps = cleanList(parsed.NextSteps)

	if parsed.Summary == "" {
		return llmResult{}, fmt.Errorf("%w: summary is empty", ErrInvalidResult)
	}
	if len(parsed.KeyPoints) == 0 {
		return llmResult{}, fmt.Errorf("%w: key_points is empty", ErrInvalidResult)
	}

	if parsed.ConfidenceScore < 0 {
		parsed.ConfidenceScore = 0
	}
	if parsed.ConfidenceScore > 1 {
		parsed.ConfidenceScore = 1
	}
	return parsed, nil
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func cleanTerms(terms map[string]string) map[string]string {
	out := make(map[string]string, len(terms))
	for term, definition := range terms {
		term = strings.TrimSpace(term)
		definition = strings.TrimSpace(definition)
		if term == "" || definition == "" {
			continue
		}
		out[term] = definition
	}
	return out
}
