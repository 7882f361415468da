package simplify

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates no simplified result exists for the document.
	ErrNotFound = errors.New("simplified document not found")
	// ErrNotProcessed indicates the document has not completed processing yet.
	ErrNotProcessed = errors.New("document has not been processed")
	// ErrInProgress indicates another processing run holds the document.
	ErrInProgress = errors.New("document is already being processed")
	// ErrExtraction indicates every extraction strategy failed.
	ErrExtraction = errors.New("text extraction failed")
	// ErrUpstream indicates the LLM provider failed after retries.
	ErrUpstream = errors.New("simplification service unavailable")
	// ErrInvalidResult indicates the model output failed schema validation.
	ErrInvalidResult = errors.New("model returned an unusable result")
)

// OptionError reports an unknown processing option value.
type OptionError struct {
	Field string
	Value string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("invalid %s: %q", e.Field, e.Value)
}
