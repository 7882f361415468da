package analytics

import (
	"errors"
	"fmt"
)

// ErrMissingDocument indicates a tracked event had no document reference.
var ErrMissingDocument = errors.New("analytics: document id is required")

// InvalidActionError indicates a tracked event named an unknown action.
type InvalidActionError struct {
	Action string
}

func (e *InvalidActionError) Error() string {
	return fmt.Sprintf("analytics: unknown action %q", e.Action)
}
