package analytics

import "time"

// Actions recorded by the event stream.
const (
	ActionUpload   = "upload"
	ActionProcess  = "process"
	ActionView     = "view"
	ActionDownload = "download"
	ActionQA       = "qa"
	ActionDelete   = "delete"
	ActionError    = "error"
	ActionFeedback = "feedback"
)

var validActions = map[string]bool{
	ActionUpload:   true,
	ActionProcess:  true,
	ActionView:     true,
	ActionDownload: true,
	ActionQA:       true,
	ActionDelete:   true,
	ActionError:    true,
	ActionFeedback: true,
}

// ValidAction reports whether the action name is known.
func ValidAction(action string) bool {
	return validActions[action]
}

// Event is one append-only analytics record. Events are never updated or
// deleted; aggregates are derived by reading the stream.
type Event struct {
	ID                  int64
	DocumentID          string
	UserID              string
	Action              string
	Timestamp           time.Time
	Metadata            map[string]any
	ProcessingTime      *float64
	FileSize            *int64
	SimplificationLevel string
	ConfidenceScore     *float64
	UserFeedback        string
}
