package documents

import "errors"

var (
	// ErrNotFound indicates the document does not exist or was deleted.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidInput indicates a malformed request.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError reports why an upload was rejected before any byte was
// stored. Code distinguishes size violations from type violations so handlers
// can pick the right HTTP status.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

const (
	ValidationCodeTooLarge        = "file_too_large"
	ValidationCodeUnsupportedType = "unsupported_file_type"
	ValidationCodeEmptyFile       = "empty_file"
	ValidationCodeInvalidName     = "invalid_file_name"
)
