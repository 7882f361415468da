package documents

import "time"

// Status tracks a document through its lifecycle. Transitions only move
// forward: uploaded -> processing -> completed|failed. A failed document may
// re-enter processing on a retry.
type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// FileType is the coarse category derived from the upload's content type.
type FileType string

const (
	FileTypePDF   FileType = "pdf"
	FileTypeDoc   FileType = "doc"
	FileTypeDocx  FileType = "docx"
	FileTypeImage FileType = "image"
	FileTypeText  FileType = "text"
)

// Document is the stored metadata for an uploaded legal document.
type Document struct {
	ID                  string
	Filename            string
	FileType            FileType
	FileSize            int64
	UploadTimestamp     time.Time
	ProcessingTimestamp *time.Time
	Status              Status
	UserID              string
	ExtractionMethod    string
	OCRConfidence       *float64
	LanguageDetected    string
	StoragePath         string
	ProcessedPath       string
	ErrorMessage        string
}

// ProcessingUpdate carries the fields written when a processing run finishes
// or fails. Status and ProcessingTimestamp are always applied; the rest only
// when non-zero.
type ProcessingUpdate struct {
	Status              Status
	ProcessingTimestamp time.Time
	ExtractionMethod    string
	OCRConfidence       *float64
	LanguageDetected    string
	ProcessedPath       string
	ErrorMessage        string
}
