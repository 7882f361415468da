package documents

import "time"

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	DocumentID      string    `json:"document_id"`
	Filename        string    `json:"filename"`
	FileType        string    `json:"file_type"`
	FileSize        int64     `json:"file_size"`
	Status          string    `json:"status"`
	UploadTimestamp time.Time `json:"upload_timestamp"`
	Message         string    `json:"message"`
}

// MetadataResponse is the outward-facing representation of stored metadata.
type MetadataResponse struct {
	DocumentID          string     `json:"document_id"`
	Filename            string     `json:"filename"`
	FileType            string     `json:"file_type"`
	FileSize            int64      `json:"file_size"`
	UploadTimestamp     time.Time  `json:"upload_timestamp"`
	ProcessingTimestamp *time.Time `json:"processing_timestamp,omitempty"`
	Status              string     `json:"status"`
	UserID              string     `json:"user_id,omitempty"`
	ExtractionMethod    string     `json:"extraction_method,omitempty"`
	OCRConfidence       *float64   `json:"ocr_confidence,omitempty"`
	LanguageDetected    string     `json:"language_detected,omitempty"`
	ErrorMessage        string     `json:"error_message,omitempty"`
}

func toUploadResponse(doc Document) UploadResponse {
	return UploadResponse{
		DocumentID:      doc.ID,
		Filename:        doc.Filename,
		FileType:        string(doc.FileType),
		FileSize:        doc.FileSize,
		Status:          string(doc.Status),
		UploadTimestamp: doc.UploadTimestamp,
		Message:         "Document uploaded successfully. Use the document_id to request processing.",
	}
}

func toMetadataResponse(doc Document) MetadataResponse {
	return MetadataResponse{
		DocumentID:          doc.ID,
		Filename:            doc.Filename,
		FileType:            string(doc.FileType),
		FileSize:            doc.FileSize,
		UploadTimestamp:     doc.UploadTimestamp,
		ProcessingTimestamp: doc.ProcessingTimestamp,
		Status:              string(doc.Status),
		UserID:              doc.UserID,
		ExtractionMethod:    doc.ExtractionMethod,
		OCRConfidence:       doc.OCRConfidence,
		LanguageDetected:    doc.LanguageDetected,
		ErrorMessage:        doc.ErrorMessage,
	}
}
