package client

import (
	"legaldoc-backend/internal/documents"
	"legaldoc-backend/internal/shared/config"
)

// FileCheck is the pre-flight verdict for a selected file. Rejected files
// never leave the machine: callers must not start an upload when OK is false.
type FileCheck struct {
	OK       bool
	FileType string
	Code     string
	Message  string
}

// CheckFile validates a file selection against the same rules the server
// enforces, so rejections happen before any bytes move.
func CheckFile(filename, contentType string, size int64) FileCheck {
	return CheckFileWithLimit(filename, contentType, size, config.MaxFileSizeDefault)
}

// CheckFileWithLimit is CheckFile with an explicit size ceiling.
func CheckFileWithLimit(filename, contentType string, size, maxSize int64) FileCheck {
	fileType, verr := documents.ValidateUpload(filename, contentType, size, maxSize)
	if verr != nil {
		return FileCheck{
			Code:    verr.Code,
			Message: verr.Message,
		}
	}
	return FileCheck{
		OK:       true,
		FileType: string(fileType),
	}
}
