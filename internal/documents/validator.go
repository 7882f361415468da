package documents

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// allowedTypes maps acceptable MIME types to their coarse file category.
var allowedTypes = map[string]FileType{
	"application/pdf":    FileTypePDF,
	"application/msword": FileTypeDoc,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": FileTypeDocx,
	"image/jpeg": FileTypeImage,
	"image/png":  FileTypeImage,
	"image/tiff": FileTypeImage,
	"text/plain": FileTypeText,
}

var extensionTypes = map[string]FileType{
	".pdf":  FileTypePDF,
	".doc":  FileTypeDoc,
	".docx": FileTypeDocx,
	".jpg":  FileTypeImage,
	".jpeg": FileTypeImage,
	".png":  FileTypeImage,
	".tif":  FileTypeImage,
	".tiff": FileTypeImage,
	".txt":  FileTypeText,
}

// ValidateUpload checks an upload before any byte is stored. It is a pure
// function over the declared metadata: size against maxSize and content type
// against the allow-list, falling back to the filename extension when the
// declared type is missing or generic.
func ValidateUpload(filename, contentType string, size, maxSize int64) (FileType, *ValidationError) {
	if size <= 0 {
		return "", &ValidationError{
			Code:    ValidationCodeEmptyFile,
			Message: "uploaded file is empty",
		}
	}
	if size > maxSize {
		return "", &ValidationError{
			Code: ValidationCodeTooLarge,
			Message: fmt.Sprintf("file size %.1fMB exceeds the %dMB limit",
				float64(size)/(1<<20), maxSize/(1<<20)),
		}
	}

	fileType, ok := resolveFileType(filename, contentType)
	if !ok {
		declared := contentType
		if declared == "" {
			declared = "unknown"
		}
		return "", &ValidationError{
			Code: ValidationCodeUnsupportedType,
			Message: fmt.Sprintf("unsupported file type %q: allowed types are PDF, Word documents (.doc/.docx), images (JPEG/PNG/TIFF) and plain text",
				declared),
		}
	}
	return fileType, nil
}

func resolveFileType(filename, contentType string) (FileType, bool) {
	normalized := normalizeContentType(contentType)
	if ft, ok := allowedTypes[normalized]; ok {
		return ft, true
	}
	// Browsers sometimes send a generic type for .docx or none at all.
	if normalized == "" || normalized == "application/octet-stream" {
		ext := strings.ToLower(filepath.Ext(filename))
		if ft, ok := extensionTypes[ext]; ok {
			return ft, true
		}
	}
	return "", false
}

func normalizeContentType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		return strings.ToLower(parsed)
	}
	return strings.ToLower(contentType)
}
