package util

import (
	"errors"
	"path/filepath"
	"strings"
	"unicode"
)

const maxFileNameLength = 200

// SanitizeFileName strips path components and unsafe runes from an uploaded
// file name, preserving the extension.
func SanitizeFileName(name string) (string, error) {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSpace(base)
	if base == "" || base == "." || base == ".." {
		return "", errors.New("invalid file name")
	}

	var b strings.Builder
	for _, r := range base {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	out := b.String()
	if len(out) > maxFileNameLength {
		ext := filepath.Ext(out)
		out = out[:maxFileNameLength-len(ext)] + ext
	}
	if strings.Trim(out, "._") == "" {
		return "", errors.New("invalid file name")
	}
	return out, nil
}
