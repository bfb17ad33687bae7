package errors

import (
	"strings"
	"unicode"
)

// validFormats are the serialization formats the pipeline can produce.
var validFormats = map[string]bool{
	"dot": true,
	"xml": true,
	"svg": true,
	"png": true,
}

// ValidateFormat validates an output format name.
func ValidateFormat(format string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "output format cannot be empty")
	}
	if !validFormats[format] {
		return New(ErrCodeInvalidFormat, "unknown output format: %q (want dot, xml, svg, or png)", format)
	}
	return nil
}

// ValidateLabel validates a proposition label for safety. Labels end up in
// file names, report documents, and cache keys, so the rules are
// intentionally conservative:
//   - No empty labels
//   - No control characters or null bytes
//   - No path separators
//   - Maximum length of 256 characters
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidLabel, "proposition label cannot be empty")
	}

	if len(label) > 256 {
		return New(ErrCodeInvalidLabel, "proposition label too long (max 256 characters)")
	}

	for _, r := range label {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLabel, "proposition label contains invalid control characters")
		}
	}

	if strings.ContainsAny(label, "/\\") {
		return New(ErrCodeInvalidLabel, "proposition label cannot contain path separators")
	}

	return nil
}

// ValidateOutputPath validates a user-supplied output path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "output path cannot contain path traversal sequences (..)")
	}

	return nil
}
