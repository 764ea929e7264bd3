package utils

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// Payload size limits (in bytes)
const (
	MaxJSONSize  = 1 * 1024 * 1024 // stroke uploads and API bodies
	MaxFrameSize = 8 * 1024 * 1024 // screen captures
)

// String length limits
const (
	MaxIDLength   = 128
	MaxNameLength = 256
	MaxArgLength  = 512
)

// Ink limits
const (
	MaxStrokesPerRequest = 64
	MaxPointsPerStroke   = 4096
)

// SafeIDPattern allows alphanumeric, hyphens, underscores
var SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var namePolicy = bluemonday.StrictPolicy()

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateID validates an ID field
func ValidateID(id, fieldName string, required bool) error {
	if err := ValidateString(id, fieldName, 1, MaxIDLength, required); err != nil {
		return err
	}

	if id != "" && !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters (only alphanumeric, hyphens, and underscores allowed)", fieldName)
	}

	return nil
}

// SanitizeName strips markup from a user-supplied entity name and trims
// surrounding whitespace. Names are rendered as icon labels by the front end.
func SanitizeName(name string) string {
	return strings.TrimSpace(html.UnescapeString(namePolicy.Sanitize(name)))
}

// CleanName sanitizes and validates an entity name in one step
func CleanName(name string) (string, error) {
	cleaned := SanitizeName(name)
	if err := ValidateString(cleaned, "name", 1, MaxNameLength, true); err != nil {
		return "", err
	}
	return cleaned, nil
}

// ValidateStrokeCount checks the number of strokes in a single upload
func ValidateStrokeCount(n int) error {
	if n == 0 {
		return fmt.Errorf("at least one stroke is required")
	}
	if n > MaxStrokesPerRequest {
		return fmt.Errorf("too many strokes (maximum %d)", MaxStrokesPerRequest)
	}
	return nil
}

// ValidatePointCount checks the number of points in one stroke
func ValidatePointCount(index, n int) error {
	if n == 0 {
		return fmt.Errorf("stroke[%d] has no points", index)
	}
	if n > MaxPointsPerStroke {
		return fmt.Errorf("stroke[%d] has too many points (maximum %d)", index, MaxPointsPerStroke)
	}
	return nil
}
