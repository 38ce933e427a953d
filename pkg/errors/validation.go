package errors

import (
	"math"
	"strings"
	"unicode"
)

// ValidateContainerID validates the identifier used to look up a container
// element in the host tree.
//
// The rules mirror what a host selector accepts:
//   - No empty identifiers
//   - No whitespace or control characters
//   - No leading '#' (the host adds its own selector prefix)
//   - Maximum length of 256 characters
func ValidateContainerID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidConfig, "container id cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidConfig, "container id too long (max 256 characters)")
	}

	if strings.HasPrefix(id, "#") {
		return New(ErrCodeInvalidConfig, "container id %q must not include the '#' prefix", id)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidConfig, "container id %q contains whitespace or control characters", id)
		}
	}

	return nil
}

// ValidateCellSize validates a cell dimension in pixels.
// The size must be a finite number greater than zero.
func ValidateCellSize(name string, px float64) error {
	if math.IsNaN(px) || math.IsInf(px, 0) {
		return New(ErrCodeInvalidConfig, "%s must be a finite number", name)
	}
	if px <= 0 {
		return New(ErrCodeInvalidConfig, "%s must be positive, got %v", name, px)
	}
	return nil
}

// ValidatePath validates a scene or output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
