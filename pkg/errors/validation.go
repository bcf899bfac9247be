package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds layer and container identifiers.
const maxIDLength = 256

// ValidateLayerID validates a layer identity for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateLayerID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidLayer, "layer id cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidLayer, "layer id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLayer, "layer id %q contains invalid control characters", id)
		}
	}

	return nil
}

// ValidateContainerName validates a container name. Empty names are
// allowed; hosts frequently leave unnamed frames.
func ValidateContainerName(name string) error {
	if len(name) > maxIDLength {
		return New(ErrCodeInvalidInput, "container name too long (max %d characters)", maxIDLength)
	}
	if strings.ContainsRune(name, '\x00') {
		return New(ErrCodeInvalidInput, "container name contains a null byte")
	}
	return nil
}
