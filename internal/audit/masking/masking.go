// Package masking redacts personal contact details before they land in
// audit log metadata. Clinic staff need enough of a value to recognize it,
// not the whole thing.
package masking

import "strings"

const maskToken = "****"

// Sensitive keys whose string values are redacted by MaskMetadata.
var sensitiveKeys = map[string]struct{}{
	"phone":     {},
	"email":     {},
	"address":   {},
	"id_number": {},
	"reference": {},
	"microchip": {},
}

// MaskTail redacts a value while keeping the last four characters, so a
// masked phone number or payment reference stays recognizable.
func MaskTail(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) <= 4 {
		return maskToken
	}
	return maskToken + trimmed[len(trimmed)-4:]
}

// MaskMetadata returns a copy of the input with sensitive string values
// redacted. Nested maps and slices are walked; non-sensitive keys pass
// through untouched.
func MaskMetadata(input map[string]any) map[string]any {
	if len(input) == 0 {
		return nil
	}

	masked := make(map[string]any, len(input))
	for key, value := range input {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" {
			continue
		}
		masked[trimmedKey] = maskValue(trimmedKey, value)
	}

	if len(masked) == 0 {
		return nil
	}
	return masked
}

func maskValue(key string, value any) any {
	switch cast := value.(type) {
	case string:
		if _, ok := sensitiveKeys[key]; ok {
			return MaskTail(cast)
		}
		return cast
	case map[string]any:
		return MaskMetadata(cast)
	case []any:
		out := make([]any, 0, len(cast))
		for _, item := range cast {
			out = append(out, maskValue(key, item))
		}
		return out
	default:
		return value
	}
}
