package persistence

import "strings"

// ValidateSortOrder returns a safe sort direction, defaulting to desc.
// Sort input reaches raw SQL so it is allow-listed, never interpolated.
func ValidateSortOrder(dir string) string {
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "asc":
		return "asc"
	case "desc":
		return "desc"
	default:
		return "desc"
	}
}

// ValidateSortField returns field when it is in the allowed set,
// otherwise fallback.
func ValidateSortField(field string, allowed map[string]bool, fallback string) string {
	field = strings.ToLower(strings.TrimSpace(field))
	if allowed[field] {
		return field
	}
	return fallback
}
