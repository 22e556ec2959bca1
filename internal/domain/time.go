package domain

import "strings"

// IsISOTimestamp reports whether s looks like a UTC ISO-8601 timestamp.
// Minimal check only; the schema layer owns stricter validation.
func IsISOTimestamp(s string) bool {
	return strings.Contains(s, "T") && strings.HasSuffix(s, "Z")
}
