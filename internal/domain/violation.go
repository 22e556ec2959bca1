package domain

import (
	"cmp"
	"slices"
)

// Severity grades a Violation.
type Severity string

const (
	SeverityError Severity = "ERROR" // hard failure
	SeverityWarn  Severity = "WARN"  // fails only in strict mode
	SeverityInfo  Severity = "INFO"  // diagnostic only
)

// Violation is a structured diagnostic produced by a Policy.
type Violation struct {
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Severity Severity          `json:"severity"`
	Path     string            `json:"path,omitempty"`
	Payload  map[string]string `json:"payload,omitempty"`
}

// SortViolations orders vs ascending by Code+Path. The sort is stable so
// ties keep discovery order.
func SortViolations(vs []Violation) {
	slices.SortStableFunc(vs, func(a, b Violation) int {
		return cmp.Compare(a.Code+a.Path, b.Code+b.Path)
	})
}

// HasFailure reports whether vs contains an ERROR, or a WARN when strict.
func HasFailure(vs []Violation, strict bool) bool {
	for _, v := range vs {
		switch v.Severity {
		case SeverityError:
			return true
		case SeverityWarn:
			if strict {
				return true
			}
		}
	}
	return false
}
