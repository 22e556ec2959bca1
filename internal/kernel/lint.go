package kernel

import (
	"github.com/roach88/decisiongraph/internal/domain"
	"github.com/roach88/decisiongraph/internal/policy"
)

// LintResult is the outcome of whole-store validation. OK is true when no
// violations were found at any severity.
type LintResult struct {
	OK         bool               `json:"ok"`
	Violations []domain.Violation `json:"violations,omitempty"`
}

// Failed reports whether the result fails a run. WARN fails only when
// strict is set; INFO never fails.
func (r LintResult) Failed(strict bool) bool {
	return domain.HasFailure(r.Violations, strict)
}

// Lint runs the constitutional store checks followed by p's, merged into
// one sorted list. A nil p adds no checks.
func Lint(s domain.Store, p policy.Policy) LintResult {
	vs := constitution.ValidateStore(s)
	if p != nil {
		vs = append(vs, p.ValidateStore(s)...)
	}
	if len(vs) == 0 {
		return LintResult{OK: true}
	}
	domain.SortViolations(vs)
	return LintResult{Violations: vs}
}
