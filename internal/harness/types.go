package harness

import (
	"github.com/roach88/decisiongraph/internal/domain"
	"github.com/roach88/decisiongraph/internal/kernel"
)

// TraceEvent is the outcome of one op, in application order.
type TraceEvent struct {
	Seq     int            `json:"seq"`
	GraphID domain.GraphID `json:"graph_id"`
	OpType  domain.OpType  `json:"op_type"`
	Type    string         `json:"type"`
	Codes   []string       `json:"codes,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace holds one event per op across all logs.
	Trace []TraceEvent `json:"trace"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Lint is the final store's lint result.
	Lint kernel.LintResult `json:"lint"`

	// Store is the final store.
	Store domain.Store `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		Store:  domain.EmptyStore(),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddEvent appends a kernel event to the trace.
func (r *Result) AddEvent(graphID domain.GraphID, ev kernel.Event) {
	te := TraceEvent{
		Seq:     len(r.Trace),
		GraphID: graphID,
		OpType:  ev.OpType,
		Type:    string(ev.Type),
	}
	if ev.Err != nil {
		for _, v := range ev.Err.Violations {
			te.Codes = append(te.Codes, v.Code)
		}
	}
	r.Trace = append(r.Trace, te)
}
