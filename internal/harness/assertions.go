package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/decisiongraph/internal/domain"
	"github.com/roach88/decisiongraph/internal/traverse"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s %s", ev.Seq, ev.GraphID, ev.OpType, ev.Type)
			if len(ev.Codes) > 0 {
				fmt.Fprintf(&buf, " %v", ev.Codes)
			}
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}

func evaluate(r *Result, a Assertion) error {
	switch a.Type {
	case AssertEvent:
		return assertEvent(r.Trace, a)
	case AssertRejectedCount:
		return assertRejectedCount(r.Trace, a)
	case AssertLint:
		return assertLint(r, a)
	case AssertNodeStatus:
		return assertNodeStatus(r.Store, a)
	case AssertEdgeStatus:
		return assertEdgeStatus(r.Store, a)
	case AssertTrace:
		return assertTrace(r.Store, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// assertEvent checks the outcome of the op at a.Op. When codes are given
// they must match the rejection codes exactly, in order.
func assertEvent(trace []TraceEvent, a Assertion) error {
	if a.Op >= len(trace) {
		return &AssertionError{
			Type:     AssertEvent,
			Expected: fmt.Sprintf("op %d %s", a.Op, a.Expect),
			Actual:   fmt.Sprintf("only %d ops ran", len(trace)),
			Trace:    trace,
		}
	}

	ev := trace[a.Op]
	if ev.Type != a.Expect || (len(a.Codes) > 0 && !slices.Equal(ev.Codes, a.Codes)) {
		return &AssertionError{
			Type:     AssertEvent,
			Expected: fmt.Sprintf("op %d %s %v", a.Op, a.Expect, a.Codes),
			Actual:   fmt.Sprintf("%s %v", ev.Type, ev.Codes),
			Trace:    trace,
		}
	}
	return nil
}

func assertRejectedCount(trace []TraceEvent, a Assertion) error {
	n := 0
	for _, ev := range trace {
		if ev.Type == "rejected" {
			n++
		}
	}
	if n != a.Count {
		return &AssertionError{
			Type:     AssertRejectedCount,
			Expected: fmt.Sprintf("%d rejected ops", a.Count),
			Actual:   fmt.Sprintf("%d rejected ops", n),
			Trace:    trace,
		}
	}
	return nil
}

// assertLint compares the store's lint codes with a.Codes. Lint results
// are already sorted, so the comparison is order sensitive.
func assertLint(r *Result, a Assertion) error {
	got := make([]string, 0, len(r.Lint.Violations))
	for _, v := range r.Lint.Violations {
		got = append(got, v.Code)
	}
	if !slices.Equal(got, a.Codes) {
		return &AssertionError{
			Type:     AssertLint,
			Expected: fmt.Sprintf("%v", a.Codes),
			Actual:   fmt.Sprintf("%v", got),
		}
	}
	return nil
}

func assertNodeStatus(s domain.Store, a Assertion) error {
	_, n, ok := s.FindNode(domain.NodeID(a.Node))
	actual := "not found"
	if ok {
		if string(n.Status) == a.Status {
			return nil
		}
		actual = string(n.Status)
	}
	return &AssertionError{
		Type:     AssertNodeStatus,
		Expected: fmt.Sprintf("node %s %s", a.Node, a.Status),
		Actual:   actual,
	}
}

func assertEdgeStatus(s domain.Store, a Assertion) error {
	_, e, ok := s.FindEdge(domain.EdgeID(a.Edge))
	actual := "not found"
	if ok {
		if string(e.Status) == a.Status {
			return nil
		}
		actual = string(e.Status)
	}
	return &AssertionError{
		Type:     AssertEdgeStatus,
		Expected: fmt.Sprintf("edge %s %s", a.Edge, a.Status),
		Actual:   actual,
	}
}

func assertTrace(s domain.Store, a Assertion) error {
	depth := a.MaxDepth
	if depth == 0 {
		depth = traverse.DefaultMaxDepth
	}
	steps := traverse.TraceDependencyPath(s, domain.NodeID(a.Node), depth)

	got := make([]string, 0, len(steps))
	for _, st := range steps {
		got = append(got, string(st.NodeID))
	}
	if !slices.Equal(got, a.Path) {
		return &AssertionError{
			Type:     AssertTrace,
			Expected: strings.Join(a.Path, " -> "),
			Actual:   strings.Join(got, " -> "),
		}
	}
	return nil
}
