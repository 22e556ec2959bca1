package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/roach88/decisiongraph/internal/config"
	"github.com/roach88/decisiongraph/internal/domain"
	"github.com/roach88/decisiongraph/internal/traverse"
)

// treeReporter renders violations with the dependency chains behind them.
//
//	✖ [decisions/auth.decisionlog.json]
//
//	  ✖ ERROR: depends_on target 'N:2' is Superseded
//	    at graphs.G:a.edges.E:1.to
//
//	  N:1  Use passkey auth
//	   └─ depends_on → N:2  Original auth decision [Superseded]
type treeReporter struct {
	w        io.Writer
	store    domain.Store
	maxDepth int

	red, yellow, green, bold, dim *color.Color
}

func newTreeReporter(w io.Writer, s domain.Store, maxDepth int, mode string) *treeReporter {
	r := &treeReporter{
		w:        w,
		store:    s,
		maxDepth: maxDepth,
		red:      color.New(color.FgRed, color.Bold),
		yellow:   color.New(color.FgYellow, color.Bold),
		green:    color.New(color.FgGreen, color.Bold),
		bold:     color.New(color.Bold),
		dim:      color.New(color.Faint),
	}
	for _, c := range []*color.Color{r.red, r.yellow, r.green, r.bold, r.dim} {
		switch mode {
		case config.ColorNever:
			c.DisableColor()
		case config.ColorAlways:
			c.EnableColor()
		}
	}
	return r
}

func (r *treeReporter) severity(s domain.Severity) *color.Color {
	switch s {
	case domain.SeverityError:
		return r.red
	case domain.SeverityWarn:
		return r.yellow
	}
	return r.dim
}

// nodeLabel is the node id followed by its payload statement, if any.
func (r *treeReporter) nodeLabel(id domain.NodeID) string {
	_, n, ok := r.store.FindNode(id)
	if !ok || len(n.Payload) == 0 {
		return string(id)
	}
	var p struct {
		Statement string `json:"statement"`
	}
	if json.Unmarshal(n.Payload, &p) != nil || p.Statement == "" {
		return string(id)
	}
	return fmt.Sprintf("%s  %s", id, r.dim.Sprint(p.Statement))
}

func (r *treeReporter) chain(steps []traverse.Step) {
	for i, step := range steps {
		indent := "  " + strings.Repeat("     ", i)
		label := r.nodeLabel(step.NodeID)
		if i == 0 {
			fmt.Fprintf(r.w, "%s%s\n", indent, r.bold.Sprint(label))
			continue
		}
		mark := ""
		switch step.EdgeStatus {
		case domain.StatusSuperseded:
			mark = " " + r.red.Sprint("[Superseded]")
		case domain.StatusDeprecated:
			mark = " " + r.yellow.Sprint("[Deprecated]")
		}
		fmt.Fprintf(r.w, "%s %s %s%s\n", indent, r.dim.Sprintf("└─ %s →", step.EdgeType), label, mark)
	}
}

func (r *treeReporter) violation(t traverse.ViolationTrace) {
	fmt.Fprintf(r.w, "  %s\n", r.severity(t.Severity).Sprintf("✖ %s: %s", t.Severity, t.Message))
	if t.Path != "" {
		fmt.Fprintf(r.w, "  %s\n", r.dim.Sprintf("  at %s", t.Path))
	}
	fmt.Fprintln(r.w)
	if len(t.Chain) > 0 {
		r.chain(t.Chain)
		fmt.Fprintln(r.w)
	}
}

// File renders every violation of one file, ERROR first, then WARN, then INFO.
func (r *treeReporter) File(label string, vs []domain.Violation) {
	fmt.Fprintf(r.w, "\n%s\n\n", r.red.Sprintf("✖ [%s]", label))
	traces := traverse.TraceViolations(r.store, vs, r.maxDepth)
	for _, sev := range []domain.Severity{domain.SeverityError, domain.SeverityWarn, domain.SeverityInfo} {
		for _, t := range traces {
			if t.Severity == sev {
				r.violation(t)
			}
		}
	}
}

// LoadFailed renders a file that could not be loaded.
func (r *treeReporter) LoadFailed(label string, errs []string) {
	fmt.Fprintf(r.w, "\n%s\n\n", r.red.Sprintf("✖ [%s]", label))
	for _, e := range errs {
		fmt.Fprintf(r.w, "  %s\n", r.red.Sprint(e))
	}
	fmt.Fprintln(r.w)
}

// Passed renders a file without violations.
func (r *treeReporter) Passed(label string) {
	fmt.Fprintf(r.w, "  %s [%s]\n", r.green.Sprint("✔"), label)
}

// Summary renders the closing verdict.
func (r *treeReporter) Summary(files, failed, warnings int) {
	fmt.Fprintf(r.w, "\n%s\n", strings.Repeat("─", 56))
	switch {
	case failed == 0 && warnings == 0:
		fmt.Fprintf(r.w, "\n  %s  %s\n\n", r.green.Sprint("✔ Validation passed"), r.dim.Sprintf("(%d file(s))", files))
	case failed > 0:
		fmt.Fprintf(r.w, "\n  %s  %s\n", r.red.Sprintf("✖ %d file(s) failed", failed), r.dim.Sprintf("in %d file(s)", files))
		fmt.Fprintf(r.w, "\n  %s\n\n", r.red.Sprint("Result: FAILED"))
	default:
		fmt.Fprintf(r.w, "\n  %s  %s\n", r.yellow.Sprintf("⚠ %d warning(s)", warnings), r.dim.Sprintf("in %d file(s)", files))
		fmt.Fprintf(r.w, "\n  %s\n\n", r.yellow.Sprint("Result: PASSED with warnings"))
	}
}
