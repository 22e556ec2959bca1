package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/decisiongraph/internal/domain"
	"github.com/roach88/decisiongraph/internal/kernel"
	"github.com/roach88/decisiongraph/internal/policy"
)

// StoreLabel names the cross-graph result of a directory lint.
const StoreLabel = "<store>"

// LintOptions holds flags for the lint command.
type LintOptions struct {
	*RootOptions
	Strict  bool
	Pattern string
}

// Rejection is one operation the kernel refused.
type Rejection struct {
	Op         int                `json:"op"`
	OpType     domain.OpType      `json:"opType"`
	Kind       kernel.ErrorKind   `json:"kind"`
	Violations []domain.Violation `json:"violations,omitempty"`
}

// FileReport is the outcome for one decision log, or for the merged store
// when File is StoreLabel.
type FileReport struct {
	File       string             `json:"file"`
	GraphID    domain.GraphID     `json:"graphId,omitempty"`
	OK         bool               `json:"ok"`
	Errors     []string           `json:"errors,omitempty"`
	Rejections []Rejection        `json:"rejections,omitempty"`
	Violations []domain.Violation `json:"violations,omitempty"`
}

// AllViolations returns rejection and store violations in one list.
func (r FileReport) AllViolations() []domain.Violation {
	var vs []domain.Violation
	for _, rej := range r.Rejections {
		vs = append(vs, rej.Violations...)
	}
	return append(vs, r.Violations...)
}

// lines renders the report as "CODE: message" lines, sorted so CI diffs
// stay stable.
func (r FileReport) lines() []string {
	out := slices.Clone(r.Errors)
	for _, rej := range r.Rejections {
		if len(rej.Violations) == 0 {
			out = append(out, fmt.Sprintf("REJECTED: %s", rej.OpType))
		}
	}
	for _, v := range r.AllViolations() {
		out = append(out, fmt.Sprintf("%s: %s", v.Code, v.Message))
	}
	slices.Sort(out)
	return out
}

// LintReport is the outcome of a cumulative lint over one or more logs.
type LintReport struct {
	Files    []FileReport `json:"files"`
	Store    FileReport   `json:"store"`
	Failed   int          `json:"failed"`
	Warnings int          `json:"warnings"`
	Passed   bool         `json:"passed"`

	store domain.Store
}

// LintLogs applies loaded logs in order to one store under the
// constitution and p, then lints the result.
//
// Each file reports its own load errors and rejected operations. Files
// that failed to load are skipped. The store report carries the
// cross-graph lint; WARN fails it only when strict is set.
func LintLogs(loaded []LoadedLog, p policy.Policy, strict bool) *LintReport {
	rep := &LintReport{Files: make([]FileReport, 0, len(loaded))}
	s := domain.EmptyStore()

	for _, l := range loaded {
		fr := FileReport{File: l.Path, OK: true}
		if l.Err != nil {
			fr.OK = false
			fr.Errors = l.Err.Details()
			rep.Files = append(rep.Files, fr)
			continue
		}

		fr.GraphID = l.Log.GraphID
		r := kernel.ApplyBatch(s, l.Log.GraphID, l.Log.Ops, p)
		s = r.Store
		for i, ev := range r.Events {
			if ev.Type != kernel.EventRejected {
				continue
			}
			fr.OK = false
			fr.Rejections = append(fr.Rejections, Rejection{
				Op:         i,
				OpType:     ev.OpType,
				Kind:       ev.Err.Kind,
				Violations: ev.Err.Violations,
			})
		}
		rep.Files = append(rep.Files, fr)
	}

	lr := kernel.Lint(s, p)
	rep.Store = FileReport{File: StoreLabel, OK: !lr.Failed(strict), Violations: lr.Violations}
	rep.store = s

	for _, fr := range rep.Files {
		if !fr.OK {
			rep.Failed++
		}
	}
	if !rep.Store.OK {
		rep.Failed++
	}
	for _, v := range lr.Violations {
		if v.Severity == domain.SeverityWarn && !strict {
			rep.Warnings++
		}
	}
	rep.Passed = rep.Failed == 0
	return rep
}

// NewLintCommand creates the lint command.
func NewLintCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LintOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "lint <file-or-dir>",
		Short: "Validate, decode and apply decision logs, then lint the store",
		Long: `Lint one decision log, or every decision log in a directory.

Directory logs are applied cumulatively, in file name order, to a single
store, so edges may point into graphs defined by earlier files. Each file
reports its rejected operations; the cross-graph store lint is reported
last as ` + StoreLabel + `.

Exit codes:
  0 - All files passed (warnings allowed unless --strict)
  1 - Invalid documents, rejected operations or lint failures
  2 - Command error (path not found, no files, etc.)

Examples:
  decisiongraph lint decisions/
  decisiongraph lint decisions/auth.decisionlog.json --strict
  decisiongraph lint decisions/ --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on warnings (overrides config)")
	cmd.Flags().StringVar(&opts.Pattern, "pattern", "", "glob for directory lint (default from config)")

	return cmd
}

// lintSettings resolves strictness and pattern from flags over config.
func lintSettings(opts *LintOptions, cmd *cobra.Command) (strict bool, pattern string) {
	cfg := opts.Settings()
	strict, pattern = cfg.Strict, cfg.Pattern
	if cmd.Flags().Changed("strict") {
		strict = opts.Strict
	}
	if opts.Pattern != "" {
		pattern = opts.Pattern
	}
	return strict, pattern
}

func runLint(opts *LintOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	strict, pattern := lintSettings(opts, cmd)

	rep, err := lintPath(cmd.Context(), path, pattern, opts.Settings().CallerPolicy(), strict)
	if err != nil {
		return commandError(formatter, err)
	}
	formatter.VerboseLog("Linted %d file(s) in %s", len(rep.Files), path)

	return outputLint(formatter, rep)
}

func lintPath(ctx context.Context, path, pattern string, p policy.Policy, strict bool) (*LintReport, error) {
	loaded, err := loadPath(ctx, path, pattern)
	if err != nil {
		return nil, err
	}
	return LintLogs(loaded, p, strict), nil
}

func outputLint(f *OutputFormatter, rep *LintReport) error {
	if f.JSON() {
		if rep.Passed {
			return f.Success(rep)
		}
		code := ErrCodeRejected
		if rep.Failed == 1 && !rep.Store.OK {
			code = ErrCodeLintFailed
		}
		_ = f.Failure(code, fmt.Sprintf("%d result(s) failed", rep.Failed), rep)
		return NewExitError(ExitFailure, "lint failed")
	}

	writeLintText(f.Writer, rep)
	if !rep.Passed {
		return NewExitError(ExitFailure, "lint failed")
	}
	return nil
}

func writeLintText(w io.Writer, rep *LintReport) {
	for _, fr := range append(slices.Clone(rep.Files), rep.Store) {
		lines := fr.lines()
		switch {
		case !fr.OK:
			fmt.Fprintf(w, "✖ [%s]\n", fr.File)
		case len(lines) > 0:
			fmt.Fprintf(w, "⚠ [%s]\n", fr.File)
		default:
			fmt.Fprintf(w, "✔ [%s] OK\n", fr.File)
		}
		for _, line := range lines {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}

	switch {
	case !rep.Passed:
		fmt.Fprintln(w, "\n✖ DecisionGraph validation failed")
	case rep.Warnings > 0:
		fmt.Fprintln(w, "\n⚠ DecisionGraph validation passed with warnings")
	default:
		fmt.Fprintln(w, "\n✔ DecisionGraph validation passed")
	}
}
