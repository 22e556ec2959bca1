package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/decisiongraph/internal/domain"
	"github.com/roach88/decisiongraph/internal/traverse"
)

// TraverseOptions holds flags for the traverse command.
type TraverseOptions struct {
	*LintOptions
	Node     string
	MaxDepth int
}

// TraceReport is the JSON form of one file in a traverse report.
type TraceReport struct {
	File   string                    `json:"file"`
	OK     bool                      `json:"ok"`
	Errors []string                  `json:"errors,omitempty"`
	Traces []traverse.ViolationTrace `json:"traces"`
}

// NodeTrace is the JSON form of traverse --node.
type NodeTrace struct {
	Node  domain.NodeID   `json:"node"`
	Steps []traverse.Step `json:"steps"`
}

// NewTraverseCommand creates the traverse command.
func NewTraverseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraverseOptions{LintOptions: &LintOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "traverse <file-or-dir>",
		Short: "Explain violations with their dependency chains",
		Long: `Lint decision logs like 'lint' and render every violation as a tree.

Each violation is anchored on the node or edge its path names and followed
along depends_on and supersedes edges, across graphs, up to --max-depth
hops. With --node, print the dependency chain of a single node instead.

Exit codes:
  0 - No failures (or the node was found)
  1 - Failures found (or the node does not exist)
  2 - Command error (path not found, no files, etc.)

Examples:
  decisiongraph traverse decisions/
  decisiongraph traverse decisions/ --node ADR-2026-005 --max-depth 3`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTraverse(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Node, "node", "", "print the dependency chain of this node")
	cmd.Flags().IntVar(&opts.MaxDepth, "max-depth", 0, "maximum hops per chain (default from config)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on warnings (overrides config)")
	cmd.Flags().StringVar(&opts.Pattern, "pattern", "", "glob for directory traversal (default from config)")

	return cmd
}

func runTraverse(opts *TraverseOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	cfg := opts.Settings()
	strict, pattern := lintSettings(opts.LintOptions, cmd)

	depth := cfg.MaxDepth
	if opts.MaxDepth > 0 {
		depth = opts.MaxDepth
	}

	rep, err := lintPath(cmd.Context(), path, pattern, cfg.CallerPolicy(), strict)
	if err != nil {
		return commandError(formatter, err)
	}

	if opts.Node != "" {
		return outputNodeTrace(formatter, rep.store, domain.NodeID(opts.Node), depth, cfg.Color)
	}

	if formatter.JSON() {
		reports := make([]TraceReport, 0, len(rep.Files)+1)
		for _, fr := range append(slices.Clone(rep.Files), rep.Store) {
			reports = append(reports, TraceReport{
				File:   fr.File,
				OK:     fr.OK,
				Errors: fr.Errors,
				Traces: traverse.TraceViolations(rep.store, fr.AllViolations(), depth),
			})
		}
		if rep.Passed {
			return formatter.Success(reports)
		}
		_ = formatter.Failure(ErrCodeRejected, fmt.Sprintf("%d result(s) failed", rep.Failed), reports)
		return NewExitError(ExitFailure, "traverse found failures")
	}

	r := newTreeReporter(formatter.Writer, rep.store, depth, cfg.Color)
	for _, fr := range rep.Files {
		switch {
		case len(fr.Errors) > 0:
			r.LoadFailed(fr.File, fr.Errors)
		case fr.OK:
			r.Passed(fr.File)
		default:
			r.File(fr.File, fr.AllViolations())
		}
	}
	if len(rep.Store.Violations) > 0 {
		r.File(StoreLabel+"  cross-graph", rep.Store.Violations)
	}
	r.Summary(len(rep.Files), rep.Failed, rep.Warnings)

	if !rep.Passed {
		return NewExitError(ExitFailure, "traverse found failures")
	}
	return nil
}

func outputNodeTrace(f *OutputFormatter, s domain.Store, node domain.NodeID, depth int, colorMode string) error {
	steps := traverse.TraceDependencyPath(s, node, depth)
	if len(steps) == 0 {
		_ = f.Error(ErrCodeNotFound, fmt.Sprintf("node not found: %s", node), nil)
		return NewExitError(ExitFailure, fmt.Sprintf("node not found: %s", node))
	}

	if f.JSON() {
		return f.Success(NodeTrace{Node: node, Steps: steps})
	}
	newTreeReporter(f.Writer, s, depth, colorMode).chain(steps)
	return nil
}
