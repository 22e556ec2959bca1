package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/decisiongraph/internal/diff"
	"github.com/roach88/decisiongraph/internal/domain"
	"github.com/roach88/decisiongraph/internal/policy"
	"github.com/roach88/decisiongraph/internal/replay"
)

// DiffOptions holds flags for the diff command.
type DiffOptions struct {
	*RootOptions
	Pattern  string
	ExitCode bool
}

// DiffResult is the JSON form of a store diff.
type DiffResult struct {
	From  string      `json:"from"`
	To    string      `json:"to"`
	Same  bool        `json:"same"`
	Delta diff.Result `json:"delta"`
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DiffOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "diff <from> <to>",
		Short: "Compare the stores replayed from two sets of decision logs",
		Long: `Replay each side from an empty store and list nodes and edges that
were added, removed or changed going from <from> to <to>.

Each side is a decision log or a directory of them. Content is compared as
decoded JSON, so payload key order and number spelling never count as a
change.

Exit codes:
  0 - Diff computed (or no differences with --exit-code)
  1 - Invalid documents, or differences found with --exit-code
  2 - Command error (path not found, no files, etc.)

Examples:
  decisiongraph diff old/ new/
  decisiongraph diff old/auth.decisionlog.json new/auth.decisionlog.json --exit-code`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Pattern, "pattern", "", "glob for directory sides (default from config)")
	cmd.Flags().BoolVar(&opts.ExitCode, "exit-code", false, "exit 1 when the stores differ")

	return cmd
}

func runDiff(opts *DiffOptions, from, to string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	cfg := opts.Settings()
	pattern := cfg.Pattern
	if opts.Pattern != "" {
		pattern = opts.Pattern
	}
	p := cfg.CallerPolicy()

	a, err := replayPath(cmd.Context(), from, pattern, p)
	if err != nil {
		return commandError(formatter, err)
	}
	b, err := replayPath(cmd.Context(), to, pattern, p)
	if err != nil {
		return commandError(formatter, err)
	}

	delta := diff.Stores(a, b)
	result := DiffResult{From: from, To: to, Same: delta.Empty(), Delta: delta}

	if formatter.JSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		writeDiffText(formatter.Writer, delta)
	}

	if opts.ExitCode && !result.Same {
		return NewExitError(ExitFailure, "stores differ")
	}
	return nil
}

func replayPath(ctx context.Context, path, pattern string, p policy.Policy) (domain.Store, error) {
	loaded, err := loadPath(ctx, path, pattern)
	if err != nil {
		return domain.Store{}, err
	}
	logs, err := graphLogs(loaded)
	if err != nil {
		return domain.Store{}, err
	}
	return replay.Replay(logs, p), nil
}

func writeDiffText(w io.Writer, r diff.Result) {
	if r.Empty() {
		fmt.Fprintln(w, "No differences.")
		return
	}
	for _, id := range r.AddedNodes {
		fmt.Fprintf(w, "+ node %s\n", id)
	}
	for _, id := range r.RemovedNodes {
		fmt.Fprintf(w, "- node %s\n", id)
	}
	for _, id := range r.ChangedNodes {
		fmt.Fprintf(w, "~ node %s\n", id)
	}
	for _, id := range r.AddedEdges {
		fmt.Fprintf(w, "+ edge %s\n", id)
	}
	for _, id := range r.RemovedEdges {
		fmt.Fprintf(w, "- edge %s\n", id)
	}
	for _, id := range r.ChangedEdges {
		fmt.Fprintf(w, "~ edge %s\n", id)
	}
}
