package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/decisiongraph/internal/domain"
	"github.com/roach88/decisiongraph/internal/oplog"
	"github.com/roach88/decisiongraph/internal/policy"
	"github.com/roach88/decisiongraph/internal/replay"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	At       string
	Verify   bool
	Pattern  string
}

// ReplayResult is the outcome of a replay.
type ReplayResult struct {
	Source        string       `json:"source"`
	Logs          int          `json:"logs"`
	At            string       `json:"at,omitempty"`
	Graphs        int          `json:"graphs"`
	Nodes         int          `json:"nodes"`
	Edges         int          `json:"edges"`
	Digest        string       `json:"digest"`
	Deterministic *bool        `json:"deterministic,omitempty"`
	Store         domain.Store `json:"store"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay [<file-or-dir>]",
		Short: "Rebuild the store from decision logs and print it",
		Long: `Replay decision logs from an empty store and print the resulting store.

Logs are read from a file or directory, or from the op-log archive given
by --db (or the archive setting). With --at, replay stops right after the
named commit. With --verify, the logs are replayed twice and the store
digests compared.

Exit codes:
  0 - Replay succeeded (and is deterministic with --verify)
  1 - Invalid documents, unknown commit, digest mismatch or tampered archive
  2 - Command error (path not found, no source, etc.)

Examples:
  decisiongraph replay decisions/
  decisiongraph replay decisions/ --at C:auth-2
  decisiongraph replay --db decisions.db --verify --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runReplay(opts, path, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "read logs from this op-log archive (default from config)")
	cmd.Flags().StringVar(&opts.At, "at", "", "stop after this commit id")
	cmd.Flags().BoolVar(&opts.Verify, "verify", false, "replay twice and compare digests")
	cmd.Flags().StringVar(&opts.Pattern, "pattern", "", "glob for directory replay (default from config)")

	return cmd
}

func runReplay(opts *ReplayOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	cfg := opts.Settings()
	p := cfg.CallerPolicy()

	logs, source, err := replaySource(cmd.Context(), opts, path)
	if err != nil {
		if errors.Is(err, oplog.ErrDigestMismatch) {
			_ = formatter.Error(ErrCodeTampered, err.Error(), nil)
			return NewExitError(ExitFailure, "archive failed verification")
		}
		return commandError(formatter, err)
	}
	formatter.VerboseLog("Replaying %d log(s) from %s", len(logs), source)

	s, err := replayLogs(logs, domain.CommitID(opts.At), p)
	if errors.Is(err, replay.ErrCommitNotFound) {
		msg := fmt.Sprintf("commit not found: %s", opts.At)
		_ = formatter.Error(ErrCodeCommitNotFound, msg, nil)
		return NewExitError(ExitFailure, msg)
	}

	digest, err := domain.StoreDigest(s)
	if err != nil {
		return commandError(formatter, err)
	}

	result := ReplayResult{
		Source: source,
		Logs:   len(logs),
		At:     opts.At,
		Digest: digest,
		Store:  s,
	}
	result.Graphs, result.Nodes, result.Edges = storeCounts(s)

	if opts.Verify {
		again, _ := replayLogs(logs, domain.CommitID(opts.At), p)
		second, err := domain.StoreDigest(again)
		if err != nil {
			return commandError(formatter, err)
		}
		same := second == digest
		result.Deterministic = &same
		if !same {
			msg := fmt.Sprintf("replay is not deterministic: %s != %s", digest, second)
			_ = formatter.Failure(ErrCodeNondeterministic, msg, result)
			if !formatter.JSON() {
				fmt.Fprintf(formatter.GetErrWriter(), "✗ %s\n", msg)
			}
			return NewExitError(ExitFailure, "replay is not deterministic")
		}
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	return outputReplayText(formatter, result)
}

// replaySource reads logs from the archive when --db (or the archive
// setting) applies and no path was given, otherwise from path.
func replaySource(ctx context.Context, opts *ReplayOptions, path string) ([]domain.GraphLog, string, error) {
	cfg := opts.Settings()
	db := opts.Database
	if db == "" && path == "" {
		db = cfg.Archive
	}

	switch {
	case path != "" && db != "":
		return nil, "", errors.New("give a path or --db, not both")
	case db != "":
		logs, err := archiveLogs(ctx, db)
		return logs, db, err
	case path == "":
		return nil, "", errors.New("no decision logs: give a path or --db")
	}

	pattern := cfg.Pattern
	if opts.Pattern != "" {
		pattern = opts.Pattern
	}
	loaded, err := loadPath(ctx, path, pattern)
	if err != nil {
		return nil, "", err
	}
	logs, err := graphLogs(loaded)
	return logs, path, err
}

func archiveLogs(ctx context.Context, db string) ([]domain.GraphLog, error) {
	a, err := oplog.Open(db)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	return a.Logs(ctx)
}

func replayLogs(logs []domain.GraphLog, at domain.CommitID, p policy.Policy) (domain.Store, error) {
	if at == "" {
		return replay.Replay(logs, p), nil
	}
	return replay.ReplayAt(logs, at, p)
}

func storeCounts(s domain.Store) (graphs, nodes, edges int) {
	for _, g := range s.Graphs {
		graphs++
		nodes += len(g.Nodes)
		edges += len(g.Edges)
	}
	return graphs, nodes, edges
}

func outputReplayText(f *OutputFormatter, result ReplayResult) error {
	data, err := json.MarshalIndent(result.Store, "", "  ")
	if err != nil {
		return commandError(f, err)
	}
	fmt.Fprintln(f.Writer, string(data))

	w := f.GetErrWriter()
	fmt.Fprintf(w, "%d graph(s), %d node(s), %d edge(s) from %d log(s)\n",
		result.Graphs, result.Nodes, result.Edges, result.Logs)
	if result.At != "" {
		fmt.Fprintf(w, "Stopped at commit %s\n", result.At)
	}
	fmt.Fprintf(w, "Digest: %s\n", result.Digest)
	if result.Deterministic != nil {
		fmt.Fprintln(w, "✓ Replay is deterministic")
	}
	return nil
}
