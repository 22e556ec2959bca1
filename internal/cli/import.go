package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/decisiongraph/internal/domain"
	"github.com/roach88/decisiongraph/internal/oplog"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Database string
	Pattern  string
}

// ImportedBatch is one decision log appended to the archive.
type ImportedBatch struct {
	ID      string         `json:"id"`
	File    string         `json:"file"`
	GraphID domain.GraphID `json:"graphId"`
	Ops     int            `json:"ops"`
}

// ImportResult is the outcome of an import.
type ImportResult struct {
	Database string          `json:"database"`
	Batches  []ImportedBatch `json:"batches"`
	Total    int             `json:"total"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <file-or-dir>",
		Short: "Append decision logs to an op-log archive",
		Long: `Validate and decode decision logs, then append each one to the op-log
archive as a single batch. Nothing is applied: rejected operations are
archived too and are rejected again when the archive is replayed.

Either every document is valid and all are imported, or nothing is.

Exit codes:
  0 - All logs imported
  1 - Invalid documents
  2 - Command error (path not found, archive write failed, etc.)

Examples:
  decisiongraph import decisions/ --db decisions.db
  decisiongraph replay --db decisions.db --verify`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "op-log archive to append to (default from config)")
	cmd.Flags().StringVar(&opts.Pattern, "pattern", "", "glob for directory import (default from config)")

	return cmd
}

func runImport(opts *ImportOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	cfg := opts.Settings()

	db := opts.Database
	if db == "" {
		db = cfg.Archive
	}
	if db == "" {
		_ = formatter.Error(ErrCodeGeneric, "no archive: give --db or set archive in config", nil)
		return NewExitError(ExitCommandError, "no archive")
	}
	pattern := cfg.Pattern
	if opts.Pattern != "" {
		pattern = opts.Pattern
	}

	loaded, err := loadPath(cmd.Context(), path, pattern)
	if err != nil {
		return commandError(formatter, err)
	}
	if _, err := graphLogs(loaded); err != nil {
		return commandError(formatter, err)
	}

	a, err := oplog.Open(db)
	if err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "open archive", err)
	}
	defer a.Close()

	result := ImportResult{Database: db, Batches: make([]ImportedBatch, 0, len(loaded))}
	for _, l := range loaded {
		id, err := a.Append(cmd.Context(), l.Log, l.Path)
		if err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, fmt.Sprintf("%s: %v", l.Path, err), nil)
			return WrapExitError(ExitCommandError, "append failed", err)
		}
		formatter.VerboseLog("Appended %s as batch %s", l.Path, id)
		result.Batches = append(result.Batches, ImportedBatch{
			ID:      id,
			File:    l.Path,
			GraphID: l.Log.GraphID,
			Ops:     len(l.Log.Ops),
		})
		result.Total += len(l.Log.Ops)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ Imported %d batch(es), %d operation(s) into %s\n",
		len(result.Batches), result.Total, db)
	return nil
}
