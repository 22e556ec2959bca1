package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Pattern string
}

// FileValidation is the schema result for one document.
type FileValidation struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <file-or-dir>...",
		Short: "Validate decision logs against the schema",
		Long: `Validate decision log documents against the embedded schema and decode
them, without applying any operation.

Exit codes:
  0 - All documents valid
  1 - One or more documents invalid
  2 - Command error (path not found, no files, etc.)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Pattern, "pattern", "", "glob for directories (default from config)")

	return cmd
}

func runValidate(opts *ValidateOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	pattern := opts.Settings().Pattern
	if opts.Pattern != "" {
		pattern = opts.Pattern
	}

	var files []string
	for _, p := range paths {
		found, err := DiscoverLogs(p, pattern)
		if err != nil {
			return commandError(formatter, err)
		}
		files = append(files, found...)
	}
	formatter.VerboseLog("Found %d decision log(s)", len(files))

	loaded, err := LoadLogs(cmd.Context(), files)
	if err != nil {
		return commandError(formatter, err)
	}

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(loaded))}
	for _, l := range loaded {
		fv := FileValidation{File: l.Path, Valid: l.Err == nil}
		if l.Err != nil {
			fv.Errors = l.Err.Details()
			result.Valid = false
		}
		result.Files = append(result.Files, fv)
	}

	if formatter.JSON() {
		if result.Valid {
			return formatter.Success(result)
		}
		_ = formatter.Failure(ErrCodeSchema, "validation failed", result)
		return NewExitError(ExitFailure, "validation failed")
	}

	invalid := 0
	for _, fv := range result.Files {
		if fv.Valid {
			fmt.Fprintf(formatter.Writer, "✓ %s\n", fv.File)
			continue
		}
		invalid++
		fmt.Fprintf(formatter.Writer, "✗ %s\n", fv.File)
		for _, e := range fv.Errors {
			fmt.Fprintf(formatter.Writer, "  %s\n", e)
		}
	}

	if invalid > 0 {
		fmt.Fprintf(formatter.Writer, "\n✗ Validation failed: %d of %d document(s) invalid\n", invalid, len(result.Files))
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d invalid document(s)", invalid))
	}
	fmt.Fprintln(formatter.Writer, "\n✓ All decision logs valid")
	return nil
}
