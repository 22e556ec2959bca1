package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/decisiongraph/internal/watch"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*LintOptions
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{LintOptions: &LintOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Lint a directory of decision logs on every change",
		Long: `Lint a directory once, then again whenever a matching decision log
is created, written, renamed or removed. Bursts of changes are debounced
into a single run. Stop with Ctrl-C.

Lint failures are reported and watching continues.

Exit codes:
  0 - Stopped by signal
  2 - Command error (not a directory, invalid pattern, etc.)

Examples:
  decisiongraph watch decisions/
  decisiongraph watch decisions/ --strict --debounce 1s`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail on warnings (overrides config)")
	cmd.Flags().StringVar(&opts.Pattern, "pattern", "", "glob for watched files (default from config)")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", watch.DefaultDebounce, "quiet period before re-linting")

	return cmd
}

func runWatch(opts *WatchOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	strict, pattern := lintSettings(opts.LintOptions, cmd)
	p := opts.Settings().CallerPolicy()

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("not a directory: %s", dir), nil)
		return NewExitError(ExitCommandError, "not a directory")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(dir, pattern, opts.Debounce)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "watch failed", err)
	}

	relint := func(ctx context.Context, changed []string) error {
		if len(changed) > 0 && !formatter.JSON() {
			fmt.Fprintf(formatter.Writer, "\n↻ %s\n", strings.Join(changed, ", "))
		}
		rep, err := lintPath(ctx, dir, pattern, p, strict)
		if err != nil {
			_ = commandError(formatter, err)
			return err
		}
		_ = outputLint(formatter, rep)
		return nil
	}

	_ = relint(ctx, nil)
	formatter.VerboseLog("Watching %s for %s", dir, pattern)

	err = w.Run(ctx, relint)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
