package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/decisiongraph/internal/domain"
	"github.com/roach88/decisiongraph/internal/schema"
	"github.com/roach88/decisiongraph/internal/wire"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No decision logs found
	ErrCodeSchema      = "E004" // Schema validation failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeDecode      = "E006" // Wire decode failed
	ErrCodeWriteFailed = "E007" // Archive write error

	ErrCodeRejected         = "E101" // Operations rejected by policy
	ErrCodeLintFailed       = "E102" // Store lint failed
	ErrCodeNondeterministic = "E103" // Replay digests differ
	ErrCodeCommitNotFound   = "E104" // replay --at names no applied commit
	ErrCodeScenarioFailed   = "E105" // Conformance scenario failed
	ErrCodeTampered         = "E106" // Archive batch digest mismatch
)

// LoadError represents an error that occurred while loading a decision log.
type LoadError struct {
	Code     string
	Message  string
	File     string
	Problems []string // schema problems, if any
}

func (e *LoadError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Details returns one line per problem, or the message.
func (e *LoadError) Details() []string {
	if len(e.Problems) > 0 {
		return e.Problems
	}
	return []string{e.Message}
}

// LoadedLog is one decoded decision log. Err is set instead of Log when
// the document failed schema validation or decoding.
type LoadedLog struct {
	Path string
	Log  domain.GraphLog
	Err  *LoadError
}

// DiscoverLogs returns path itself when it is a file. For a directory it
// returns every file below it matching pattern, in lexicographic order.
func DiscoverLogs(path, pattern string) ([]string, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing path: %v", err)}
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(path), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(matches) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no files matching %s in %s", pattern, path)}
	}

	slices.Sort(matches)
	files := make([]string, len(matches))
	for i, m := range matches {
		files[i] = filepath.Join(path, filepath.FromSlash(m))
	}
	return files, nil
}

// LoadLogs reads, schema-validates and decodes files concurrently.
// Results keep the order of files. An unreadable file aborts the load;
// invalid documents are reported on their LoadedLog.
func LoadLogs(ctx context.Context, files []string) ([]LoadedLog, error) {
	out := make([]LoadedLog, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(file)
			if err != nil {
				return &LoadError{Code: ErrCodeNotFound, Message: err.Error(), File: file}
			}
			out[i] = loadOne(file, data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func loadOne(path string, data []byte) LoadedLog {
	if err := schema.Validate(data); err != nil {
		le := &LoadError{Code: ErrCodeSchema, Message: err.Error(), File: path}
		var ve *schema.ValidationError
		if errors.As(err, &ve) {
			le.Problems = ve.Problems
		}
		return LoadedLog{Path: path, Err: le}
	}

	log, err := wire.Decode(data)
	if err != nil {
		return LoadedLog{Path: path, Err: &LoadError{Code: ErrCodeDecode, Message: err.Error(), File: path}}
	}
	return LoadedLog{Path: path, Log: log}
}

// loadPath discovers and loads the decision logs at path.
func loadPath(ctx context.Context, path, pattern string) ([]LoadedLog, error) {
	files, err := DiscoverLogs(path, pattern)
	if err != nil {
		return nil, err
	}
	return LoadLogs(ctx, files)
}

// graphLogs returns the decoded logs, failing on the first invalid one.
func graphLogs(loaded []LoadedLog) ([]domain.GraphLog, error) {
	logs := make([]domain.GraphLog, 0, len(loaded))
	for _, l := range loaded {
		if l.Err != nil {
			return nil, l.Err
		}
		logs = append(logs, l.Log)
	}
	return logs, nil
}

// commandError maps a load failure to an exit error. Invalid documents
// are validation failures; everything else is a command error.
func commandError(f *OutputFormatter, err error) error {
	var le *LoadError
	if !errors.As(err, &le) {
		_ = f.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "command failed", err)
	}

	_ = f.Error(le.Code, le.Error(), le.Problems)
	if le.Code == ErrCodeSchema || le.Code == ErrCodeDecode {
		if !f.JSON() && !f.Verbose {
			for _, p := range le.Problems {
				fmt.Fprintf(f.Writer, "  %s\n", p)
			}
		}
		return NewExitError(ExitFailure, le.Error())
	}
	return NewExitError(ExitCommandError, le.Error())
}
