// Package schema validates raw decision log documents against an embedded
// CUE definition before they are decoded.
package schema

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed decisionlog.cue
var source string

// Definition is the CUE definition every document must satisfy.
const Definition = "#DecisionLog"

// ValidationError lists every schema problem found in one document, sorted.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "schema: " + e.Problems[0]
	}
	return fmt.Sprintf("schema: %d problems: %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// Source returns the embedded CUE schema text.
func Source() string {
	return source
}

// Validate checks a JSON document against #DecisionLog.
//
// A fresh CUE context is used per call so Validate is safe to run from
// several goroutines.
func Validate(data []byte) error {
	ctx := cuecontext.New()

	def := ctx.CompileString(source, cue.Filename("decisionlog.cue")).LookupPath(cue.ParsePath(Definition))
	if err := def.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	doc := ctx.CompileBytes(data, cue.Filename("document.json"))
	if err := doc.Err(); err != nil {
		return &ValidationError{Problems: problems(err)}
	}

	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return &ValidationError{Problems: problems(err)}
	}
	return nil
}

func problems(err error) []string {
	var out []string
	for _, e := range errors.Errors(err) {
		msg, args := e.Msg()
		line := fmt.Sprintf(msg, args...)
		if p := e.Path(); len(p) > 0 {
			line = strings.Join(p, ".") + ": " + line
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		out = []string{err.Error()}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
