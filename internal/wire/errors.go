package wire

import (
	"errors"
	"fmt"
)

// ErrGraphIDRequired is returned by Encode for a version 0.3 document
// without a graph id.
var ErrGraphIDRequired = errors.New("graphId is required for version 0.3")

// DecodeError locates the first problem in a document.
type DecodeError struct {
	// Path is a dotted locator such as "ops.2.node.author".
	Path    string
	Message string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "decode: " + e.Message
	}
	return fmt.Sprintf("decode: %s at %s", e.Message, e.Path)
}

func decodeErr(path, format string, args ...any) *DecodeError {
	return &DecodeError{Path: path, Message: fmt.Sprintf(format, args...)}
}
