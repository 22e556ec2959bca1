package kernel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/decisiongraph/internal/domain"
)

// ErrorKind categorizes kernel errors.
type ErrorKind string

const (
	// KindPolicyViolation indicates one or more policy violations.
	KindPolicyViolation ErrorKind = "PolicyViolation"

	// KindUnknownOperation indicates an operation the kernel cannot apply.
	KindUnknownOperation ErrorKind = "UnknownOperation"
)

// KernelError is carried by a rejected Event. It is a value, never a
// panic: Apply always returns.
type KernelError struct {
	Kind       ErrorKind          `json:"kind"`
	Message    string             `json:"message"`
	Violations []domain.Violation `json:"violations,omitempty"`
}

// Error implements the error interface.
func (e *KernelError) Error() string {
	if len(e.Violations) == 0 {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	codes := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		codes = append(codes, v.Code)
	}
	return fmt.Sprintf("%s: %s [%s]", e.Kind, e.Message, strings.Join(codes, ", "))
}

func policyError(vs []domain.Violation) *KernelError {
	return &KernelError{Kind: KindPolicyViolation, Message: "policy violation", Violations: vs}
}

func unknownOperation() *KernelError {
	return &KernelError{Kind: KindUnknownOperation, Message: "unknown operation"}
}

// IsPolicyViolation returns true if err is a policy violation.
// Uses errors.As to handle wrapped errors.
func IsPolicyViolation(err error) bool {
	var ke *KernelError
	if errors.As(err, &ke) {
		return ke.Kind == KindPolicyViolation
	}
	return false
}

// IsUnknownOperation returns true if err is an unknown operation error.
func IsUnknownOperation(err error) bool {
	var ke *KernelError
	if errors.As(err, &ke) {
		return ke.Kind == KindUnknownOperation
	}
	return false
}

// ViolationsOf returns the violations carried by err, or nil.
func ViolationsOf(err error) []domain.Violation {
	var ke *KernelError
	if errors.As(err, &ke) {
		return ke.Violations
	}
	return nil
}
