package policy

import "github.com/roach88/decisiongraph/internal/domain"

// Policy validates operations before they are applied and stores after
// they have changed.
type Policy interface {
	// ValidateOperation checks op against the target graph of s.
	// Any returned violation rejects the operation.
	ValidateOperation(s domain.Store, graphID domain.GraphID, op domain.Operation) []domain.Violation

	// ValidateStore checks whole-store invariants.
	ValidateStore(s domain.Store) []domain.Violation
}

// Permissive is a Policy with no rules of its own.
type Permissive struct{}

func (Permissive) ValidateOperation(domain.Store, domain.GraphID, domain.Operation) []domain.Violation {
	return nil
}

func (Permissive) ValidateStore(domain.Store) []domain.Violation {
	return nil
}

func violation(code, message, path string) domain.Violation {
	return domain.Violation{Code: code, Message: message, Severity: domain.SeverityError, Path: path}
}

func violationFrom(code, message, path string, from domain.NodeID) domain.Violation {
	v := violation(code, message, path)
	v.Payload = map[string]string{PayloadFromNodeID: string(from)}
	return v
}
