package wire

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/decisiongraph/internal/domain"
)

// Document is the wire form of a decision log.
type Document struct {
	Version string            `json:"version"`
	GraphID domain.GraphID    `json:"graphId,omitempty"`
	Ops     []json.RawMessage `json:"ops"`
}

type addNodeWire struct {
	Type domain.OpType `json:"type"`
	Node domain.Node   `json:"node"`
}

type addEdgeWire struct {
	Type domain.OpType `json:"type"`
	Edge domain.Edge   `json:"edge"`
}

type supersedeEdgeWire struct {
	Type      domain.OpType `json:"type"`
	OldEdgeID domain.EdgeID `json:"oldEdgeId"`
	NewEdge   domain.Edge   `json:"newEdge"`
}

type commitWire struct {
	Type      domain.OpType   `json:"type"`
	CommitID  domain.CommitID `json:"commitId"`
	CreatedAt string          `json:"createdAt"`
	Author    domain.AuthorID `json:"author"`
}

// EncodeOp returns the wire JSON of one operation.
func EncodeOp(op domain.Operation) (json.RawMessage, error) {
	var v any
	switch o := op.(type) {
	case domain.AddNodeOp:
		v = addNodeWire{Type: domain.OpAddNode, Node: o.Node}
	case domain.AddEdgeOp:
		v = addEdgeWire{Type: domain.OpAddEdge, Edge: o.Edge}
	case domain.SupersedeEdgeOp:
		v = supersedeEdgeWire{Type: domain.OpSupersedeEdge, OldEdgeID: o.OldEdgeID, NewEdge: o.NewEdge}
	case domain.CommitOp:
		v = commitWire{Type: domain.OpCommit, CommitID: o.CommitID, CreatedAt: o.CreatedAt, Author: o.Author}
	default:
		return nil, fmt.Errorf("encode: unknown operation %s", domain.TypeOf(op))
	}
	return json.Marshal(v)
}

// Encode builds a document for log in the given version; an empty version
// means CurrentVersion. Version 0.2 drops the graph id.
func Encode(log domain.GraphLog, version string) (Document, error) {
	if version == "" {
		version = CurrentVersion
	}
	if !IsSupported(version) {
		return Document{}, fmt.Errorf("encode: unsupported version %q", version)
	}

	doc := Document{Version: version, Ops: make([]json.RawMessage, 0, len(log.Ops))}
	if version == Version03 {
		if log.GraphID == "" {
			return Document{}, fmt.Errorf("encode: %w", ErrGraphIDRequired)
		}
		doc.GraphID = log.GraphID
	}

	for i, op := range log.Ops {
		raw, err := EncodeOp(op)
		if err != nil {
			return Document{}, fmt.Errorf("op %d: %w", i, err)
		}
		doc.Ops = append(doc.Ops, raw)
	}
	return doc, nil
}

// Normalize rewrites a JSON document with every object's keys sorted at
// every depth. Array order and values are kept.
func Normalize(data []byte) ([]byte, error) {
	out, err := domain.CanonicalizeJSON(data)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	return out, nil
}
