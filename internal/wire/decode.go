package wire

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/decisiongraph/internal/domain"
)

// object is one JSON object with its members left undecoded.
type object struct {
	path   string
	fields map[string]json.RawMessage
}

func asObject(raw json.RawMessage, path, what string) (object, error) {
	var fields map[string]json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &fields) != nil {
		return object{}, decodeErr(path, "%s must be object", what)
	}
	return object{path: path, fields: fields}, nil
}

func (o object) at(key string) string {
	if o.path == "" {
		return key
	}
	return o.path + "." + key
}

// str returns the required string member key.
func (o object) str(key string) (string, error) {
	raw, ok := o.fields[key]
	var s string
	if !ok || isNull(raw) || json.Unmarshal(raw, &s) != nil {
		return "", decodeErr(o.at(key), "expected string")
	}
	return s, nil
}

// payload returns the optional payload member, nil when absent or null.
func (o object) payload() json.RawMessage {
	raw, ok := o.fields["payload"]
	if !ok || isNull(raw) {
		return nil
	}
	return raw
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Decode parses a whole document into a GraphLog.
func Decode(data []byte) (domain.GraphLog, error) {
	doc, err := asObject(data, "", "document")
	if err != nil {
		return domain.GraphLog{}, err
	}

	version, err := doc.str("version")
	if err != nil {
		return domain.GraphLog{}, err
	}
	if !IsSupported(version) {
		return domain.GraphLog{}, decodeErr("version", "unsupported version %q", version)
	}

	graphID := domain.DefaultGraphID
	if version == Version03 {
		id, err := doc.str("graphId")
		if err != nil {
			return domain.GraphLog{}, err
		}
		graphID = domain.GraphID(id)
	}

	var rawOps []json.RawMessage
	if raw, ok := doc.fields["ops"]; !ok || isNull(raw) || json.Unmarshal(raw, &rawOps) != nil {
		return domain.GraphLog{}, decodeErr("ops", "ops must be array")
	}

	ops := make([]domain.Operation, 0, len(rawOps))
	for i, raw := range rawOps {
		op, err := DecodeOp(raw, fmt.Sprintf("ops.%d", i))
		if err != nil {
			return domain.GraphLog{}, err
		}
		ops = append(ops, op)
	}
	return domain.GraphLog{GraphID: graphID, Ops: ops}, nil
}

// DecodeOp parses one operation. path prefixes error locators.
func DecodeOp(raw json.RawMessage, path string) (domain.Operation, error) {
	o, err := asObject(raw, path, "op")
	if err != nil {
		return nil, err
	}
	t, err := o.str("type")
	if err != nil {
		return nil, err
	}

	switch domain.OpType(t) {
	case domain.OpAddNode:
		n, err := decodeNode(o.fields["node"], o.at("node"))
		if err != nil {
			return nil, err
		}
		return domain.AddNodeOp{Node: n}, nil

	case domain.OpAddEdge:
		e, err := decodeEdge(o.fields["edge"], o.at("edge"))
		if err != nil {
			return nil, err
		}
		return domain.AddEdgeOp{Edge: e}, nil

	case domain.OpSupersedeEdge:
		old, err := o.str("oldEdgeId")
		if err != nil {
			return nil, err
		}
		e, err := decodeEdge(o.fields["newEdge"], o.at("newEdge"))
		if err != nil {
			return nil, err
		}
		return domain.SupersedeEdgeOp{OldEdgeID: domain.EdgeID(old), NewEdge: e}, nil

	case domain.OpCommit:
		var c domain.CommitOp
		var id, author string
		if id, err = o.str("commitId"); err != nil {
			return nil, err
		}
		if c.CreatedAt, err = o.str("createdAt"); err != nil {
			return nil, err
		}
		if author, err = o.str("author"); err != nil {
			return nil, err
		}
		c.CommitID, c.Author = domain.CommitID(id), domain.AuthorID(author)
		return c, nil
	}

	return nil, decodeErr(o.at("type"), "unknown op type %q", t)
}

func decodeNode(raw json.RawMessage, path string) (domain.Node, error) {
	o, err := asObject(raw, path, "node")
	if err != nil {
		return domain.Node{}, err
	}
	f, err := o.strs("id", "kind", "status", "createdAt", "author")
	if err != nil {
		return domain.Node{}, err
	}
	return domain.Node{
		ID:        domain.NodeID(f[0]),
		Kind:      f[1],
		Status:    domain.Status(f[2]),
		CreatedAt: f[3],
		Author:    domain.AuthorID(f[4]),
		Payload:   o.payload(),
	}, nil
}

func decodeEdge(raw json.RawMessage, path string) (domain.Edge, error) {
	o, err := asObject(raw, path, "edge")
	if err != nil {
		return domain.Edge{}, err
	}
	f, err := o.strs("id", "type", "from", "to", "status", "createdAt", "author")
	if err != nil {
		return domain.Edge{}, err
	}
	return domain.Edge{
		ID:        domain.EdgeID(f[0]),
		Type:      domain.EdgeType(f[1]),
		From:      domain.NodeID(f[2]),
		To:        domain.NodeID(f[3]),
		Status:    domain.Status(f[4]),
		CreatedAt: f[5],
		Author:    domain.AuthorID(f[6]),
		Payload:   o.payload(),
	}, nil
}

// strs reads required string members in order, failing on the first bad one.
func (o object) strs(keys ...string) ([]string, error) {
	out := make([]string, len(keys))
	for i, k := range keys {
		s, err := o.str(k)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
