package kernel

import (
	"log/slog"

	"github.com/roach88/decisiongraph/internal/domain"
	"github.com/roach88/decisiongraph/internal/policy"
)

// EventType is the outcome of a single Apply.
type EventType string

const (
	EventApplied  EventType = "applied"
	EventRejected EventType = "rejected"
)

// Event records the outcome of one operation. Err is set only when Type
// is EventRejected.
type Event struct {
	Type   EventType     `json:"type"`
	OpType domain.OpType `json:"opType"`
	Err    *KernelError  `json:"error,omitempty"`
}

// Result is the output of Apply, ApplyBatch and ApplyLogs.
type Result struct {
	Store  domain.Store
	Events []Event
}

// Rejected returns the rejected events in order.
func (r Result) Rejected() []Event {
	var out []Event
	for _, ev := range r.Events {
		if ev.Type == EventRejected {
			out = append(out, ev)
		}
	}
	return out
}

var constitution = policy.Constitution{}

// Apply applies op to graph graphID of s.
//
// A missing graph is created empty first and kept even when op is
// rejected. The constitution runs before p; a nil p adds no checks.
func Apply(s domain.Store, graphID domain.GraphID, op domain.Operation, p policy.Policy) Result {
	g, ok := s.Graph(graphID)
	if !ok {
		g = domain.EmptyGraph(graphID)
		s = s.WithGraph(graphID, g)
	}

	opType := domain.TypeOf(op)

	if vs := constitution.ValidateOperation(s, graphID, op); len(vs) > 0 {
		return reject(s, graphID, opType, policyError(vs))
	}
	if p != nil {
		if vs := p.ValidateOperation(s, graphID, op); len(vs) > 0 {
			return reject(s, graphID, opType, policyError(vs))
		}
	}

	next := g.Clone()
	out := s

	switch o := op.(type) {
	case domain.AddNodeOp:
		next.Nodes[o.Node.ID] = o.Node
	case domain.AddEdgeOp:
		next.Edges[o.Edge.ID] = o.Edge
	case domain.SupersedeEdgeOp:
		owner, old, found := s.FindEdge(o.OldEdgeID)
		if found {
			old.Status = domain.StatusSuperseded
			if owner == graphID {
				next.Edges[old.ID] = old
			} else {
				og := s.Graphs[owner].Clone()
				og.Edges[old.ID] = old
				out = out.WithGraph(owner, og)
			}
		}
		next.Edges[o.NewEdge.ID] = o.NewEdge
	case domain.CommitOp:
		next.Commits = append(next.Commits, domain.Commit{
			CommitID:  o.CommitID,
			CreatedAt: o.CreatedAt,
			Author:    o.Author,
		})
	default:
		return reject(s, graphID, opType, unknownOperation())
	}

	return Result{
		Store:  out.WithGraph(graphID, next),
		Events: []Event{{Type: EventApplied, OpType: opType}},
	}
}

func reject(s domain.Store, graphID domain.GraphID, opType domain.OpType, err *KernelError) Result {
	slog.Debug("operation rejected",
		"graph", graphID,
		"op", opType,
		"kind", err.Kind,
		"violations", len(err.Violations),
	)
	return Result{
		Store:  s,
		Events: []Event{{Type: EventRejected, OpType: opType, Err: err}},
	}
}

// ApplyBatch folds Apply over ops in order against graph graphID.
// Rejections are recorded and do not stop the batch.
func ApplyBatch(s domain.Store, graphID domain.GraphID, ops []domain.Operation, p policy.Policy) Result {
	events := make([]Event, 0, len(ops))
	for _, op := range ops {
		r := Apply(s, graphID, op, p)
		s = r.Store
		events = append(events, r.Events...)
	}
	return Result{Store: s, Events: events}
}

// ApplyLogs folds ApplyBatch over logs in order.
func ApplyLogs(s domain.Store, logs []domain.GraphLog, p policy.Policy) Result {
	var events []Event
	for _, l := range logs {
		r := ApplyBatch(s, l.GraphID, l.Ops, p)
		s = r.Store
		events = append(events, r.Events...)
		slog.Debug("log applied",
			"graph", l.GraphID,
			"ops", len(l.Ops),
			"rejected", len(r.Rejected()),
		)
	}
	return Result{Store: s, Events: events}
}
