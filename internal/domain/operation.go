package domain

// OpType is the wire tag of an Operation.
type OpType string

const (
	OpAddNode       OpType = "add_node"
	OpAddEdge       OpType = "add_edge"
	OpSupersedeEdge OpType = "supersede_edge"
	OpCommit        OpType = "commit"

	// OpUnknown is reported for operations the kernel does not recognise.
	OpUnknown OpType = "unknown"
)

// Operation is the sole mutation vocabulary of a Store.
//
// Operation is a sealed interface: only AddNodeOp, AddEdgeOp,
// SupersedeEdgeOp and CommitOp implement it, so type switches over it are
// exhaustive. A nil Operation is the only unrecognised value.
type Operation interface {
	Type() OpType
	operation()
}

// AddNodeOp inserts a Node.
type AddNodeOp struct {
	Node Node
}

// AddEdgeOp inserts an Edge.
type AddEdgeOp struct {
	Edge Edge
}

// SupersedeEdgeOp marks OldEdgeID Superseded and inserts NewEdge.
type SupersedeEdgeOp struct {
	OldEdgeID EdgeID
	NewEdge   Edge
}

// CommitOp appends a Commit, making the Graph immutable.
type CommitOp struct {
	CommitID  CommitID
	CreatedAt string
	Author    AuthorID
}

func (AddNodeOp) Type() OpType       { return OpAddNode }
func (AddEdgeOp) Type() OpType       { return OpAddEdge }
func (SupersedeEdgeOp) Type() OpType { return OpSupersedeEdge }
func (CommitOp) Type() OpType        { return OpCommit }

func (AddNodeOp) operation()       {}
func (AddEdgeOp) operation()       {}
func (SupersedeEdgeOp) operation() {}
func (CommitOp) operation()        {}

// TypeOf returns op's tag, or OpUnknown for a nil Operation.
func TypeOf(op Operation) OpType {
	if op == nil {
		return OpUnknown
	}
	return op.Type()
}

// IsMutation reports whether op changes nodes or edges.
func IsMutation(op Operation) bool {
	switch op.(type) {
	case AddNodeOp, AddEdgeOp, SupersedeEdgeOp:
		return true
	}
	return false
}
