package policy

// Violation codes emitted by the Constitution.
const (
	// Immutability
	CodeImmutableAfterCommit = "IMMUTABLE_AFTER_COMMIT" // mutation against a committed graph
	CodeCommitAlreadyExists  = "COMMIT_ALREADY_EXISTS"  // second commit on a graph

	// Required fields
	CodeAuthorRequired = "AUTHOR_REQUIRED"
	CodeNodeIDRequired = "NODE_ID_REQUIRED"
	CodeEdgeIDRequired = "EDGE_ID_REQUIRED"

	// Store-wide identity
	CodeNodeIDDup   = "NODE_ID_DUP"
	CodeEdgeIDDup   = "EDGE_ID_DUP"
	CodeCommitIDDup = "COMMIT_ID_DUP"

	// Enums
	CodeInvalidNodeStatus = "INVALID_NODE_STATUS"
	CodeInvalidEdgeType   = "INVALID_EDGE_TYPE"
	CodeInvalidEdgeStatus = "INVALID_EDGE_STATUS"

	// Resolution
	CodeEdgeNotResolved = "EDGE_NOT_RESOLVED" // from/to node missing from the store
	CodeEdgeNotFound    = "EDGE_NOT_FOUND"    // supersede target missing

	// Supersede preconditions
	CodeEdgeNotActive              = "EDGE_NOT_ACTIVE"
	CodeSupersedeRequiresNewEdgeID = "SUPERSEDE_REQUIRES_NEW_EDGE_ID"
	CodeNewEdgeNotActive           = "NEW_EDGE_NOT_ACTIVE"

	// Store structure
	CodeDependencyOnSuperseded = "DEPENDENCY_ON_SUPERSEDED"
	CodeCircularDependency     = "CIRCULAR_DEPENDENCY"
)

// Violation codes emitted by the Advisory policy.
const (
	CodeUnknownNodeKind        = "UNKNOWN_NODE_KIND"
	CodeDependencyOnDeprecated = "DEPENDENCY_ON_DEPRECATED"
)

// PayloadFromNodeID is the payload key naming the source node of an
// edge-scoped violation. Reporters start dependency chains from it.
const PayloadFromNodeID = "fromNodeId"

// PathStoreEdges locates store-wide edge violations such as cycles.
const PathStoreEdges = "store.edges"
