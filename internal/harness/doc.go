// Package harness runs conformance scenarios against the decision graph
// kernel.
//
// A scenario replays one or more graph logs through kernel.Apply under the
// constitution (plus an optional advisory policy) and then asserts on the
// per-operation events, the final store and its lint result.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: supersede_chain
//	description: "Superseding a dependency keeps the old edge"
//	policy:
//	  deprecatedDependency: WARN
//	logs:
//	  - graph: G:a
//	    ops:
//	      - type: add_node
//	        node: { id: A, kind: decision, status: Active, author: "agent:x" }
//	  - file: fixtures/b.decisionlog.json
//	assertions:
//	  - type: event
//	    op: 0
//	    expect: applied
//	  - type: lint
//	    codes: [DEPENDENCY_ON_SUPERSEDED]
//
// Inline ops use the decision log wire shape. A node, edge or commit
// without createdAt is stamped from a deterministic clock, so goldens stay
// byte-stable. A log step names either a graph with inline ops or a file.
//
// # Assertion Types
//
//   - event: the op at index op (counted across all logs) was applied or
//     rejected; codes, when given, must equal the rejection codes
//   - rejected_count: exactly count ops were rejected
//   - lint: the final store lints to exactly codes (empty means clean)
//   - node_status: node exists with status
//   - edge_status: edge exists with status
//   - trace: the dependency trace from node visits exactly path
package harness
