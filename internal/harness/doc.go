// Package harness provides conformance testing for declaration specs.
//
// A scenario names a set of CUE spec files and the facts the resolved graph
// must satisfy. The harness compiles the specs, persists the graph into an
// in-memory store, evaluates the assertions and can snapshot the graph as a
// golden file.
//
// # Scenario Format
//
//	name: user_evolution
//	description: "email appears at v2"
//	specs:
//	  - specs/user.cue
//	version_order: declared
//	assertions:
//	  - type: resolve
//	    name: User
//	    at: v2
//	    kind: record
//	    keys: [id, email]
//	  - type: changed_at
//	    at: v2
//	    names: [User]
//	  - type: revisions
//	    name: User
//	    versions: [v1, v2]
//	  - type: validation
//	    code: E203
//
// A scenario expecting compilation to fail uses a compile_error assertion
// with an error code such as CYCLIC_TYPE_REFERENCE; every other assertion
// type requires a graph.
//
// # Golden Snapshots
//
// Golden files hold the canonical JSON export of a graph, so any change to
// a resolved shape or to an interval shows up as a diff.
package harness
