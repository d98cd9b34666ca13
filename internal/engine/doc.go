// Package engine resolves declarations into versioned timelines.
//
// The engine owns three pieces:
//
// Scope:
// A hierarchical registry that mints qualified names. Child scopes are
// memoized per (parent, name), so nested declarations under one parent share
// a namespace. Names may be reserved before their content exists, which is
// how forward and nominal references are satisfied.
//
// Deferred:
// A lazy, write-once handle around a timeline factory. The first Resolve runs
// the factory; every later call returns the cached result. Reentrant
// resolution of the same node is a genuine by-value cycle and fails with
// CYCLIC_TYPE_REFERENCE instead of recursing.
//
// Merge:
// BuildTimeline walks the axis in order and emits an entry only when the
// snapshot differs from the last emitted one. The baseline always emits.
//
// Evaluation is single-threaded. Nothing in this package locks.
package engine
