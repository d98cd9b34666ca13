package engine

import (
	"github.com/roach88/strata/internal/ir"
)

// Factory builds a timeline. scope is the scope the caller resolves in and
// may be nil for nodes that never register anything.
type Factory[T any] func(scope *Scope, topLevel bool) (*ir.Timeline[T], error)

type deferredState int

const (
	statePending deferredState = iota
	stateResolving
	stateDone
)

// Deferred is a lazy, memoized handle to a timeline.
//
// The factory runs at most once. The first Resolve caches the timeline (or
// the error) and every later call returns it unchanged, regardless of its
// arguments. Resolving a Deferred from inside its own factory fails with
// CYCLIC_TYPE_REFERENCE.
type Deferred[T any] struct {
	name    string
	factory Factory[T]
	state   deferredState
	result  *ir.Timeline[T]
	err     error
}

// NewDeferred wraps factory. name labels the node in cycle diagnostics.
func NewDeferred[T any](name string, factory Factory[T]) *Deferred[T] {
	return &Deferred[T]{name: name, factory: factory}
}

// Resolved wraps an already-built timeline.
func Resolved[T any](name string, t *ir.Timeline[T]) *Deferred[T] {
	return &Deferred[T]{name: name, state: stateDone, result: t}
}

// Name returns the diagnostic label.
func (d *Deferred[T]) Name() string {
	return d.name
}

// SetName relabels a node that has not started resolving. Anonymous
// declarations only learn their name from the resolution hint.
func (d *Deferred[T]) SetName(name string) {
	if d.state == statePending {
		d.name = name
	}
}

// Resolve returns the cached timeline, running the factory on first use.
func (d *Deferred[T]) Resolve(scope *Scope, topLevel bool) (*ir.Timeline[T], error) {
	switch d.state {
	case stateDone:
		return d.result, d.err
	case stateResolving:
		return nil, NewCycleError(traceOf(scope).CyclePath(d.name))
	}

	trace := traceOf(scope)
	d.state = stateResolving
	trace.Enter(d.name)
	result, err := d.factory(scope, topLevel)
	trace.Leave()

	d.result, d.err = result, err
	d.state = stateDone
	d.factory = nil
	return d.result, d.err
}

// Done reports whether Resolve has completed.
func (d *Deferred[T]) Done() bool {
	return d.state == stateDone
}

// InProgress reports whether the factory is currently running.
func (d *Deferred[T]) InProgress() bool {
	return d.state == stateResolving
}

func traceOf(scope *Scope) *ResolutionTrace {
	if scope == nil {
		return &ResolutionTrace{}
	}
	return scope.Root().registry.trace
}
