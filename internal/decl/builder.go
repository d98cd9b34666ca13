package decl

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/roach88/strata/internal/engine"
	"github.com/roach88/strata/internal/ir"
)

// Wrapper turns a resolved declaration timeline into the reference timeline
// handed to whoever uses the builder as a type.
type Wrapper func(name ir.QualifiedName, decls *ir.Timeline[ir.Declaration]) *ir.Timeline[ir.TypeRef]

// NamedWrapper is the default Wrapper: each revision becomes a named
// reference pinned to the revision's since, so a change in the declaration
// is a change in every snapshot that embeds it.
func NamedWrapper(name ir.QualifiedName, decls *ir.Timeline[ir.Declaration]) *ir.Timeline[ir.TypeRef] {
	return ir.MapEntries(decls, func(e ir.Entry[ir.Declaration]) ir.TypeRef {
		return ir.NamedRef(name, e.Since)
	})
}

// Option configures a builder.
type Option func(*base)

// WithScope fixes the scope the declaration registers in, regardless of
// where it is first resolved from.
func WithScope(scope *engine.Scope) Option {
	return func(b *base) { b.parent = scope }
}

// WithWrapper replaces NamedWrapper.
func WithWrapper(w Wrapper) Option {
	return func(b *base) { b.wrapper = w }
}

// buildFunc produces the declaration timeline once the qualified name and
// the child scope for nested members are known.
type buildFunc func(qname ir.QualifiedName, child *engine.Scope) (*ir.Timeline[ir.Declaration], error)

// base carries what every builder kind shares: naming, the registration
// target, the memoized node and the resolved result.
type base struct {
	kind    ir.DeclKind
	name    string
	hint    string
	parent  *engine.Scope
	wrapper Wrapper
	node    *engine.Deferred[ir.TypeRef]

	qname ir.QualifiedName
	decls *ir.Timeline[ir.Declaration]
}

func newBase(kind ir.DeclKind, name string, opts []Option) base {
	b := base{kind: kind, name: name, wrapper: NamedWrapper}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// init binds the node to the outer builder. It must run after the builder
// value has its final address.
func (b *base) init(build buildFunc) {
	b.node = engine.NewDeferred(b.name, func(scope *engine.Scope, topLevel bool) (*ir.Timeline[ir.TypeRef], error) {
		return b.resolve(scope, topLevel, build)
	})
}

// Get resolves the builder. The first call freezes it; later calls return
// the cached timeline whatever their arguments.
func (b *base) Get(scope *engine.Scope, hint string, topLevel bool) (*ir.Timeline[ir.TypeRef], error) {
	if b.name == "" && b.hint == "" && !b.node.Done() && !b.node.InProgress() {
		b.hint = hint
		b.node.SetName(hint)
	}
	return b.node.Resolve(scope, topLevel)
}

func (b *base) resolve(scope *engine.Scope, topLevel bool, build buildFunc) (*ir.Timeline[ir.TypeRef], error) {
	target := b.parent
	if target == nil && scope != nil {
		target = scope
		if topLevel {
			target = scope.Root()
		}
	}
	name := b.localName()
	if target == nil {
		return nil, missingScope(name)
	}
	if name == "" {
		return nil, &ir.Error{
			Code:        ir.ErrCodeInvalidDeclaration,
			Message:     fmt.Sprintf("anonymous %s needs a name hint", b.kind),
			Declaration: string(target.Path()),
		}
	}

	qname, err := target.Reserve(name)
	if err != nil {
		return nil, err
	}
	b.qname = qname

	decls, err := build(qname, target.Nested(name))
	if err != nil {
		return nil, ir.WithDeclaration(err, string(qname))
	}
	if _, err := target.Register(name, b, decls); err != nil {
		return nil, err
	}
	b.decls = decls

	log.Debug().
		Str("name", string(qname)).
		Str("kind", string(b.kind)).
		Int("revisions", decls.Len()).
		Msg("declaration resolved")
	return b.wrapper(qname, decls), nil
}

func (b *base) localName() string {
	if b.name != "" {
		return b.name
	}
	return b.hint
}

func (b *base) displayName() string {
	if b.qname != "" {
		return string(b.qname)
	}
	return b.localName()
}

// mutable returns ALREADY_RESOLVED once resolution has started.
func (b *base) mutable() error {
	if b.node.Done() || b.node.InProgress() {
		return &ir.Error{
			Code:        ir.ErrCodeAlreadyResolved,
			Message:     fmt.Sprintf("cannot add members to a %s after it was resolved", b.kind),
			Declaration: b.displayName(),
		}
	}
	return nil
}

// Name returns the builder's local name, empty for anonymous builders that
// have not been resolved.
func (b *base) Name() string {
	return b.localName()
}

// QualifiedName returns the registered name. It is empty before resolution.
func (b *base) QualifiedName() ir.QualifiedName {
	return b.qname
}

// Declarations returns the resolved declaration timeline, or nil before a
// successful resolution.
func (b *base) Declarations() *ir.Timeline[ir.Declaration] {
	return b.decls
}

// Resolved reports whether Get has completed.
func (b *base) Resolved() bool {
	return b.node.Done()
}
