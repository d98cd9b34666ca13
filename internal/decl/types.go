package decl

import (
	"fmt"

	"github.com/roach88/strata/internal/engine"
	"github.com/roach88/strata/internal/ir"
)

// Type is anything a member can be typed with: a primitive, a composite, a
// reference or another builder.
type Type interface {
	// Get resolves the type against scope. hint names anonymous
	// declarations; topLevel asks for registration at the scope's root.
	Get(scope *engine.Scope, hint string, topLevel bool) (*ir.Timeline[ir.TypeRef], error)
}

// Primitive types.
var (
	String = Primitive(ir.PrimitiveString)
	Int    = Primitive(ir.PrimitiveInt)
	Float  = Primitive(ir.PrimitiveFloat)
	Bool   = Primitive(ir.PrimitiveBool)
	Any    = Primitive(ir.PrimitiveAny)
)

type primitiveType struct {
	p ir.Primitive
}

// Primitive returns the type for a primitive. Its timeline never changes.
func Primitive(p ir.Primitive) Type {
	return primitiveType{p: p}
}

func (t primitiveType) Get(scope *engine.Scope, _ string, _ bool) (*ir.Timeline[ir.TypeRef], error) {
	if scope == nil {
		return nil, missingScope(string(t.p))
	}
	return ir.Constant(scope.Axis(), ir.PrimitiveRef(t.p)), nil
}

func (t primitiveType) String() string {
	return string(t.p)
}

// composite wraps an element type lazily. The first Get resolves the
// element and every later Get returns the same timeline.
type composite struct {
	node *engine.Deferred[ir.TypeRef]
	hint string
}

func (c *composite) Get(scope *engine.Scope, hint string, _ bool) (*ir.Timeline[ir.TypeRef], error) {
	if c.hint == "" {
		c.hint = hint
	}
	return c.node.Resolve(scope, false)
}

// ArrayOf returns an array of elem.
func ArrayOf(elem Type, nullable bool) Type {
	c := &composite{}
	c.node = engine.NewDeferred("array", func(scope *engine.Scope, _ bool) (*ir.Timeline[ir.TypeRef], error) {
		inner, err := elem.Get(scope, c.hint, false)
		if err != nil {
			return nil, err
		}
		return ir.MapTimeline(inner, func(r ir.TypeRef) ir.TypeRef {
			return ir.ArrayRef(r, nullable)
		}), nil
	})
	return c
}

// MapOf returns a map from key to elem. Keys must be string or int.
func MapOf(key ir.Primitive, elem Type, nullable bool) Type {
	c := &composite{}
	c.node = engine.NewDeferred("map", func(scope *engine.Scope, _ bool) (*ir.Timeline[ir.TypeRef], error) {
		if key != ir.PrimitiveString && key != ir.PrimitiveInt {
			return nil, &ir.Error{
				Code:    ir.ErrCodeInvalidDeclaration,
				Message: fmt.Sprintf("map key must be string or int, got %q", key),
				Member:  c.hint,
			}
		}
		inner, err := elem.Get(scope, c.hint, false)
		if err != nil {
			return nil, err
		}
		return ir.MapTimeline(inner, func(r ir.TypeRef) ir.TypeRef {
			return ir.MapRef(key, r, nullable)
		}), nil
	})
	return c
}

type refType struct {
	name string
}

// Ref is a nominal reference: it names a declaration reserved in the scope
// chain without resolving it. References through Ref may form cycles.
func Ref(name string) Type {
	return refType{name: name}
}

func (t refType) Get(scope *engine.Scope, _ string, _ bool) (*ir.Timeline[ir.TypeRef], error) {
	if scope == nil {
		return nil, missingScope(t.name)
	}
	qname, ok := scope.Lookup(t.name)
	if !ok {
		return nil, &ir.Error{
			Code:        ir.ErrCodeUnknownDeclaration,
			Message:     fmt.Sprintf("no declaration named %q is visible from scope %q", t.name, scope.Path()),
			Declaration: t.name,
		}
	}
	return ir.Constant(scope.Axis(), ir.NamedRef(qname, "")), nil
}

// Lazy defers obtaining a type until it is first resolved, for by-value
// references to builders defined later. factory runs at most once.
func Lazy(name string, factory func() (Type, error)) Type {
	c := &composite{}
	c.node = engine.NewDeferred(name, func(scope *engine.Scope, _ bool) (*ir.Timeline[ir.TypeRef], error) {
		t, err := factory()
		if err != nil {
			return nil, err
		}
		return t.Get(scope, c.hint, false)
	})
	return c
}

func missingScope(name string) *ir.Error {
	return &ir.Error{
		Code:        ir.ErrCodeMissingScope,
		Message:     "resolution requires a scope",
		Declaration: name,
	}
}
