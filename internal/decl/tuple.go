package decl

import (
	"fmt"

	"github.com/roach88/strata/internal/engine"
	"github.com/roach88/strata/internal/ir"
)

// Element is one positional tuple element. Its position is fixed when it
// is added.
type Element struct {
	member
	position int
	typ      Type

	types *ir.Timeline[ir.TypeRef]
}

// Position returns the declared index.
func (e *Element) Position() int {
	return e.position
}

// Type returns the element type.
func (e *Element) Type() Type {
	e.read()
	return e.typ
}

// SetType replaces the element type.
func (e *Element) SetType(t Type) error {
	return e.mutate(func() { e.typ = t })
}

// Tuple builds an ordered list of independently typed elements.
type Tuple struct {
	base
	elems []*Element
}

// NewTuple creates a tuple builder.
func NewTuple(name string, opts ...Option) *Tuple {
	t := &Tuple{base: newBase(ir.KindTuple, name, opts)}
	t.init(t.build)
	return t
}

// Element appends an element at the next position.
func (t *Tuple) Element(typ Type, opts ...MemberOption) (*Element, error) {
	if err := t.mutable(); err != nil {
		return nil, err
	}
	pos := len(t.elems)
	if typ == nil {
		return nil, &ir.Error{
			Code:        ir.ErrCodeInvalidDeclaration,
			Message:     "tuple element needs a type",
			Declaration: t.displayName(),
			Member:      elementLabel(pos),
		}
	}
	e := &Element{
		member:   newMember(&t.base, elementLabel(pos), newMemberConfig(opts)),
		position: pos,
		typ:      typ,
	}
	t.elems = append(t.elems, e)
	return e, nil
}

// Elements returns the elements in position order.
func (t *Tuple) Elements() []*Element {
	out := make([]*Element, len(t.elems))
	copy(out, t.elems)
	return out
}

func (t *Tuple) build(qname ir.QualifiedName, child *engine.Scope) (*ir.Timeline[ir.Declaration], error) {
	axis := child.Axis()
	for _, e := range t.elems {
		if err := e.validate(axis); err != nil {
			return nil, err
		}
		types, err := e.typ.Get(child, e.label, false)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.label, err)
		}
		e.types = types
	}

	return engine.BuildTimeline[ir.Declaration](axis, func(v ir.Version) (ir.Declaration, error) {
		elems := []ir.TupleElement{}
		for _, e := range t.elems {
			if !e.covers(axis, v) {
				continue
			}
			ref, err := e.types.Resolve(v)
			if err != nil {
				return nil, err
			}
			elems = append(elems, ir.TupleElement{Position: e.position, Type: ref})
		}
		return ir.Tuple{Name: qname, Elements: elems}, nil
	}, ir.Equal)
}

func elementLabel(pos int) string {
	return fmt.Sprintf("element%d", pos)
}
