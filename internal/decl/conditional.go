package decl

import (
	"fmt"

	"github.com/roach88/strata/internal/engine"
	"github.com/roach88/strata/internal/ir"
)

// Interp is one interpretation (variant) of a conditional.
type Interp struct {
	member
	key      string
	property string
	typ      Type

	types *ir.Timeline[ir.TypeRef]
}

// Key returns the disambiguation value selecting this variant.
func (i *Interp) Key() string {
	return i.key
}

// Property returns the side property the payload nests under, if any.
func (i *Interp) Property() string {
	i.read()
	return i.property
}

// Type returns the payload type.
func (i *Interp) Type() Type {
	i.read()
	return i.typ
}

// SetProperty changes the side property name.
func (i *Interp) SetProperty(name string) error {
	return i.mutate(func() { i.property = name })
}

// SetType replaces the payload type.
func (i *Interp) SetType(t Type) error {
	return i.mutate(func() { i.typ = t })
}

// Conditional builds a tagged union: shared properties common to every
// variant plus a set of interpretations selected by the value of Key.
type Conditional struct {
	base
	key     string
	nesting ir.NestingMode
	shared  propertySet
	interps []*Interp
}

// NewConditional creates a conditional disambiguated by key. Nesting
// defaults to same-level.
func NewConditional(name, key string, opts ...Option) *Conditional {
	c := &Conditional{
		base:    newBase(ir.KindConditional, name, opts),
		key:     key,
		nesting: ir.NestingSameLevel,
	}
	c.shared.owner = &c.base
	c.init(c.build)
	return c
}

// Key returns the disambiguation key.
func (c *Conditional) Key() string {
	return c.key
}

// Nesting returns the nesting mode.
func (c *Conditional) Nesting() ir.NestingMode {
	return c.nesting
}

// SetNesting changes where variant payloads live. It is declaration-wide
// and cannot change after resolution.
func (c *Conditional) SetNesting(mode ir.NestingMode) error {
	if err := c.mutable(); err != nil {
		return err
	}
	switch mode {
	case ir.NestingSameLevel, ir.NestingSideProperty:
		c.nesting = mode
		return nil
	default:
		return &ir.Error{
			Code:        ir.ErrCodeInvalidDeclaration,
			Message:     fmt.Sprintf("unknown nesting mode %q", mode),
			Declaration: c.displayName(),
		}
	}
}

// Shared adds a property common to every interpretation.
func (c *Conditional) Shared(key string, t Type, opts ...MemberOption) (*Prop, error) {
	return c.shared.add(key, t, opts)
}

// SharedProperties returns the shared properties in declaration order.
func (c *Conditional) SharedProperties() []*Prop {
	return c.shared.list()
}

// Interpretation adds a variant. Any repeated key fails with DUPLICATE_KEY,
// whatever the bounds.
func (c *Conditional) Interpretation(key string, t Type, opts ...MemberOption) (*Interp, error) {
	if err := c.mutable(); err != nil {
		return nil, err
	}
	if key == "" || t == nil {
		return nil, &ir.Error{
			Code:        ir.ErrCodeInvalidDeclaration,
			Message:     "interpretation needs a key and a type",
			Declaration: c.displayName(),
			Member:      key,
		}
	}
	for _, other := range c.interps {
		if other.key == key {
			return nil, &ir.Error{
				Code:        ir.ErrCodeDuplicateKey,
				Message:     fmt.Sprintf("interpretation %q is declared twice", key),
				Declaration: c.displayName(),
				Member:      key,
			}
		}
	}

	cfg := newMemberConfig(opts)
	i := &Interp{
		member:   newMember(&c.base, key, cfg),
		key:      key,
		property: cfg.property,
		typ:      t,
	}
	c.interps = append(c.interps, i)
	return i, nil
}

// Interpretations returns the interpretations in declaration order.
func (c *Conditional) Interpretations() []*Interp {
	out := make([]*Interp, len(c.interps))
	copy(out, c.interps)
	return out
}

// build computes the shared and interpretation timelines independently and
// evaluates the conditional only at the union of their change points.
func (c *Conditional) build(qname ir.QualifiedName, child *engine.Scope) (*ir.Timeline[ir.Declaration], error) {
	if c.key == "" {
		return nil, &ir.Error{
			Code:    ir.ErrCodeInvalidDeclaration,
			Message: "conditional needs a disambiguation key",
		}
	}
	axis := child.Axis()

	if err := c.shared.resolve(child); err != nil {
		return nil, err
	}
	for _, i := range c.interps {
		if err := i.validate(axis); err != nil {
			return nil, err
		}
		types, err := i.typ.Get(child, i.key, false)
		if err != nil {
			return nil, fmt.Errorf("interpretation %q: %w", i.key, err)
		}
		i.types = types
	}

	shared, err := engine.BuildTimeline[[]ir.Property](axis, func(v ir.Version) ([]ir.Property, error) {
		return c.shared.snapshot(axis, v)
	}, ir.EqualProperties)
	if err != nil {
		return nil, err
	}
	interps, err := engine.BuildTimeline[[]ir.Interpretation](axis, c.interpretationsAt(axis), ir.EqualInterpretations)
	if err != nil {
		return nil, err
	}

	points := engine.ChangePoints(axis, shared.Versions(), interps.Versions())
	return engine.BuildTimelineAt[ir.Declaration](axis, points, func(v ir.Version) (ir.Declaration, error) {
		props, err := shared.Resolve(v)
		if err != nil {
			return nil, err
		}
		variants, err := interps.Resolve(v)
		if err != nil {
			return nil, err
		}
		return ir.Conditional{
			Name:            qname,
			Key:             c.key,
			Nesting:         c.nesting,
			Shared:          props,
			Interpretations: variants,
		}, nil
	}, ir.Equal)
}

func (c *Conditional) interpretationsAt(axis *ir.Axis) engine.Snapshot[[]ir.Interpretation] {
	return func(v ir.Version) ([]ir.Interpretation, error) {
		out := []ir.Interpretation{}
		for _, i := range c.interps {
			if !i.covers(axis, v) {
				continue
			}
			ref, err := i.types.Resolve(v)
			if err != nil {
				return nil, err
			}
			out = append(out, ir.Interpretation{
				Key:        i.key,
				Property:   i.property,
				Type:       ref,
				Deprecated: i.deprecated,
			})
		}
		return out, nil
	}
}
