package decl

import (
	"fmt"

	"github.com/roach88/strata/internal/engine"
	"github.com/roach88/strata/internal/ir"
)

// Prop is one record property. Its key is its identity.
type Prop struct {
	member
	key         string
	typ         Type
	inline      bool
	lenient     bool
	localized   bool
	requirement ir.Requirement

	types *ir.Timeline[ir.TypeRef]
}

// Key returns the serialized key.
func (p *Prop) Key() string {
	return p.key
}

// Type returns the property type.
func (p *Prop) Type() Type {
	p.read()
	return p.typ
}

// Requirement returns when the property must be present.
func (p *Prop) Requirement() ir.Requirement {
	p.read()
	return p.requirement
}

// SetType replaces the property type.
func (p *Prop) SetType(t Type) error {
	return p.mutate(func() { p.typ = t })
}

// SetInline changes the inline flag.
func (p *Prop) SetInline(on bool) error {
	return p.mutate(func() { p.inline = on })
}

// SetLenient changes the lenient-coercion flag.
func (p *Prop) SetLenient(on bool) error {
	return p.mutate(func() { p.lenient = on })
}

// SetLocalized changes the localized flag.
func (p *Prop) SetLocalized(on bool) error {
	return p.mutate(func() { p.localized = on })
}

// SetRequirement changes when the property must be present.
func (p *Prop) SetRequirement(r ir.Requirement) error {
	return p.mutate(func() { p.requirement = r })
}

// propertySet is the property list of a record or of a conditional's
// shared part.
type propertySet struct {
	owner *base
	props []*Prop
}

func (s *propertySet) add(key string, t Type, opts []MemberOption) (*Prop, error) {
	if err := s.owner.mutable(); err != nil {
		return nil, err
	}
	if key == "" || t == nil {
		return nil, &ir.Error{
			Code:        ir.ErrCodeInvalidDeclaration,
			Message:     "property needs a key and a type",
			Declaration: s.owner.displayName(),
			Member:      key,
		}
	}

	cfg := newMemberConfig(opts)
	p := &Prop{
		member:      newMember(s.owner, key, cfg),
		key:         key,
		typ:         t,
		inline:      cfg.inline,
		lenient:     cfg.lenient,
		localized:   cfg.localized,
		requirement: cfg.requirement,
	}
	var axis *ir.Axis
	if s.owner.parent != nil {
		axis = s.owner.parent.Axis()
	}
	for _, other := range s.props {
		if collides(axis, p.key, p.bound, other.key, other.bound) {
			return nil, s.collision(p)
		}
	}
	s.props = append(s.props, p)
	return p, nil
}

func (s *propertySet) collision(p *Prop) error {
	return &ir.Error{
		Code:        ir.ErrCodePropertyKeyCollision,
		Message:     fmt.Sprintf("property key %q is declared twice over overlapping versions", p.key),
		Declaration: s.owner.displayName(),
		Member:      p.key,
	}
}

// resolve validates every property and resolves its type in child.
func (s *propertySet) resolve(child *engine.Scope) error {
	axis := child.Axis()
	for i, p := range s.props {
		if err := p.validate(axis); err != nil {
			return err
		}
		for _, other := range s.props[:i] {
			if collides(axis, p.key, p.bound, other.key, other.bound) {
				return s.collision(p)
			}
		}
	}
	for _, p := range s.props {
		p.read()
		types, err := p.typ.Get(child, p.key, false)
		if err != nil {
			return fmt.Errorf("property %q: %w", p.key, err)
		}
		p.types = types
	}
	return nil
}

// snapshot returns the properties in force at v, in declaration order.
func (s *propertySet) snapshot(axis *ir.Axis, v ir.Version) ([]ir.Property, error) {
	out := []ir.Property{}
	for _, p := range s.props {
		if !p.covers(axis, v) {
			continue
		}
		ref, err := p.types.Resolve(v)
		if err != nil {
			return nil, err
		}
		out = append(out, ir.Property{
			Key:         p.key,
			Type:        ref,
			Deprecated:  p.deprecated,
			Inline:      p.inline,
			Lenient:     p.lenient,
			Localized:   p.localized,
			Requirement: p.requirement,
		})
	}
	return out, nil
}

func (s *propertySet) list() []*Prop {
	out := make([]*Prop, len(s.props))
	copy(out, s.props)
	return out
}

// collides reports whether two keyed members clash. Without an axis only
// identical bounds are known to overlap.
func collides(axis *ir.Axis, keyA string, a ir.Bound, keyB string, b ir.Bound) bool {
	if keyA != keyB {
		return false
	}
	if axis == nil {
		return a == b
	}
	return a.Overlaps(axis, b)
}

// Record builds a declaration of named properties.
type Record struct {
	base
	props propertySet
}

// NewRecord creates a record builder. An empty name makes it anonymous: it
// takes its name from the hint of its first resolution.
func NewRecord(name string, opts ...Option) *Record {
	r := &Record{base: newBase(ir.KindRecord, name, opts)}
	r.props.owner = &r.base
	r.init(r.build)
	return r
}

// Property adds a property. Adding a key that is already present at an
// overlapping version fails with PROPERTY_KEY_COLLISION.
func (r *Record) Property(key string, t Type, opts ...MemberOption) (*Prop, error) {
	return r.props.add(key, t, opts)
}

// Properties returns the properties in declaration order.
func (r *Record) Properties() []*Prop {
	return r.props.list()
}

func (r *Record) build(qname ir.QualifiedName, child *engine.Scope) (*ir.Timeline[ir.Declaration], error) {
	if err := r.props.resolve(child); err != nil {
		return nil, err
	}
	axis := child.Axis()
	return engine.BuildTimeline[ir.Declaration](axis, func(v ir.Version) (ir.Declaration, error) {
		props, err := r.props.snapshot(axis, v)
		if err != nil {
			return nil, err
		}
		return ir.Record{Name: qname, Properties: props}, nil
	}, ir.Equal)
}
