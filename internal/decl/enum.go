package decl

import (
	"fmt"

	"github.com/roach88/strata/internal/engine"
	"github.com/roach88/strata/internal/ir"
)

// EnumMember is one enum value. Its serialized value is its identity.
type EnumMember struct {
	member
	name  string
	value ir.IRValue
	wire  string
}

// Name returns the symbolic name.
func (m *EnumMember) Name() string {
	return m.name
}

// Value returns the backing literal.
func (m *EnumMember) Value() ir.IRValue {
	m.read()
	return m.value
}

// Enum builds a set of discrete values over a backing primitive.
type Enum struct {
	base
	backing ir.Primitive
	values  []*EnumMember
}

// NewEnum creates an enum builder. backing must be string or int.
func NewEnum(name string, backing ir.Primitive, opts ...Option) *Enum {
	e := &Enum{base: newBase(ir.KindEnum, name, opts), backing: backing}
	e.init(e.build)
	return e
}

// Backing returns the backing primitive.
func (e *Enum) Backing() ir.Primitive {
	return e.backing
}

// Value adds a value. literal must be of the backing kind. A name or a
// serialized value repeated at an overlapping version fails with
// DUPLICATE_KEY.
func (e *Enum) Value(name string, literal any, opts ...MemberOption) (*EnumMember, error) {
	if err := e.mutable(); err != nil {
		return nil, err
	}
	if err := e.checkBacking(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, e.invalid(name, "enum value needs a name")
	}
	value, err := ir.LiteralOf(literal)
	if err != nil {
		return nil, e.invalid(name, err.Error())
	}
	if kind, _ := ir.LiteralKind(value); kind != e.backing {
		return nil, e.invalid(name, fmt.Sprintf("value of kind %s does not match backing %s", kind, e.backing))
	}
	wire, err := ir.MarshalCanonical(value)
	if err != nil {
		return nil, e.invalid(name, err.Error())
	}

	cfg := newMemberConfig(opts)
	m := &EnumMember{
		member: newMember(&e.base, name, cfg),
		name:   name,
		value:  value,
		wire:   string(wire),
	}
	var axis *ir.Axis
	if e.parent != nil {
		axis = e.parent.Axis()
	}
	for _, other := range e.values {
		if err := e.duplicate(axis, m, other); err != nil {
			return nil, err
		}
	}
	e.values = append(e.values, m)
	return m, nil
}

// Values returns the values in declaration order.
func (e *Enum) Values() []*EnumMember {
	out := make([]*EnumMember, len(e.values))
	copy(out, e.values)
	return out
}

func (e *Enum) checkBacking() error {
	if e.backing != ir.PrimitiveString && e.backing != ir.PrimitiveInt {
		return e.invalid("", fmt.Sprintf("enum backing must be string or int, got %q", e.backing))
	}
	return nil
}

func (e *Enum) duplicate(axis *ir.Axis, m, other *EnumMember) error {
	if collides(axis, m.name, m.bound, other.name, other.bound) ||
		collides(axis, m.wire, m.bound, other.wire, other.bound) {
		return &ir.Error{
			Code:        ir.ErrCodeDuplicateKey,
			Message:     fmt.Sprintf("enum value %s=%s clashes with %s=%s", m.name, m.wire, other.name, other.wire),
			Declaration: e.displayName(),
			Member:      m.name,
		}
	}
	return nil
}

func (e *Enum) invalid(member, msg string) error {
	return &ir.Error{
		Code:        ir.ErrCodeInvalidDeclaration,
		Message:     msg,
		Declaration: e.displayName(),
		Member:      member,
	}
}

func (e *Enum) build(qname ir.QualifiedName, child *engine.Scope) (*ir.Timeline[ir.Declaration], error) {
	if err := e.checkBacking(); err != nil {
		return nil, err
	}
	axis := child.Axis()
	for i, m := range e.values {
		if err := m.validate(axis); err != nil {
			return nil, err
		}
		for _, other := range e.values[:i] {
			if err := e.duplicate(axis, m, other); err != nil {
				return nil, err
			}
		}
	}

	return engine.BuildTimeline[ir.Declaration](axis, func(v ir.Version) (ir.Declaration, error) {
		values := []ir.EnumValue{}
		for _, m := range e.values {
			if m.covers(axis, v) {
				values = append(values, ir.EnumValue{Name: m.name, Value: m.value, Deprecated: m.deprecated})
			}
		}
		return ir.Enum{Name: qname, Backing: e.backing, Values: values}, nil
	}, ir.Equal)
}
