package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"github.com/rs/zerolog/log"

	"github.com/roach88/strata/internal/decl"
	"github.com/roach88/strata/internal/engine"
	"github.com/roach88/strata/internal/ir"
)

// declKinds lists the top-level sections of a document, in the order their
// declarations are resolved.
var declKinds = []ir.DeclKind{
	ir.KindRecord,
	ir.KindEnum,
	ir.KindTuple,
	ir.KindConditional,
	ir.KindAlias,
}

// typeForms are the keys a struct-form type may use. Exactly one is allowed.
var typeForms = []string{"ref", "array", "map", "record", "enum", "tuple", "conditional"}

// Options controls compilation.
type Options struct {
	// VersionOrder overrides version_order in the document when set.
	VersionOrder string
}

// builder is what every declaration builder exposes once wrapped.
type builder interface {
	decl.Type
	QualifiedName() ir.QualifiedName
	Declarations() *ir.Timeline[ir.Declaration]
}

type topLevel struct {
	kind    ir.DeclKind
	name    string
	field   string
	value   cue.Value
	builder builder
}

type compiler struct {
	root   *engine.Scope
	order  []*topLevel
	byName map[string]*topLevel
}

// Compile turns a CUE document into a resolved graph.
//
// Compilation runs in three passes: every top-level name is reserved and
// its builder created; members are populated, so bare type names may refer
// to declarations appearing later; then every top-level builder is resolved
// in document order.
//
// The CUE value should be the document root, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`versions: ["v1", "v2"], record: User: property: id: type: "string"`)
//	g, err := Compile(v, Options{})
func Compile(v cue.Value, opts Options) (*ir.Graph, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	axis, err := CompileAxis(v, opts.VersionOrder)
	if err != nil {
		return nil, err
	}

	c := &compiler{
		root:   engine.NewScope(axis),
		byName: make(map[string]*topLevel),
	}
	if err := c.declare(v); err != nil {
		return nil, err
	}
	for _, top := range c.order {
		if err := c.fill(top.builder, top.value, top.field); err != nil {
			return nil, err
		}
	}
	if err := c.resolve(); err != nil {
		return nil, err
	}

	if pending := c.root.Pending(); len(pending) > 0 {
		log.Debug().Int("pending", len(pending)).Msg("names reserved but never registered")
	}
	return c.root.Graph()
}

// declare creates a builder for every top-level declaration and reserves
// its name in the root scope.
func (c *compiler) declare(v cue.Value) error {
	for _, kind := range declKinds {
		section := v.LookupPath(cue.ParsePath(string(kind)))
		if !section.Exists() {
			continue
		}

		iter, err := section.Fields()
		if err != nil {
			return formatCUEError(err)
		}
		for iter.Next() {
			name := iter.Label()
			value := iter.Value()
			field := fmt.Sprintf("%s.%s", kind, name)

			if prev, dup := c.byName[name]; dup {
				return &CompileError{
					Field:   field,
					Message: fmt.Sprintf("name %q is already declared as %s", name, prev.field),
					Pos:     value.Pos(),
					Err:     &ir.Error{Code: ir.ErrCodeDuplicateName, Message: "top-level name declared twice", Declaration: name},
				}
			}

			b, err := c.newBuilder(kind, name, value, field, decl.WithScope(c.root))
			if err != nil {
				return err
			}
			if _, err := c.root.Reserve(name); err != nil {
				return &CompileError{Field: field, Message: err.Error(), Pos: value.Pos(), Err: err}
			}

			top := &topLevel{kind: kind, name: name, field: field, value: value, builder: b}
			c.order = append(c.order, top)
			c.byName[name] = top
		}
	}
	return nil
}

// newBuilder creates an empty builder of kind. Only the settings a builder
// needs at construction (enum backing, conditional key) are read here.
func (c *compiler) newBuilder(kind ir.DeclKind, name string, v cue.Value, field string, opts ...decl.Option) (builder, error) {
	switch kind {
	case ir.KindRecord:
		return decl.NewRecord(name, opts...), nil
	case ir.KindEnum:
		backing, _, err := optString(v, "backing")
		if err != nil {
			return nil, err
		}
		if backing == "" {
			backing = string(ir.PrimitiveString)
		}
		p, ok := ir.ParsePrimitive(backing)
		if !ok || (p != ir.PrimitiveString && p != ir.PrimitiveInt) {
			return nil, &CompileError{
				Field:   field + ".backing",
				Message: fmt.Sprintf("enum backing must be \"string\" or \"int\", got %q", backing),
				Pos:     v.Pos(),
			}
		}
		return decl.NewEnum(name, p, opts...), nil
	case ir.KindTuple:
		return decl.NewTuple(name, opts...), nil
	case ir.KindConditional:
		key, ok, err := optString(v, "key")
		if err != nil {
			return nil, err
		}
		if !ok || key == "" {
			return nil, &CompileError{
				Field:   field + ".key",
				Message: "conditional key is required",
				Pos:     v.Pos(),
			}
		}
		return decl.NewConditional(name, key, opts...), nil
	case ir.KindAlias:
		return decl.NewAlias(name, nil, opts...), nil
	default:
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("unsupported declaration kind %q", kind),
			Pos:     v.Pos(),
		}
	}
}

// fill adds the members described by v to b.
func (c *compiler) fill(b builder, v cue.Value, field string) error {
	switch b := b.(type) {
	case *decl.Record:
		return c.fillProperties(v, field+".property", b.Property)
	case *decl.Enum:
		return c.fillEnum(b, v, field)
	case *decl.Tuple:
		return c.fillTuple(b, v, field)
	case *decl.Conditional:
		return c.fillConditional(b, v, field)
	case *decl.Alias:
		typeVal := v.LookupPath(cue.ParsePath("type"))
		if !typeVal.Exists() {
			return &CompileError{
				Field:   field + ".type",
				Message: "alias type is required",
				Pos:     v.Pos(),
			}
		}
		t, err := c.parseType(typeVal, field+".type")
		if err != nil {
			return err
		}
		if err := b.SetBacking(t); err != nil {
			return memberError(field, v, err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported builder %T", b)
	}
}

type addProperty func(key string, t decl.Type, opts ...decl.MemberOption) (*decl.Prop, error)

// fillProperties reads a struct of properties:
//
//	property: email: {type: "string", since: "v9", optional: true}
func (c *compiler) fillProperties(v cue.Value, field string, add addProperty) error {
	propsVal := v.LookupPath(cue.ParsePath("property"))
	if !propsVal.Exists() {
		return nil
	}

	iter, err := propsVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		key := iter.Label()
		pv := iter.Value()
		pfield := fmt.Sprintf("%s.%s", field, key)

		t, err := c.memberType(pv, pfield)
		if err != nil {
			return err
		}
		opts, err := propertyOptions(pv, pfield)
		if err != nil {
			return err
		}
		if _, err := add(key, t, opts...); err != nil {
			return memberError(pfield, pv, err)
		}
	}
	return nil
}

// fillEnum reads enum values:
//
//	value: GONE: {value: 2, since: "v10"}
func (c *compiler) fillEnum(e *decl.Enum, v cue.Value, field string) error {
	valuesVal := v.LookupPath(cue.ParsePath("value"))
	if !valuesVal.Exists() {
		return nil
	}

	iter, err := valuesVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		name := iter.Label()
		ev := iter.Value()
		efield := fmt.Sprintf("%s.value.%s", field, name)

		litVal := ev.LookupPath(cue.ParsePath("value"))
		if !litVal.Exists() {
			return &CompileError{Field: efield, Message: "enum value literal is required", Pos: ev.Pos()}
		}
		lit, err := literal(litVal, efield+".value")
		if err != nil {
			return err
		}
		opts, err := memberOptions(ev)
		if err != nil {
			return err
		}
		if _, err := e.Value(name, lit, opts...); err != nil {
			return memberError(efield, ev, err)
		}
	}
	return nil
}

// fillTuple reads positional elements:
//
//	element: [{type: "string"}, {type: "int", since: "v9"}]
func (c *compiler) fillTuple(t *decl.Tuple, v cue.Value, field string) error {
	elemsVal := v.LookupPath(cue.ParsePath("element"))
	if !elemsVal.Exists() {
		return nil
	}

	iter, err := elemsVal.List()
	if err != nil {
		return formatCUEError(err)
	}
	for i := 0; iter.Next(); i++ {
		ev := iter.Value()
		efield := fmt.Sprintf("%s.element[%d]", field, i)

		typ, err := c.memberType(ev, efield)
		if err != nil {
			return err
		}
		opts, err := memberOptions(ev)
		if err != nil {
			return err
		}
		if _, err := t.Element(typ, opts...); err != nil {
			return memberError(efield, ev, err)
		}
	}
	return nil
}

// fillConditional reads nesting, shared properties and interpretations:
//
//	nesting: "side_property"
//	shared: property: id: {type: "string"}
//	interpretation: created: {type: "User", property: "data"}
func (c *compiler) fillConditional(cond *decl.Conditional, v cue.Value, field string) error {
	nesting, ok, err := optString(v, "nesting")
	if err != nil {
		return err
	}
	if ok {
		if err := cond.SetNesting(ir.NestingMode(nesting)); err != nil {
			return memberError(field+".nesting", v, err)
		}
	}

	if sharedVal := v.LookupPath(cue.ParsePath("shared")); sharedVal.Exists() {
		if err := c.fillProperties(sharedVal, field+".shared.property", cond.Shared); err != nil {
			return err
		}
	}

	interpsVal := v.LookupPath(cue.ParsePath("interpretation"))
	if !interpsVal.Exists() {
		return nil
	}
	iter, err := interpsVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		key := iter.Label()
		iv := iter.Value()
		ifield := fmt.Sprintf("%s.interpretation.%s", field, key)

		typ, err := c.memberType(iv, ifield)
		if err != nil {
			return err
		}
		opts, err := memberOptions(iv)
		if err != nil {
			return err
		}
		prop, ok, err := optString(iv, "property")
		if err != nil {
			return err
		}
		if ok {
			opts = append(opts, decl.NestedIn(prop))
		}
		if _, err := cond.Interpretation(key, typ, opts...); err != nil {
			return memberError(ifield, iv, err)
		}
	}
	return nil
}

// memberType parses the required type field of a member.
func (c *compiler) memberType(v cue.Value, field string) (decl.Type, error) {
	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return nil, &CompileError{Field: field + ".type", Message: "type is required", Pos: v.Pos()}
	}
	return c.parseType(typeVal, field+".type")
}

// parseType converts a type expression. A string is a primitive name or a
// by-value reference to a top-level declaration; a struct is one of the
// forms in typeForms.
func (c *compiler) parseType(v cue.Value, field string) (decl.Type, error) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		name, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if p, ok := ir.ParsePrimitive(name); ok {
			return decl.Primitive(p), nil
		}
		if top, ok := c.byName[name]; ok {
			return top.builder, nil
		}
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("unknown type %q", name),
			Pos:     v.Pos(),
			Err:     &ir.Error{Code: ir.ErrCodeUnknownDeclaration, Message: "no top-level declaration with this name", Declaration: name},
		}
	case cue.StructKind:
		return c.parseCompositeType(v, field)
	default:
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("type must be a name or a struct, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

func (c *compiler) parseCompositeType(v cue.Value, field string) (decl.Type, error) {
	var form string
	for _, f := range typeForms {
		if v.LookupPath(cue.ParsePath(f)).Exists() {
			if form != "" {
				return nil, &CompileError{
					Field:   field,
					Message: fmt.Sprintf("type has both %q and %q", form, f),
					Pos:     v.Pos(),
				}
			}
			form = f
		}
	}
	if form == "" {
		return nil, &CompileError{
			Field:   field,
			Message: "type struct needs one of ref, array, map, record, enum, tuple, conditional",
			Pos:     v.Pos(),
		}
	}

	nullable, err := optBool(v, "nullable")
	if err != nil {
		return nil, err
	}
	if nullable && form != "array" && form != "map" {
		return nil, &CompileError{
			Field:   field + ".nullable",
			Message: "nullable applies to array and map types only",
			Pos:     v.Pos(),
		}
	}

	body := v.LookupPath(cue.ParsePath(form))
	bfield := field + "." + form
	switch form {
	case "ref":
		name, err := body.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return decl.Ref(name), nil
	case "array":
		elem, err := c.parseType(body, bfield)
		if err != nil {
			return nil, err
		}
		return decl.ArrayOf(elem, nullable), nil
	case "map":
		key, _, err := optString(v, "key")
		if err != nil {
			return nil, err
		}
		if key == "" {
			key = string(ir.PrimitiveString)
		}
		elem, err := c.parseType(body, bfield)
		if err != nil {
			return nil, err
		}
		return decl.MapOf(ir.Primitive(key), elem, nullable), nil
	default:
		anon, err := c.newBuilder(ir.DeclKind(form), "", body, bfield)
		if err != nil {
			return nil, err
		}
		if err := c.fill(anon, body, bfield); err != nil {
			return nil, err
		}
		return anon, nil
	}
}

// resolve resolves every top-level builder in document order.
func (c *compiler) resolve() error {
	for _, top := range c.order {
		if _, err := top.builder.Get(c.root, "", true); err != nil {
			return &CompileError{
				Field:   top.field,
				Message: err.Error(),
				Pos:     top.value.Pos(),
				Err:     err,
			}
		}
		log.Debug().
			Str("name", top.name).
			Str("kind", string(top.kind)).
			Int("revisions", top.builder.Declarations().Len()).
			Msg("compiled declaration")
	}
	return nil
}

func memberError(field string, v cue.Value, err error) error {
	return &CompileError{Field: field, Message: err.Error(), Pos: v.Pos(), Err: err}
}
