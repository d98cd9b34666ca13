package ir

import (
	"fmt"
	"strings"
)

// Primitive is a scalar JSON type.
type Primitive string

const (
	PrimitiveString Primitive = "string"
	PrimitiveInt    Primitive = "int"
	PrimitiveFloat  Primitive = "float"
	PrimitiveBool   Primitive = "bool"
	PrimitiveAny    Primitive = "any"
)

// ParsePrimitive maps a primitive name to its Primitive.
func ParsePrimitive(name string) (Primitive, bool) {
	switch p := Primitive(name); p {
	case PrimitiveString, PrimitiveInt, PrimitiveFloat, PrimitiveBool, PrimitiveAny:
		return p, true
	default:
		return "", false
	}
}

// RefKind identifies the shape of a TypeRef.
type RefKind string

const (
	RefPrimitive RefKind = "primitive"
	RefNamed     RefKind = "named"
	RefArray     RefKind = "array"
	RefMap       RefKind = "map"
)

// TypeRef is the type of a member as seen at one version.
//
// A named reference carries the Revision (the Since of the referenced
// declaration's entry in force) so that a change inside a nested declaration
// changes the referencing snapshot too. Nominal references, used to break
// cycles between names, leave Revision empty.
type TypeRef struct {
	Kind      RefKind       `json:"kind" yaml:"kind"`
	Primitive Primitive     `json:"primitive,omitempty" yaml:"primitive,omitempty"`
	Name      QualifiedName `json:"name,omitempty" yaml:"name,omitempty"`
	Revision  Version       `json:"revision,omitempty" yaml:"revision,omitempty"`
	Elem      *TypeRef      `json:"elem,omitempty" yaml:"elem,omitempty"`
	Key       Primitive     `json:"key,omitempty" yaml:"key,omitempty"`
	Nullable  bool          `json:"nullable,omitempty" yaml:"nullable,omitempty"`
}

// PrimitiveRef returns a reference to a primitive type.
func PrimitiveRef(p Primitive) TypeRef {
	return TypeRef{Kind: RefPrimitive, Primitive: p}
}

// NamedRef returns a reference to a declaration at a given revision.
func NamedRef(name QualifiedName, revision Version) TypeRef {
	return TypeRef{Kind: RefNamed, Name: name, Revision: revision}
}

// ArrayRef returns an array of elem.
func ArrayRef(elem TypeRef, nullable bool) TypeRef {
	return TypeRef{Kind: RefArray, Elem: &elem, Nullable: nullable}
}

// MapRef returns a map from key to elem.
func MapRef(key Primitive, elem TypeRef, nullable bool) TypeRef {
	return TypeRef{Kind: RefMap, Key: key, Elem: &elem, Nullable: nullable}
}

// Canonical returns the content of the reference for equality and hashing.
func (r TypeRef) Canonical() IRObject {
	obj := IRObject{"kind": IRString(r.Kind)}
	switch r.Kind {
	case RefPrimitive:
		obj["primitive"] = IRString(r.Primitive)
	case RefNamed:
		obj["name"] = IRString(r.Name)
		if r.Revision != "" {
			obj["revision"] = IRString(r.Revision)
		}
	case RefArray:
		obj["elem"] = r.Elem.Canonical()
	case RefMap:
		obj["key"] = IRString(r.Key)
		obj["elem"] = r.Elem.Canonical()
	}
	if r.Nullable {
		obj["nullable"] = IRBool(true)
	}
	return obj
}

// Names returns every declaration name the reference mentions.
func (r TypeRef) Names() []QualifiedName {
	switch r.Kind {
	case RefNamed:
		return []QualifiedName{r.Name}
	case RefArray, RefMap:
		if r.Elem != nil {
			return r.Elem.Names()
		}
	}
	return nil
}

// String renders the reference compactly, e.g. "[]User@v9" or "map[string]int?".
func (r TypeRef) String() string {
	var s string
	switch r.Kind {
	case RefPrimitive:
		s = string(r.Primitive)
	case RefNamed:
		s = string(r.Name)
		if r.Revision != "" {
			s += "@" + string(r.Revision)
		}
	case RefArray:
		s = "[]" + r.Elem.String()
	case RefMap:
		s = fmt.Sprintf("map[%s]%s", r.Key, r.Elem.String())
	default:
		s = "<invalid>"
	}
	if r.Nullable {
		s += "?"
	}
	return s
}

// DeclKind identifies a declaration kind. The set is closed.
type DeclKind string

const (
	KindRecord      DeclKind = "record"
	KindEnum        DeclKind = "enum"
	KindTuple       DeclKind = "tuple"
	KindConditional DeclKind = "conditional"
	KindAlias       DeclKind = "alias"
)

// Declaration is a sealed interface over the five declaration kinds.
// A value is an immutable snapshot valid for one timeline entry.
type Declaration interface {
	DeclName() QualifiedName
	Kind() DeclKind
	Canonical() IRObject
	declaration() // Sealed
}

// RequirementMode controls when a record property must be present.
type RequirementMode string

const (
	// RequiredAlways is the default: the property is always present.
	RequiredAlways RequirementMode = ""
	// RequiredWithScope means present only when the caller holds AccessScope.
	RequiredWithScope RequirementMode = "scoped"
	// RequiredNever means the property is always optional.
	RequiredNever RequirementMode = "optional"
)

// Requirement is the optionality of a record property.
type Requirement struct {
	Mode        RequirementMode `json:"mode,omitempty" yaml:"mode,omitempty"`
	AccessScope string          `json:"access_scope,omitempty" yaml:"access_scope,omitempty"`
}

// Property is one field of a record (or a conditional's shared part).
type Property struct {
	Key         string      `json:"key" yaml:"key"`
	Type        TypeRef     `json:"type" yaml:"type"`
	Deprecated  bool        `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	Inline      bool        `json:"inline,omitempty" yaml:"inline,omitempty"`
	Lenient     bool        `json:"lenient,omitempty" yaml:"lenient,omitempty"`
	Localized   bool        `json:"localized,omitempty" yaml:"localized,omitempty"`
	Requirement Requirement `json:"requirement,omitempty" yaml:"requirement,omitempty"`
}

// Canonical returns the property content without its key.
func (p Property) Canonical() IRObject {
	obj := IRObject{"type": p.Type.Canonical()}
	setFlag(obj, "deprecated", p.Deprecated)
	setFlag(obj, "inline", p.Inline)
	setFlag(obj, "lenient", p.Lenient)
	setFlag(obj, "localized", p.Localized)
	if p.Requirement.Mode != RequiredAlways {
		obj["requirement"] = IRString(p.Requirement.Mode)
	}
	if p.Requirement.AccessScope != "" {
		obj["access_scope"] = IRString(p.Requirement.AccessScope)
	}
	return obj
}

// Record is a declaration of named properties. Properties form a set keyed
// by Key; the slice keeps declaration order for presentation only.
type Record struct {
	Name       QualifiedName `json:"name" yaml:"name"`
	Properties []Property    `json:"properties" yaml:"properties"`
}

func (r Record) DeclName() QualifiedName { return r.Name }
func (Record) Kind() DeclKind            { return KindRecord }
func (Record) declaration()              {}

// Canonical implements Declaration.
func (r Record) Canonical() IRObject {
	return IRObject{
		"kind":       IRString(KindRecord),
		"name":       IRString(r.Name),
		"properties": canonicalProperties(r.Properties),
	}
}

// Property returns the property with key, if present.
func (r Record) Property(key string) (Property, bool) {
	for _, p := range r.Properties {
		if p.Key == key {
			return p, true
		}
	}
	return Property{}, false
}

// Keys returns property keys in declaration order.
func (r Record) Keys() []string {
	keys := make([]string, len(r.Properties))
	for i, p := range r.Properties {
		keys[i] = p.Key
	}
	return keys
}

// EnumValue is one member of an enum.
type EnumValue struct {
	Name       string  `json:"name" yaml:"name"`
	Value      IRValue `json:"value" yaml:"value"`
	Deprecated bool    `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// Enum is a set of discrete values over a backing primitive.
type Enum struct {
	Name    QualifiedName `json:"name" yaml:"name"`
	Backing Primitive     `json:"backing" yaml:"backing"`
	Values  []EnumValue   `json:"values" yaml:"values"`
}

func (e Enum) DeclName() QualifiedName { return e.Name }
func (Enum) Kind() DeclKind            { return KindEnum }
func (Enum) declaration()              {}

// Canonical implements Declaration.
func (e Enum) Canonical() IRObject {
	values := make(IRArray, len(e.Values))
	for i, v := range e.Values {
		obj := IRObject{"name": IRString(v.Name), "value": v.Value}
		setFlag(obj, "deprecated", v.Deprecated)
		values[i] = obj
	}
	return IRObject{
		"kind":    IRString(KindEnum),
		"name":    IRString(e.Name),
		"backing": IRString(e.Backing),
		"values":  values,
	}
}

// TupleElement is one positional element of a tuple. Position is the
// declared index, so removing an element never renumbers the others.
type TupleElement struct {
	Position int     `json:"position" yaml:"position"`
	Type     TypeRef `json:"type" yaml:"type"`
}

// Tuple is an ordered list of independently typed elements.
type Tuple struct {
	Name     QualifiedName  `json:"name" yaml:"name"`
	Elements []TupleElement `json:"elements" yaml:"elements"`
}

func (t Tuple) DeclName() QualifiedName { return t.Name }
func (Tuple) Kind() DeclKind            { return KindTuple }
func (Tuple) declaration()              {}

// Canonical implements Declaration.
func (t Tuple) Canonical() IRObject {
	elems := make(IRArray, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = IRObject{
			"position": IRInt(e.Position),
			"type":     e.Type.Canonical(),
		}
	}
	return IRObject{
		"kind":     IRString(KindTuple),
		"name":     IRString(t.Name),
		"elements": elems,
	}
}

// NestingMode controls where a conditional's variant payload lives.
type NestingMode string

const (
	// NestingSameLevel places variant properties next to the tag.
	NestingSameLevel NestingMode = "same_level"
	// NestingSideProperty places the payload under a sibling property.
	NestingSideProperty NestingMode = "side_property"
)

// Interpretation is one variant of a conditional.
type Interpretation struct {
	Key        string  `json:"key" yaml:"key"`
	Property   string  `json:"property,omitempty" yaml:"property,omitempty"`
	Type       TypeRef `json:"type" yaml:"type"`
	Deprecated bool    `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// Canonical returns the interpretation content without its key.
func (i Interpretation) Canonical() IRObject {
	obj := IRObject{"type": i.Type.Canonical()}
	if i.Property != "" {
		obj["property"] = IRString(i.Property)
	}
	setFlag(obj, "deprecated", i.Deprecated)
	return obj
}

// Conditional is a tagged union disambiguated by Key.
type Conditional struct {
	Name            QualifiedName    `json:"name" yaml:"name"`
	Key             string           `json:"key" yaml:"key"`
	Nesting         NestingMode      `json:"nesting" yaml:"nesting"`
	Shared          []Property       `json:"shared" yaml:"shared"`
	Interpretations []Interpretation `json:"interpretations" yaml:"interpretations"`
}

func (c Conditional) DeclName() QualifiedName { return c.Name }
func (Conditional) Kind() DeclKind            { return KindConditional }
func (Conditional) declaration()              {}

// Canonical implements Declaration.
func (c Conditional) Canonical() IRObject {
	return IRObject{
		"kind":            IRString(KindConditional),
		"name":            IRString(c.Name),
		"key":             IRString(c.Key),
		"nesting":         IRString(c.Nesting),
		"shared":          canonicalProperties(c.Shared),
		"interpretations": canonicalInterpretations(c.Interpretations),
	}
}

// Alias gives a name to another type.
type Alias struct {
	Name    QualifiedName `json:"name" yaml:"name"`
	Backing TypeRef       `json:"backing" yaml:"backing"`
}

func (a Alias) DeclName() QualifiedName { return a.Name }
func (Alias) Kind() DeclKind            { return KindAlias }
func (Alias) declaration()              {}

// Canonical implements Declaration.
func (a Alias) Canonical() IRObject {
	return IRObject{
		"kind":    IRString(KindAlias),
		"name":    IRString(a.Name),
		"backing": a.Backing.Canonical(),
	}
}

// References returns every name a declaration mentions, in member order.
func References(d Declaration) []QualifiedName {
	var names []QualifiedName
	switch v := d.(type) {
	case Record:
		for _, p := range v.Properties {
			names = append(names, p.Type.Names()...)
		}
	case Tuple:
		for _, e := range v.Elements {
			names = append(names, e.Type.Names()...)
		}
	case Conditional:
		for _, p := range v.Shared {
			names = append(names, p.Type.Names()...)
		}
		for _, i := range v.Interpretations {
			names = append(names, i.Type.Names()...)
		}
	case Alias:
		names = append(names, v.Backing.Names()...)
	case Enum:
	}
	return names
}

// Summary renders a one-line description of a snapshot.
func Summary(d Declaration) string {
	var parts []string
	switch v := d.(type) {
	case Record:
		for _, p := range v.Properties {
			parts = append(parts, p.Key+": "+p.Type.String())
		}
	case Enum:
		for _, ev := range v.Values {
			b, _ := MarshalIRValue(ev.Value)
			parts = append(parts, ev.Name+"="+string(b))
		}
	case Tuple:
		for _, e := range v.Elements {
			parts = append(parts, e.Type.String())
		}
	case Conditional:
		for _, p := range v.Shared {
			parts = append(parts, p.Key+": "+p.Type.String())
		}
		for _, i := range v.Interpretations {
			parts = append(parts, v.Key+"="+i.Key+" => "+i.Type.String())
		}
	case Alias:
		parts = append(parts, v.Backing.String())
	}
	return fmt.Sprintf("%s %s {%s}", d.Kind(), d.DeclName(), strings.Join(parts, ", "))
}

func canonicalProperties(props []Property) IRObject {
	obj := make(IRObject, len(props))
	for _, p := range props {
		obj[p.Key] = p.Canonical()
	}
	return obj
}

func canonicalInterpretations(interps []Interpretation) IRObject {
	obj := make(IRObject, len(interps))
	for _, i := range interps {
		obj[i.Key] = i.Canonical()
	}
	return obj
}

func setFlag(obj IRObject, key string, on bool) {
	if on {
		obj[key] = IRBool(true)
	}
}
