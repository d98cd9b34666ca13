package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/ir"
)

func TestValidate_CleanGraph(t *testing.T) {
	g := mustCompile(t, fullExample)
	errs := Validate(g)
	assert.Empty(t, errs)
	assert.False(t, HasErrors(errs))
}

func TestValidate_SharedKeyCollision(t *testing.T) {
	g := mustCompile(t, `
versions: ["v1"]
conditional: Event: {
	key: "type"
	shared: property: type: {type: "string"}
	interpretation: created: type: "string"
}
`)
	errs := Validate(g)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrSharedKeyCollision, errs[0].Code)
	assert.Equal(t, "Event.shared.type", errs[0].Field)
	assert.Equal(t, ir.Version("v1"), errs[0].Version)
	assert.True(t, HasErrors(errs))
}

func TestValidate_SidePropertyCollision(t *testing.T) {
	g := mustCompile(t, `
versions: ["v1"]
conditional: Event: {
	key: "type"
	nesting: "side_property"
	shared: property: id: {type: "string"}
	interpretation: created: {type: "string", property: "id"}
}
`)
	errs := Validate(g)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrSidePropertyCollision, errs[0].Code)
	assert.Equal(t, "Event.interpretation.created", errs[0].Field)
}

func TestValidate_SameLevelIgnoresProperty(t *testing.T) {
	g := mustCompile(t, `
versions: ["v1"]
conditional: Event: {
	key: "type"
	shared: property: id: {type: "string"}
	interpretation: created: {type: "string", property: "id"}
}
`)
	assert.Empty(t, Validate(g))
}

func TestValidate_EmptyEnumIsWarning(t *testing.T) {
	g := mustCompile(t, `
versions: ["v1", "v2"]
enum: Color: value: RED: {value: "red", since: "v2"}
`)
	errs := Validate(g)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrEmptyEnum, errs[0].Code)
	assert.Equal(t, LevelWarning, errs[0].Level)
	assert.Equal(t, ir.Version("v1"), errs[0].Version)
	assert.False(t, HasErrors(errs))
}

func TestValidate_ReportsOncePerFinding(t *testing.T) {
	g := mustCompile(t, `
versions: ["v1", "v2", "v3"]
conditional: Event: {
	key: "type"
	shared: property: {
		type: {type: "string"}
		at:   {type: "int", since: "v2"}
	}
	interpretation: created: {type: "string", since: "v3"}
}
`)
	n, ok := g.Lookup("Event")
	require.True(t, ok)
	require.Equal(t, 3, n.Timeline.Len())

	errs := Validate(g)
	require.Len(t, errs, 1)
	assert.Equal(t, ir.Version("v1"), errs[0].Version)
}

func TestValidate_DanglingReference(t *testing.T) {
	axis := ir.MustAxis("v1")
	rec := ir.Record{
		Name:       "A",
		Properties: []ir.Property{{Key: "g", Type: ir.NamedRef("Ghost", "")}},
	}
	g, err := ir.NewGraph(axis, []*ir.Node{{
		Name:     "A",
		Kind:     ir.KindRecord,
		TopLevel: true,
		Timeline: ir.Constant[ir.Declaration](axis, rec),
	}})
	require.NoError(t, err)

	errs := Validate(g)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDanglingReference, errs[0].Code)
	assert.Equal(t, "A", errs[0].Field)
	assert.Equal(t, LevelError, errs[0].Level)
}

func TestValidationError_Format(t *testing.T) {
	err := ValidationError{Field: "Event.shared.type", Message: "boom", Code: ErrSharedKeyCollision}
	assert.Equal(t, "[E201] Event.shared.type: boom", err.Error())

	err.Version = "v2"
	assert.Equal(t, "[E201] Event.shared.type@v2: boom", err.Error())
}
