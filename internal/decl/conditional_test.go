package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/engine"
	"github.com/roach88/strata/internal/ir"
)

func TestConditional_UnionOfChangePoints(t *testing.T) {
	axis := ir.MustAxis("V0", "V1", "V2", "V3")
	root := engine.NewScope(axis)
	c := NewConditional("Event", "type", WithScope(root))
	_, err := c.Shared("id", String)
	require.NoError(t, err)
	_, err = c.Shared("actor", String, Since("V1"))
	require.NoError(t, err)
	_, err = c.Interpretation("created", Int)
	require.NoError(t, err)
	_, err = c.Interpretation("deleted", Bool, Since("V2"))
	require.NoError(t, err)

	_, err = c.Get(root, "", true)
	require.NoError(t, err)

	decls := c.Declarations()
	assert.Equal(t, []ir.Version{"V0", "V1", "V2"}, decls.Versions())
	assertCompressed(t, decls)

	last := decls.MustResolve("V3").(ir.Conditional)
	assert.Equal(t, "type", last.Key)
	assert.Equal(t, ir.NestingSameLevel, last.Nesting)
	assert.Len(t, last.Shared, 2)
	assert.Len(t, last.Interpretations, 2)
}

func TestConditional_DuplicateInterpretationKey(t *testing.T) {
	c := NewConditional("Event", "type")
	_, err := c.Interpretation("poly", String)
	require.NoError(t, err)

	_, err = c.Interpretation("poly", Int)
	require.Error(t, err)
	assert.True(t, ir.IsCode(err, ir.ErrCodeDuplicateKey))

	_, err = c.Interpretation("poly", String, Since("V1"))
	assert.True(t, ir.IsCode(err, ir.ErrCodeDuplicateKey))
}

func TestConditional_SideProperty(t *testing.T) {
	axis := ir.MustAxis("V0")
	root := engine.NewScope(axis)
	payload := NewRecord("")
	_, err := payload.Property("name", String)
	require.NoError(t, err)

	c := NewConditional("Event", "type", WithScope(root))
	require.NoError(t, c.SetNesting(ir.NestingSideProperty))
	_, err = c.Interpretation("created", payload, NestedIn("data"), Deprecated())
	require.NoError(t, err)

	_, err = c.Get(root, "", true)
	require.NoError(t, err)
	assert.Equal(t, ir.QualifiedName("Event.created"), payload.QualifiedName())

	got := c.Declarations().MustResolve("V0").(ir.Conditional)
	assert.Equal(t, ir.NestingSideProperty, got.Nesting)
	assert.Equal(t, []ir.Interpretation{{
		Key:        "created",
		Property:   "data",
		Type:       ir.NamedRef("Event.created", "V0"),
		Deprecated: true,
	}}, got.Interpretations)

	assert.True(t, ir.IsCode(c.SetNesting(ir.NestingSameLevel), ir.ErrCodeAlreadyResolved))
}

func TestConditional_InvalidConfiguration(t *testing.T) {
	c := NewConditional("Event", "type")
	assert.True(t, ir.IsCode(c.SetNesting("sideways"), ir.ErrCodeInvalidDeclaration))

	root := engine.NewScope(ir.MustAxis("V0"))
	_, err := NewConditional("NoKey", "", WithScope(root)).Get(root, "", true)
	assert.True(t, ir.IsCode(err, ir.ErrCodeInvalidDeclaration))
}

func TestConditional_NestedPayloadChangeIsAChange(t *testing.T) {
	axis := ir.MustAxis("V0", "V1", "V2")
	root := engine.NewScope(axis)
	payload := NewRecord("Payload", WithScope(root))
	_, err := payload.Property("x", Int)
	require.NoError(t, err)
	_, err = payload.Property("y", Int, Since("V2"))
	require.NoError(t, err)

	c := NewConditional("Event", "type", WithScope(root))
	_, err = c.Interpretation("p", payload)
	require.NoError(t, err)

	_, err = c.Get(root, "", true)
	require.NoError(t, err)
	assert.Equal(t, []ir.Version{"V0", "V2"}, c.Declarations().Versions())
}
