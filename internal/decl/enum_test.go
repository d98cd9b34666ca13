package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/engine"
	"github.com/roach88/strata/internal/ir"
)

func TestEnum_ValuesOverTime(t *testing.T) {
	axis := ir.MustAxis("v8", "v9", "v10")
	root := engine.NewScope(axis)
	e := NewEnum("Status", ir.PrimitiveInt, WithScope(root))
	_, err := e.Value("ACTIVE", 1)
	require.NoError(t, err)
	_, err = e.Value("GONE", 2, Since("v10"))
	require.NoError(t, err)
	_, err = e.Value("LEGACY", 3, Until("v9"), Deprecated())
	require.NoError(t, err)

	_, err = e.Get(root, "", true)
	require.NoError(t, err)

	decls := e.Declarations()
	assert.Equal(t, []ir.Version{"v8", "v9", "v10"}, decls.Versions())

	v8 := decls.MustResolve("v8").(ir.Enum)
	assert.Equal(t, []ir.EnumValue{
		{Name: "ACTIVE", Value: ir.IRInt(1)},
		{Name: "LEGACY", Value: ir.IRInt(3), Deprecated: true},
	}, v8.Values)

	v10 := decls.MustResolve("v10").(ir.Enum)
	assert.Equal(t, ir.PrimitiveInt, v10.Backing)
	assert.Len(t, v10.Values, 2)
	assertCompressed(t, decls)
}

func TestEnum_LiteralMustMatchBacking(t *testing.T) {
	e := NewEnum("Status", ir.PrimitiveString)

	_, err := e.Value("ONE", 1)
	assert.True(t, ir.IsCode(err, ir.ErrCodeInvalidDeclaration))

	_, err = e.Value("HALF", 0.5)
	assert.True(t, ir.IsCode(err, ir.ErrCodeInvalidDeclaration))

	_, err = e.Value("", "x")
	assert.True(t, ir.IsCode(err, ir.ErrCodeInvalidDeclaration))
}

func TestEnum_BackingMustBeStringOrInt(t *testing.T) {
	e := NewEnum("Flag", ir.PrimitiveBool)
	_, err := e.Value("ON", true)
	assert.True(t, ir.IsCode(err, ir.ErrCodeInvalidDeclaration))
}

func TestEnum_DuplicateSerializedValue(t *testing.T) {
	e := NewEnum("Status", ir.PrimitiveString)
	_, err := e.Value("ACTIVE", "active")
	require.NoError(t, err)

	_, err = e.Value("ENABLED", "active")
	assert.True(t, ir.IsCode(err, ir.ErrCodeDuplicateKey))

	_, err = e.Value("ACTIVE", "on")
	assert.True(t, ir.IsCode(err, ir.ErrCodeDuplicateKey))
}

func TestEnum_ValueReusedAfterRemoval(t *testing.T) {
	axis := ir.MustAxis("V0", "V1")
	root := engine.NewScope(axis)
	e := NewEnum("Kind", ir.PrimitiveString, WithScope(root))
	_, err := e.Value("OLD", "x", Until("V1"))
	require.NoError(t, err)
	_, err = e.Value("NEW", "x", Since("V1"))
	require.NoError(t, err)

	_, err = e.Get(root, "", true)
	require.NoError(t, err)
	assert.Equal(t, "NEW", e.Declarations().MustResolve("V1").(ir.Enum).Values[0].Name)
}
