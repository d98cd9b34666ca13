package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/ir"
)

func recordTimeline(axis *ir.Axis, name ir.QualifiedName, keys ...string) *ir.Timeline[ir.Declaration] {
	props := make([]ir.Property, len(keys))
	for i, k := range keys {
		props[i] = ir.Property{Key: k, Type: ir.PrimitiveRef(ir.PrimitiveString)}
	}
	return ir.Constant[ir.Declaration](axis, ir.Record{Name: name, Properties: props})
}

func TestScope_NestedIsMemoized(t *testing.T) {
	root := NewScope(ir.MustAxis("V0"))

	a := root.Nested("Parent")
	b := root.Nested("Parent")
	assert.Same(t, a, b)
	assert.Equal(t, ir.QualifiedName("Parent"), a.Path())
	assert.Equal(t, ir.QualifiedName("Parent.Child"), a.Nested("Child").Path())
	assert.Same(t, root, a.Nested("Child").Root())
	assert.True(t, root.IsRoot())
	assert.False(t, a.IsRoot())
}

func TestScope_RegisterAssignsQualifiedName(t *testing.T) {
	axis := ir.MustAxis("V0")
	root := NewScope(axis)
	parent := root.Nested("Parent")
	owner := new(int)

	qname, err := parent.Register("Child", owner, recordTimeline(axis, "Parent.Child", "a"))
	require.NoError(t, err)
	assert.Equal(t, ir.QualifiedName("Parent.Child"), qname)

	node, ok := parent.Node("Child")
	require.True(t, ok)
	assert.Equal(t, ir.KindRecord, node.Kind)
	assert.False(t, node.TopLevel)
}

func TestScope_RegisterIdempotent(t *testing.T) {
	axis := ir.MustAxis("V0")
	root := NewScope(axis)
	owner := new(int)
	tl := recordTimeline(axis, "User", "id")

	q1, err := root.Register("User", owner, tl)
	require.NoError(t, err)
	q2, err := root.Register("User", owner, tl)
	require.NoError(t, err)

	assert.Equal(t, q1, q2)
	assert.Equal(t, 1, root.Registered())
}

func TestScope_RegisterIdenticalContentFromAnotherOwner(t *testing.T) {
	axis := ir.MustAxis("V0")
	root := NewScope(axis)

	_, err := root.Register("User", new(int), recordTimeline(axis, "User", "id"))
	require.NoError(t, err)
	_, err = root.Register("User", new(int), recordTimeline(axis, "User", "id"))
	require.NoError(t, err)

	assert.Equal(t, 1, root.Registered())
}

func TestScope_RegisterCollision(t *testing.T) {
	axis := ir.MustAxis("V0")
	parent := NewScope(axis).Nested("Parent")

	_, err := parent.Register("Child", new(int), recordTimeline(axis, "Parent.Child", "a"))
	require.NoError(t, err)
	_, err = parent.Register("Child", new(int), recordTimeline(axis, "Parent.Child", "b"))

	require.Error(t, err)
	assert.True(t, ir.IsCode(err, ir.ErrCodeDuplicateName))
	assert.Contains(t, err.Error(), "Parent.Child")
}

func TestScope_RegisterRejectsEmpty(t *testing.T) {
	axis := ir.MustAxis("V0")
	root := NewScope(axis)

	_, err := root.Register("", new(int), recordTimeline(axis, "x"))
	assert.True(t, ir.IsCode(err, ir.ErrCodeInvalidDeclaration))

	_, err = root.Register("Empty", new(int), ir.NewTimeline[ir.Declaration](axis))
	assert.True(t, ir.IsCode(err, ir.ErrCodeEmptyTimeline))
}

func TestScope_QualifiedNameOf(t *testing.T) {
	root := NewScope(ir.MustAxis("V0"))

	_, err := root.QualifiedNameOf("Later")
	require.Error(t, err)
	assert.True(t, ir.IsCode(err, ir.ErrCodeUnknownDeclaration))

	_, err = root.Reserve("Later")
	require.NoError(t, err)

	qname, err := root.QualifiedNameOf("Later")
	require.NoError(t, err)
	assert.Equal(t, ir.QualifiedName("Later"), qname)
	assert.Equal(t, []ir.QualifiedName{"Later"}, root.Pending())
}

func TestScope_LookupWalksUp(t *testing.T) {
	root := NewScope(ir.MustAxis("V0"))
	_, err := root.Reserve("User")
	require.NoError(t, err)
	inner := root.Nested("Event").Nested("data")
	_, err = root.Nested("Event").Reserve("Payload")
	require.NoError(t, err)

	qname, ok := inner.Lookup("User")
	require.True(t, ok)
	assert.Equal(t, ir.QualifiedName("User"), qname)

	qname, ok = inner.Lookup("Payload")
	require.True(t, ok)
	assert.Equal(t, ir.QualifiedName("Event.Payload"), qname)

	_, ok = inner.Lookup("Missing")
	assert.False(t, ok)
}

func TestScope_GraphInRegistrationOrder(t *testing.T) {
	axis := ir.MustAxis("V0")
	root := NewScope(axis)

	_, err := root.Nested("User").Register("prefs", new(int), recordTimeline(axis, "User.prefs", "theme"))
	require.NoError(t, err)
	_, err = root.Register("User", new(int), recordTimeline(axis, "User", "prefs"))
	require.NoError(t, err)

	g, err := root.Graph()
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, ir.QualifiedName("User.prefs"), g.Nodes[0].Name)
	assert.False(t, g.Nodes[0].TopLevel)
	assert.Equal(t, ir.QualifiedName("User"), g.Nodes[1].Name)
	assert.True(t, g.Nodes[1].TopLevel)
}
