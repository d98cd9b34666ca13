package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/decl"
	"github.com/roach88/strata/internal/engine"
	"github.com/roach88/strata/internal/ir"
)

// UserGraphSpec is the CUE source equivalent of UserGraph.
const UserGraphSpec = `versions: ["v1", "v2"]
record: User: property: {
	id: {type: "string"}
	email: {type: "string", since: "v2"}
}
enum: Role: value: ADMIN: value: "admin"
`

// UserGraph builds a two-version graph: record User gains email at v2,
// enum Role is constant.
func UserGraph(t testing.TB) *ir.Graph {
	t.Helper()

	root := engine.NewScope(ir.MustAxis("v1", "v2"))

	user := decl.NewRecord("User", decl.WithScope(root))
	_, err := user.Property("id", decl.String)
	require.NoError(t, err)
	_, err = user.Property("email", decl.String, decl.Since("v2"))
	require.NoError(t, err)

	role := decl.NewEnum("Role", ir.PrimitiveString, decl.WithScope(root))
	_, err = role.Value("ADMIN", "admin")
	require.NoError(t, err)

	_, err = user.Get(root, "", true)
	require.NoError(t, err)
	_, err = role.Get(root, "", true)
	require.NoError(t, err)

	g, err := root.Graph()
	require.NoError(t, err)
	return g
}
