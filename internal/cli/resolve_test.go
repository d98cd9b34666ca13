package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/ir"
	"github.com/roach88/strata/internal/testutil"
)

func TestResolveNameAt(t *testing.T) {
	g := testutil.UserGraph(t)
	want, err := g.Resolve("User", "v2")
	require.NoError(t, err)

	out, err := execute(t, NewResolveCommand(&RootOptions{Format: "json"}), userSpecs(t), "User", "--at", "v2")
	require.NoError(t, err)

	var snap Snapshot
	decodeResponse(t, out, &snap)
	assert.Equal(t, ir.QualifiedName("User"), snap.Name)
	assert.Equal(t, ir.KindRecord, snap.Kind)
	assert.Equal(t, ir.Version("v2"), snap.Version)
	assert.Equal(t, ir.DeclarationHash(want), snap.Hash)
	assert.NotEmpty(t, snap.Content)
}

func TestResolveNameAtText(t *testing.T) {
	out, err := execute(t, NewResolveCommand(&RootOptions{Format: "text"}), userSpecs(t), "User", "--at", "v1")
	require.NoError(t, err)

	assert.Contains(t, out, "record User")
	assert.Contains(t, out, "  id: string")
	assert.NotContains(t, out, "email")
}

func TestResolveAllAt(t *testing.T) {
	out, err := execute(t, NewResolveCommand(&RootOptions{Format: "json"}), userSpecs(t), "--at", "v1")
	require.NoError(t, err)

	var snaps []Snapshot
	decodeResponse(t, out, &snaps)
	require.Len(t, snaps, 2)
	assert.Equal(t, ir.QualifiedName("User"), snaps[0].Name)
	assert.Equal(t, ir.QualifiedName("Role"), snaps[1].Name)
	for _, s := range snaps {
		assert.Equal(t, ir.Version("v1"), s.Version)
	}
}

func TestResolveHistory(t *testing.T) {
	out, err := execute(t, NewResolveCommand(&RootOptions{Format: "json"}), userSpecs(t), "User")
	require.NoError(t, err)

	var history []HistoryEntry
	decodeResponse(t, out, &history)
	require.Len(t, history, 2)
	assert.Equal(t, ir.Version("v1"), history[0].Since)
	assert.Equal(t, ir.Version("v2"), history[0].Until)
	assert.Equal(t, ir.Version("v2"), history[1].Since)
	assert.Empty(t, history[1].Until)
	assert.NotEqual(t, history[0].Hash, history[1].Hash)
}

func TestResolveHistoryText(t *testing.T) {
	out, err := execute(t, NewResolveCommand(&RootOptions{Format: "text"}), userSpecs(t), "Role")
	require.NoError(t, err)

	assert.Contains(t, out, "[v1, open)")
	assert.Contains(t, out, "enum Role")
	assert.Contains(t, out, `ADMIN = "admin"`)
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"unknown version", []string{"User", "--at", "v7"}, string(ir.ErrCodeUnknownVersion)},
		{"unknown version for all", []string{"--at", "v7"}, string(ir.ErrCodeUnknownVersion)},
		{"unknown name", []string{"Nobody", "--at", "v1"}, string(ir.ErrCodeUnknownDeclaration)},
		{"unknown name history", []string{"Nobody"}, string(ir.ErrCodeUnknownDeclaration)},
		{"nothing to resolve", nil, ErrCodeGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{userSpecs(t)}, tt.args...)
			out, err := execute(t, NewResolveCommand(&RootOptions{Format: "json"}), args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			resp := decodeResponse(t, out, nil)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestResolveRendersEveryKind(t *testing.T) {
	dir := testutil.WriteSpec(t, `versions: ["v1"]
enum: Status: {backing: "int", value: ACTIVE: value: 1}
tuple: Pair: element: [{type: "string"}, {type: "int"}]
conditional: Event: {
	key: "type"
	nesting: "side_property"
	shared: property: id: {type: "string", optional: true}
	interpretation: created: {type: "string", property: "data"}
}
alias: Snowflake: type: "string"
`)

	out, err := execute(t, NewResolveCommand(&RootOptions{Format: "text"}), dir, "--at", "v1")
	require.NoError(t, err)

	assert.Contains(t, out, "As of v1:")
	assert.Contains(t, out, "ACTIVE = 1")
	assert.Contains(t, out, "  [0] string")
	assert.Contains(t, out, "  [1] int")
	assert.Contains(t, out, "key: type (side_property)")
	assert.Contains(t, out, "id: string [optional]")
	assert.Contains(t, out, `when type="created": string under data`)
	assert.Contains(t, out, "  = string")
}
