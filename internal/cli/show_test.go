package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/ir"
	"github.com/roach88/strata/internal/store"
	"github.com/roach88/strata/internal/testutil"
)

func showJSON(t *testing.T, db string, data any, args ...string) CLIResponse {
	t.Helper()
	out, err := execute(t, NewShowCommand(&RootOptions{Format: "json"}), append(args, "--db", db)...)
	require.NoError(t, err)
	return decodeResponse(t, out, data)
}

func TestShowList(t *testing.T) {
	db := filepath.Join(t.TempDir(), "builds.db")
	first := persistUser(t, db)

	dir := testutil.WriteSpec(t, `versions: ["v1"]
record: Other: property: x: type: "int"
`)
	_, err := execute(t, NewPersistCommand(&RootOptions{Format: "json"}), dir, "--db", db)
	require.NoError(t, err)

	var builds []store.Build
	showJSON(t, db, &builds, "--list")
	require.Len(t, builds, 2)
	assert.Equal(t, first.ID, builds[0].ID)
	assert.Equal(t, int64(2), builds[1].Seq)

	// Latest build is the default
	var latest []store.Build
	showJSON(t, db, &latest)
	require.Len(t, latest, 1)
	assert.Equal(t, builds[1].ID, latest[0].ID)

	// --build selects an older one
	var older []store.Build
	showJSON(t, db, &older, "--build", first.ID)
	require.Len(t, older, 1)
	assert.Equal(t, first.ID, older[0].ID)
}

func TestShowAsOf(t *testing.T) {
	db := filepath.Join(t.TempDir(), "builds.db")
	persistUser(t, db)

	g := testutil.UserGraph(t)
	want, err := g.Resolve("User", "v2")
	require.NoError(t, err)

	var rev store.Revision
	showJSON(t, db, &rev, "User", "--at", "v2")
	assert.Equal(t, ir.QualifiedName("User"), rev.Name)
	assert.Equal(t, ir.Version("v2"), rev.Since)
	assert.Equal(t, ir.DeclarationHash(want), rev.Hash)
}

func TestShowSnapshot(t *testing.T) {
	db := filepath.Join(t.TempDir(), "builds.db")
	persistUser(t, db)

	var revs []store.Revision
	showJSON(t, db, &revs, "--at", "v2")
	require.Len(t, revs, 2)
	assert.Equal(t, ir.QualifiedName("User"), revs[0].Name)
	assert.Equal(t, ir.Version("v2"), revs[0].Since)
	assert.Equal(t, ir.QualifiedName("Role"), revs[1].Name)
	assert.Equal(t, ir.Version("v1"), revs[1].Since)
}

func TestShowHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "builds.db")
	persistUser(t, db)

	out, err := execute(t, NewShowCommand(&RootOptions{Format: "text"}), "User", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "record User [v1, v2)")
	assert.Contains(t, out, "record User [v2, open)")
}

func TestShowChanges(t *testing.T) {
	db := filepath.Join(t.TempDir(), "builds.db")
	persistUser(t, db)

	var set ChangeSet
	showJSON(t, db, &set, "--at", "v2", "--changes")
	assert.Equal(t, []ir.QualifiedName{"User"}, set.Changed)
}

func TestShowErrors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "builds.db")
	persistUser(t, db)

	tests := []struct {
		name string
		args []string
		code string
	}{
		{"unknown build", []string{"--build", "nope"}, ErrCodeNotFound},
		{"unknown declaration", []string{"Nobody", "--at", "v1"}, ErrCodeNotFound},
		{"unknown version", []string{"--at", "v9"}, string(ir.ErrCodeUnknownVersion)},
		{"changes without at", []string{"--changes"}, ErrCodeGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, NewShowCommand(&RootOptions{Format: "json"}), append(tt.args, "--db", db)...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			resp := decodeResponse(t, out, nil)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestShowEmptyStore(t *testing.T) {
	db := filepath.Join(t.TempDir(), "builds.db")

	out, err := execute(t, NewShowCommand(&RootOptions{Format: "text"}), "--list", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "No builds stored\n", out)

	_, err = execute(t, NewShowCommand(&RootOptions{Format: "text"}), "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
