package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/ir"
	"github.com/roach88/strata/internal/testutil"
)

const eventSpec = `versions: ["v1", "v2", "v3"]
record: User: property: {
	id:   {type: "string"}
	name: {type: "string", since: "v2"}
}
conditional: Event: {
	key: "type"
	shared: property: id: {type: "string"}
	interpretation: created: {type: "User", property: "data"}
}
`

func TestChangesAllVersions(t *testing.T) {
	dir := testutil.WriteSpec(t, eventSpec)

	out, err := execute(t, NewChangesCommand(&RootOptions{Format: "json"}), dir)
	require.NoError(t, err)

	var sets []ChangeSet
	decodeResponse(t, out, &sets)
	require.Len(t, sets, 3)
	assert.Equal(t, []ir.QualifiedName{"User", "Event"}, sets[0].Changed)
	// Event embeds User by value, so it changes with it
	assert.Equal(t, []ir.QualifiedName{"User", "Event"}, sets[1].Changed)
	assert.Empty(t, sets[2].Changed)
}

func TestChangesAt(t *testing.T) {
	dir := testutil.WriteSpec(t, eventSpec)

	out, err := execute(t, NewChangesCommand(&RootOptions{Format: "text"}), dir, "--at", "v3")
	require.NoError(t, err)
	assert.Equal(t, "v3: (no changes)\n", out)

	out, err = execute(t, NewChangesCommand(&RootOptions{Format: "text"}), dir, "--at", "v2")
	require.NoError(t, err)
	assert.Equal(t, "v2: User, Event\n", out)
}

func TestChangesUnknownVersion(t *testing.T) {
	out, err := execute(t, NewChangesCommand(&RootOptions{Format: "json"}), userSpecs(t), "--at", "v9")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decodeResponse(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(ir.ErrCodeUnknownVersion), resp.Error.Code)
}
