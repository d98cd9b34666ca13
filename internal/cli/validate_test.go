package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/compiler"
	"github.com/roach88/strata/internal/testutil"
)

func TestValidateValidSpecs(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), userSpecs(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Validation passed")
}

func TestValidateValidSpecsJSON(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), userSpecs(t))
	require.NoError(t, err)

	var result ValidationResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Findings)
	assert.Empty(t, result.Cycles)
}

func TestValidateSharedKeyCollision(t *testing.T) {
	dir := testutil.WriteSpec(t, `versions: ["v1"]
conditional: Event: {
	key: "type"
	shared: property: type: {type: "string"}
	interpretation: created: type: "string"
}
`)

	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Validation failed")
	assert.Contains(t, out, "ERROR ["+compiler.ErrSharedKeyCollision+"] Event.shared.type@v1")
}

func TestValidateWarningsDoNotFail(t *testing.T) {
	dir := testutil.WriteSpec(t, `versions: ["v1", "v2"]
enum: Color: value: RED: {value: "red", since: "v2"}
`)

	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), dir)
	require.NoError(t, err)

	var result ValidationResult
	decodeResponse(t, out, &result)
	assert.True(t, result.Valid)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, compiler.ErrEmptyEnum, result.Findings[0].Code)
	assert.Equal(t, compiler.LevelWarning, result.Findings[0].Level)
}

func TestValidateReportsNameCycles(t *testing.T) {
	dir := testutil.WriteSpec(t, `versions: ["v1"]
record: User: property: {
	id:    {type: "string"}
	owner: {type: {ref: "User"}}
}
`)

	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Validation passed")
	assert.Contains(t, out, "User -> User")
}

func TestValidateCompileFailure(t *testing.T) {
	_, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
