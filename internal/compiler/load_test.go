package compiler

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/ir"
	"github.com/roach88/strata/internal/testutil"
)

func TestCompileDir(t *testing.T) {
	dir := testutil.WriteSpec(t, testutil.UserGraphSpec)

	g, err := CompileDir(dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, ir.GraphHash(testutil.UserGraph(t)), ir.GraphHash(g))
}

func TestLoadDir_MergesFiles(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "versions.cue", `versions: ["v1", "v2"]`+"\n")
	testutil.WriteFile(t, dir, "user.cue", `record: User: property: id: type: "string"`+"\n")

	g, err := CompileDir(dir, Options{})
	require.NoError(t, err)
	_, ok := g.Lookup("User")
	assert.True(t, ok)
}

func TestLoadFiles(t *testing.T) {
	dir := testutil.WriteSpec(t, testutil.UserGraphSpec)

	v, err := LoadFiles(filepath.Join(dir, "spec.cue"))
	require.NoError(t, err)
	g, err := Compile(v, Options{})
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 2)
}

func TestLoadFiles_NoFiles(t *testing.T) {
	_, err := LoadFiles()
	assert.Error(t, err)
}

func TestLoadDir_SyntaxError(t *testing.T) {
	dir := testutil.WriteSpec(t, `versions: [`)
	_, err := LoadDir(dir)
	assert.Error(t, err)
}
