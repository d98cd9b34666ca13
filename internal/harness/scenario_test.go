package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/testutil"
)

func TestLoadScenario_ResolvesSpecPaths(t *testing.T) {
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", "user_evolution.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "user_evolution", s.Name)
	require.Len(t, s.Specs, 1)
	assert.Equal(t, filepath.Join("testdata", "specs", "user.cue"), s.Specs[0])
	assert.Len(t, s.Assertions, 5)
	assert.Equal(t, []string{"id", "email"}, s.Assertions[1].Keys)
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "unknown field",
			content: "name: x\ndescription: d\nspecs: [spec.cue]\nassertion: []\n",
			errMsg:  "failed to parse YAML",
		},
		{
			name:    "missing name",
			content: "description: d\nspecs: [spec.cue]\nassertions: [{type: changed_at, at: v1}]\n",
			errMsg:  "name is required",
		},
		{
			name:    "missing description",
			content: "name: x\nspecs: [spec.cue]\nassertions: [{type: changed_at, at: v1}]\n",
			errMsg:  "description is required",
		},
		{
			name:    "no specs",
			content: "name: x\ndescription: d\nassertions: [{type: changed_at, at: v1}]\n",
			errMsg:  "specs list is required",
		},
		{
			name:    "missing spec file",
			content: "name: x\ndescription: d\nspecs: [nope.cue]\nassertions: [{type: changed_at, at: v1}]\n",
			errMsg:  "spec file not found",
		},
		{
			name:    "no assertions",
			content: "name: x\ndescription: d\nspecs: [spec.cue]\n",
			errMsg:  "assertions list is required",
		},
		{
			name:    "unknown assertion type",
			content: "name: x\ndescription: d\nspecs: [spec.cue]\nassertions: [{type: trace_order}]\n",
			errMsg:  `unknown type "trace_order"`,
		},
		{
			name:    "resolve without kind",
			content: "name: x\ndescription: d\nspecs: [spec.cue]\nassertions: [{type: resolve, name: User, at: v1}]\n",
			errMsg:  "resolve requires kind",
		},
		{
			name:    "revisions without versions",
			content: "name: x\ndescription: d\nspecs: [spec.cue]\nassertions: [{type: revisions, name: User}]\n",
			errMsg:  "revisions requires versions",
		},
		{
			name:    "compile_error without code",
			content: "name: x\ndescription: d\nspecs: [spec.cue]\nassertions: [{type: compile_error}]\n",
			errMsg:  "compile_error requires code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.WriteSpec(t, testutil.UserGraphSpec)
			path := testutil.WriteFile(t, dir, "scenario.yaml", tt.content)

			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
