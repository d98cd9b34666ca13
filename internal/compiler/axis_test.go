package compiler

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/ir"
)

func TestCompileAxis(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		order string
		want  []ir.Version
	}{
		{"declared by default", `versions: ["b", "a"]`, "", []ir.Version{"b", "a"}},
		{"explicit declared", `versions: ["b", "a"], version_order: "declared"`, "", []ir.Version{"b", "a"}},
		{"semver from document", `versions: ["2.0.0", "1.0.0"], version_order: "semver"`, "", []ir.Version{"1.0.0", "2.0.0"}},
		{"override wins", `versions: ["2.0.0", "1.0.0"], version_order: "semver"`, OrderDeclared, []ir.Version{"2.0.0", "1.0.0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := cuecontext.New().CompileString(tt.src)
			axis, err := CompileAxis(v, tt.order)
			require.NoError(t, err)
			assert.Equal(t, tt.want, axis.Versions())
		})
	}
}

func TestCompileAxis_InvalidSemver(t *testing.T) {
	v := cuecontext.New().CompileString(`versions: ["v8", "not-a-version"], version_order: "semver"`)
	_, err := CompileAxis(v, "")
	require.Error(t, err)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "versions", ce.Field)
}

func TestCompileAxis_EmptyVersions(t *testing.T) {
	v := cuecontext.New().CompileString(`versions: []`)
	_, err := CompileAxis(v, "")
	require.Error(t, err)
}
