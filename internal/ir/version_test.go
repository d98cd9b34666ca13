package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAxis(t *testing.T) {
	a, err := NewAxis("v8", "v9", "v10")
	require.NoError(t, err)

	assert.Equal(t, Version("v8"), a.Baseline())
	assert.Equal(t, []Version{"v8", "v9", "v10"}, a.Versions())
	assert.Equal(t, 3, a.Len())
	assert.True(t, a.Contains("v10"))
	assert.False(t, a.Contains("v11"))

	// Declared order, not string order: "v10" < "v9" lexically.
	assert.Equal(t, 1, a.Compare("v10", "v9"))
	assert.Equal(t, -1, a.Compare("v8", "v10"))
	assert.Equal(t, 0, a.Compare("v9", "v9"))

	prev, ok := a.Previous("v9")
	require.True(t, ok)
	assert.Equal(t, Version("v8"), prev)
	_, ok = a.Previous("v8")
	assert.False(t, ok)

	next, ok := a.Next("v9")
	require.True(t, ok)
	assert.Equal(t, Version("v10"), next)
	_, ok = a.Next("v10")
	assert.False(t, ok)
}

func TestNewAxisErrors(t *testing.T) {
	_, err := NewAxis()
	require.Error(t, err)

	_, err = NewAxis("v1", "v1")
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeOutOfOrderVersion))

	_, err = NewAxis("v1", "")
	require.Error(t, err)
}

func TestNewSemverAxis(t *testing.T) {
	a, err := NewSemverAxis("v10", "v6", "v9", "v8")
	require.NoError(t, err)
	assert.Equal(t, []Version{"v6", "v8", "v9", "v10"}, a.Versions())

	a, err = NewSemverAxis("1.2.0", "1.10.0", "1.9.3")
	require.NoError(t, err)
	assert.Equal(t, []Version{"1.2.0", "1.9.3", "1.10.0"}, a.Versions())
}

func TestNewSemverAxisErrors(t *testing.T) {
	_, err := NewSemverAxis("v1", "not-a-version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not-a-version")

	_, err = NewSemverAxis("v1", "1.0.0")
	require.Error(t, err)
	assert.True(t, IsCode(err, ErrCodeOutOfOrderVersion))
}

func TestBoundCovers(t *testing.T) {
	a := MustAxis("V0", "V1", "V2", "V3")

	tests := []struct {
		name  string
		bound Bound
		want  []bool // V0..V3
	}{
		{"always", Always, []bool{true, true, true, true}},
		{"since V1", Bound{Since: "V1"}, []bool{false, true, true, true}},
		{"until V2", Bound{Until: "V2"}, []bool{true, true, false, false}},
		{"V1 to V3", Bound{Since: "V1", Until: "V3"}, []bool{false, true, true, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, v := range a.Versions() {
				assert.Equal(t, tt.want[i], tt.bound.Covers(a, v), "version %s", v)
			}
		})
	}

	assert.False(t, Always.Covers(a, "V9"))
}

func TestBoundOverlaps(t *testing.T) {
	a := MustAxis("V0", "V1", "V2", "V3")

	assert.True(t, Always.Overlaps(a, Bound{Since: "V2"}))
	assert.False(t, Bound{Until: "V2"}.Overlaps(a, Bound{Since: "V2"}))
	assert.True(t, Bound{Until: "V3"}.Overlaps(a, Bound{Since: "V2"}))
}

func TestBoundValidate(t *testing.T) {
	a := MustAxis("V0", "V1", "V2")

	assert.NoError(t, Always.Validate(a))
	assert.NoError(t, Bound{Since: "V1", Until: "V2"}.Validate(a))
	assert.NoError(t, Bound{Until: "V1"}.Validate(a))

	err := Bound{Since: "V2", Until: "V1"}.Validate(a)
	assert.True(t, IsCode(err, ErrCodeInvalidBound))

	err = Bound{Since: "V1", Until: "V1"}.Validate(a)
	assert.True(t, IsCode(err, ErrCodeInvalidBound))

	err = Bound{Until: "V0"}.Validate(a)
	assert.True(t, IsCode(err, ErrCodeInvalidBound), "until baseline leaves nothing covered")

	err = Bound{Since: "V7"}.Validate(a)
	assert.True(t, IsCode(err, ErrCodeUnknownVersion))
}

func TestBoundString(t *testing.T) {
	assert.Equal(t, "[baseline, ∞)", Always.String())
	assert.Equal(t, "[V1, V2)", Bound{Since: "V1", Until: "V2"}.String())
}
