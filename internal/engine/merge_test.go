package engine

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/ir"
)

type member struct {
	key   string
	bound ir.Bound
}

func activeKeys(axis *ir.Axis, members []member) Snapshot[[]string] {
	return func(v ir.Version) ([]string, error) {
		keys := []string{}
		for _, m := range members {
			if m.bound.Covers(axis, v) {
				keys = append(keys, m.key)
			}
		}
		return keys, nil
	}
}

func TestBuildTimeline_EmitsOnlyOnChange(t *testing.T) {
	axis := ir.MustAxis("V0", "V1", "V2")
	members := []member{
		{key: "A"},
		{key: "B", bound: ir.Bound{Since: "V1"}},
	}

	tl, err := BuildTimeline(axis, activeKeys(axis, members), slices.Equal[[]string])
	require.NoError(t, err)

	assert.Equal(t, []ir.Entry[[]string]{
		{Since: "V0", Value: []string{"A"}},
		{Since: "V1", Value: []string{"A", "B"}},
	}, tl.Entries())
}

func TestBuildTimeline_BaselineAlwaysEmits(t *testing.T) {
	axis := ir.MustAxis("V0", "V1")
	tl, err := BuildTimeline(axis, activeKeys(axis, nil), slices.Equal[[]string])
	require.NoError(t, err)

	require.Equal(t, 1, tl.Len())
	assert.Empty(t, tl.MustResolve("V1"))
}

func TestBuildTimelineAt_SkipsUnchangedPoints(t *testing.T) {
	axis := ir.MustAxis("V0", "V1", "V2", "V3")
	members := []member{{key: "B", bound: ir.Bound{Since: "V1", Until: "V3"}}}

	calls := 0
	snap := activeKeys(axis, members)
	counting := func(v ir.Version) ([]string, error) {
		calls++
		return snap(v)
	}

	tl, err := BuildTimelineAt(axis, []ir.Version{"V1", "V3"}, counting, slices.Equal[[]string])
	require.NoError(t, err)

	assert.Equal(t, 3, calls)
	assert.Equal(t, []ir.Version{"V0", "V1", "V3"}, tl.Versions())
}

func TestBuildTimelineAt_RejectsUnorderedPoints(t *testing.T) {
	axis := ir.MustAxis("V0", "V1", "V2")
	_, err := BuildTimelineAt(axis, []ir.Version{"V0", "V2", "V1"}, activeKeys(axis, nil), slices.Equal[[]string])
	assert.True(t, ir.IsCode(err, ir.ErrCodeOutOfOrderVersion))
}

func TestChangePoints_Union(t *testing.T) {
	axis := ir.MustAxis("V0", "V1", "V2", "V3")

	got := ChangePoints(axis, []ir.Version{"V2"}, []ir.Version{"V1", "V2", "V9"})
	assert.Equal(t, []ir.Version{"V0", "V1", "V2"}, got)
}

func TestBoundPoints(t *testing.T) {
	axis := ir.MustAxis("V0", "V1", "V2", "V3")

	got := BoundPoints(axis, ir.Bound{Since: "V2"}, ir.Bound{Until: "V1"}, ir.Always)
	assert.Equal(t, []ir.Version{"V0", "V1", "V2"}, got)
}
