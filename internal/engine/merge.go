package engine

import (
	"fmt"
	"slices"

	"github.com/roach88/strata/internal/ir"
)

// Snapshot computes the content of a value at one version.
type Snapshot[T any] func(v ir.Version) (T, error)

// BuildTimeline evaluates snapshot at every version of the axis, in order,
// and emits an entry only where the content differs from the last emitted
// entry. The baseline always emits, even for empty content.
func BuildTimeline[T any](axis *ir.Axis, snapshot Snapshot[T], equal func(a, b T) bool) (*ir.Timeline[T], error) {
	return BuildTimelineAt(axis, axis.Versions(), snapshot, equal)
}

// BuildTimelineAt is BuildTimeline restricted to candidate change points.
// points must be in axis order; the baseline is evaluated even if absent.
// Versions outside points are assumed to hold the content of the closest
// earlier point.
func BuildTimelineAt[T any](axis *ir.Axis, points []ir.Version, snapshot Snapshot[T], equal func(a, b T) bool) (*ir.Timeline[T], error) {
	if len(points) == 0 || points[0] != axis.Baseline() {
		points = append([]ir.Version{axis.Baseline()}, points...)
	}

	t := ir.NewTimeline[T](axis)
	var last T
	for i, v := range points {
		if i > 0 && axis.Compare(points[i-1], v) >= 0 {
			return nil, &ir.Error{
				Code:    ir.ErrCodeOutOfOrderVersion,
				Message: fmt.Sprintf("change point %q does not follow %q", v, points[i-1]),
			}
		}
		cur, err := snapshot(v)
		if err != nil {
			return nil, err
		}
		if t.Len() > 0 && equal(last, cur) {
			continue
		}
		if err := t.Add(cur, v); err != nil {
			return nil, err
		}
		last = cur
	}
	return t, nil
}

// ChangePoints returns the union of the given version sets plus the
// baseline, deduplicated and in axis order. Unknown versions are dropped.
func ChangePoints(axis *ir.Axis, sets ...[]ir.Version) []ir.Version {
	seen := map[ir.Version]bool{axis.Baseline(): true}
	out := []ir.Version{axis.Baseline()}
	for _, set := range sets {
		for _, v := range set {
			if seen[v] || !axis.Contains(v) {
				continue
			}
			seen[v] = true
			out = append(out, v)
		}
	}
	slices.SortFunc(out, axis.Compare)
	return out
}

// BoundPoints returns the versions at which any of the bounds opens or
// closes. These are the only versions at which membership can change.
func BoundPoints(axis *ir.Axis, bounds ...ir.Bound) []ir.Version {
	var pts []ir.Version
	for _, b := range bounds {
		if b.Since != "" {
			pts = append(pts, b.Since)
		}
		if b.Until != "" {
			pts = append(pts, b.Until)
		}
	}
	return ChangePoints(axis, pts)
}
