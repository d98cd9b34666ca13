package ir

import (
	"fmt"
	"slices"

	"github.com/Masterminds/semver/v3"
)

// Version constants for the IR document format.
const (
	// IRVersion is the export document schema version.
	IRVersion = "1"

	// EngineVersion is the strata engine version.
	EngineVersion = "0.1.0"
)

// Version is an opaque marker drawn from an Axis.
// Ordering is defined by the axis, never by string comparison.
type Version string

// Axis is the finite, totally ordered sequence of versions that timelines are
// tracked against. The first element is the baseline and is always in force.
//
// An Axis is immutable after construction.
type Axis struct {
	versions []Version
	index    map[Version]int
}

// NewAxis builds an axis from versions in the given order.
// Returns error if the axis is empty or contains duplicates.
func NewAxis(versions ...Version) (*Axis, error) {
	if len(versions) == 0 {
		return nil, &Error{Code: ErrCodeUnknownVersion, Message: "version axis must contain at least one version"}
	}

	a := &Axis{
		versions: make([]Version, len(versions)),
		index:    make(map[Version]int, len(versions)),
	}
	for i, v := range versions {
		if v == "" {
			return nil, &Error{Code: ErrCodeUnknownVersion, Message: fmt.Sprintf("version at position %d is empty", i)}
		}
		if _, dup := a.index[v]; dup {
			return nil, &Error{Code: ErrCodeOutOfOrderVersion, Message: fmt.Sprintf("version %q appears twice in axis", v)}
		}
		a.versions[i] = v
		a.index[v] = i
	}
	return a, nil
}

// MustAxis is like NewAxis but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustAxis(versions ...Version) *Axis {
	a, err := NewAxis(versions...)
	if err != nil {
		panic(err)
	}
	return a
}

// NewSemverAxis builds an axis from labels ordered by semantic version
// precedence. Labels keep their original spelling ("v9" stays "v9").
func NewSemverAxis(labels ...string) (*Axis, error) {
	type parsed struct {
		label string
		ver   *semver.Version
	}

	items := make([]parsed, 0, len(labels))
	for _, label := range labels {
		v, err := semver.NewVersion(label)
		if err != nil {
			return nil, &Error{
				Code:    ErrCodeUnknownVersion,
				Message: fmt.Sprintf("version %q is not a semantic version: %v", label, err),
			}
		}
		items = append(items, parsed{label: label, ver: v})
	}

	slices.SortStableFunc(items, func(a, b parsed) int {
		return a.ver.Compare(b.ver)
	})

	versions := make([]Version, len(items))
	for i, it := range items {
		if i > 0 && it.ver.Equal(items[i-1].ver) {
			return nil, &Error{
				Code:    ErrCodeOutOfOrderVersion,
				Message: fmt.Sprintf("versions %q and %q have equal precedence", items[i-1].label, it.label),
			}
		}
		versions[i] = Version(it.label)
	}
	return NewAxis(versions...)
}

// Baseline returns the first version of the axis.
func (a *Axis) Baseline() Version {
	return a.versions[0]
}

// Versions returns a copy of the axis in order.
func (a *Axis) Versions() []Version {
	return slices.Clone(a.versions)
}

// Len returns the number of versions on the axis.
func (a *Axis) Len() int {
	return len(a.versions)
}

// Index returns the position of v on the axis.
func (a *Axis) Index(v Version) (int, bool) {
	i, ok := a.index[v]
	return i, ok
}

// Contains reports whether v is on the axis.
func (a *Axis) Contains(v Version) bool {
	_, ok := a.index[v]
	return ok
}

// Compare orders two versions by axis position.
// Unknown versions sort after every known version.
func (a *Axis) Compare(x, y Version) int {
	xi, xok := a.index[x]
	yi, yok := a.index[y]
	switch {
	case !xok && !yok:
		return 0
	case !xok:
		return 1
	case !yok:
		return -1
	}
	switch {
	case xi < yi:
		return -1
	case xi > yi:
		return 1
	default:
		return 0
	}
}

// Previous returns the version immediately preceding v.
// The baseline has no predecessor.
func (a *Axis) Previous(v Version) (Version, bool) {
	i, ok := a.index[v]
	if !ok || i == 0 {
		return "", false
	}
	return a.versions[i-1], true
}

// Next returns the version immediately following v.
func (a *Axis) Next(v Version) (Version, bool) {
	i, ok := a.index[v]
	if !ok || i == len(a.versions)-1 {
		return "", false
	}
	return a.versions[i+1], true
}

// require returns the index of v or an UNKNOWN_VERSION error.
func (a *Axis) require(v Version) (int, error) {
	i, ok := a.index[v]
	if !ok {
		return 0, &Error{Code: ErrCodeUnknownVersion, Message: fmt.Sprintf("version %q is not on the axis", v)}
	}
	return i, nil
}
