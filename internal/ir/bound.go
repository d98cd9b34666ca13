package ir

import "fmt"

// Bound is the validity range attached to a declaration member.
//
// An empty Since means "from the baseline"; an empty Until means "never
// removed". Until is exclusive.
type Bound struct {
	Since Version `json:"since,omitempty" yaml:"since,omitempty"`
	Until Version `json:"until,omitempty" yaml:"until,omitempty"`
}

// Always is the unbounded range covering the whole axis.
var Always = Bound{}

// Covers reports whether the member is present at v.
// Versions missing from the axis are never covered.
func (b Bound) Covers(axis *Axis, v Version) bool {
	vi, ok := axis.Index(v)
	if !ok {
		return false
	}
	if b.Since != "" {
		si, ok := axis.Index(b.Since)
		if !ok || vi < si {
			return false
		}
	}
	if b.Until != "" {
		ui, ok := axis.Index(b.Until)
		if !ok || vi >= ui {
			return false
		}
	}
	return true
}

// Overlaps reports whether some version on the axis is covered by both bounds.
func (b Bound) Overlaps(axis *Axis, other Bound) bool {
	for _, v := range axis.versions {
		if b.Covers(axis, v) && other.Covers(axis, v) {
			return true
		}
	}
	return false
}

// Validate checks that both ends are on the axis and that Since < Until.
func (b Bound) Validate(axis *Axis) error {
	si := 0
	if b.Since != "" {
		i, err := axis.require(b.Since)
		if err != nil {
			return err
		}
		si = i
	}
	if b.Until != "" {
		ui, err := axis.require(b.Until)
		if err != nil {
			return err
		}
		if ui <= si {
			return &Error{
				Code:    ErrCodeInvalidBound,
				Message: fmt.Sprintf("until %q must come after since %q", b.Until, b.effectiveSince(axis)),
			}
		}
	}
	return nil
}

func (b Bound) effectiveSince(axis *Axis) Version {
	if b.Since == "" {
		return axis.Baseline()
	}
	return b.Since
}

// String renders the bound as a half-open interval.
func (b Bound) String() string {
	since, until := string(b.Since), string(b.Until)
	if since == "" {
		since = "baseline"
	}
	if until == "" {
		until = "∞"
	}
	return fmt.Sprintf("[%s, %s)", since, until)
}
