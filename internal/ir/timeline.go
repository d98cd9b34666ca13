package ir

import "fmt"

// Entry is one change point of a Timeline: Value is in force from Since
// until the Since of the next entry.
type Entry[T any] struct {
	Since Version
	Value T
}

// Interval is the validity range of one timeline entry.
// An empty Until means the entry is still in force at the end of the axis.
type Interval struct {
	Since Version `json:"since" yaml:"since"`
	Until Version `json:"until,omitempty" yaml:"until,omitempty"`
}

// IsOpen reports whether the interval has no upper bound.
func (i Interval) IsOpen() bool {
	return i.Until == ""
}

// Timeline is a compressed history of a value over an Axis (VersionedData).
//
// Entries are strictly increasing by Since. Builders only append when content
// changes, so adjacent entries never hold equal values; Add itself only
// enforces ordering because T carries no equality.
type Timeline[T any] struct {
	axis    *Axis
	entries []Entry[T]
}

// NewTimeline creates an empty timeline over axis.
func NewTimeline[T any](axis *Axis) *Timeline[T] {
	return &Timeline[T]{axis: axis}
}

// Constant creates a timeline holding value from the baseline onward.
func Constant[T any](axis *Axis, value T) *Timeline[T] {
	return &Timeline[T]{
		axis:    axis,
		entries: []Entry[T]{{Since: axis.Baseline(), Value: value}},
	}
}

// Add appends an entry. since must be on the axis and strictly after the
// last entry's Since; the first entry must start at the baseline.
func (t *Timeline[T]) Add(value T, since Version) error {
	idx, err := t.axis.require(since)
	if err != nil {
		return err
	}

	if len(t.entries) == 0 {
		if idx != 0 {
			return &Error{
				Code:    ErrCodeOutOfOrderVersion,
				Message: fmt.Sprintf("first entry must start at baseline %q, got %q", t.axis.Baseline(), since),
			}
		}
	} else {
		last := t.entries[len(t.entries)-1].Since
		lastIdx, _ := t.axis.Index(last)
		if idx <= lastIdx {
			return &Error{
				Code:    ErrCodeOutOfOrderVersion,
				Message: fmt.Sprintf("entry at %q does not follow last entry at %q", since, last),
			}
		}
	}

	t.entries = append(t.entries, Entry[T]{Since: since, Value: value})
	return nil
}

// Resolve returns the value in force at v: the last entry whose Since <= v.
func (t *Timeline[T]) Resolve(v Version) (T, error) {
	var zero T
	vi, err := t.axis.require(v)
	if err != nil {
		return zero, err
	}
	if len(t.entries) == 0 {
		return zero, &Error{Code: ErrCodeEmptyTimeline, Message: "timeline has no entries"}
	}

	// Entries are few (one per change point); a linear scan from the end
	// finds the latest applicable entry.
	for i := len(t.entries) - 1; i >= 0; i-- {
		si, _ := t.axis.Index(t.entries[i].Since)
		if si <= vi {
			return t.entries[i].Value, nil
		}
	}
	return zero, &Error{Code: ErrCodeEmptyTimeline, Message: fmt.Sprintf("no entry covers %q", v)}
}

// MustResolve is like Resolve but panics on error.
// Use only in tests or when v is known to be on the axis.
func (t *Timeline[T]) MustResolve(v Version) T {
	val, err := t.Resolve(v)
	if err != nil {
		panic(err)
	}
	return val
}

// HasChangedAt reports whether an entry starts exactly at v.
func (t *Timeline[T]) HasChangedAt(v Version) bool {
	for _, e := range t.entries {
		if e.Since == v {
			return true
		}
	}
	return false
}

// Intervals pairs each entry's Since with the next entry's Since.
// The last interval is open.
func (t *Timeline[T]) Intervals() []Interval {
	out := make([]Interval, len(t.entries))
	for i, e := range t.entries {
		out[i].Since = e.Since
		if i+1 < len(t.entries) {
			out[i].Until = t.entries[i+1].Since
		}
	}
	return out
}

// Single returns the only value of a timeline that never changes.
func (t *Timeline[T]) Single() (T, error) {
	var zero T
	switch len(t.entries) {
	case 0:
		return zero, &Error{Code: ErrCodeEmptyTimeline, Message: "timeline has no entries"}
	case 1:
		return t.entries[0].Value, nil
	default:
		return zero, &Error{
			Code:    ErrCodeMultipleEntries,
			Message: fmt.Sprintf("expected a single entry, timeline has %d", len(t.entries)),
		}
	}
}

// Entries returns a copy of the entries in order.
func (t *Timeline[T]) Entries() []Entry[T] {
	out := make([]Entry[T], len(t.entries))
	copy(out, t.entries)
	return out
}

// Versions returns the Since of each entry in order.
func (t *Timeline[T]) Versions() []Version {
	out := make([]Version, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.Since
	}
	return out
}

// Len returns the number of entries.
func (t *Timeline[T]) Len() int {
	return len(t.entries)
}

// Axis returns the axis the timeline is tracked against.
func (t *Timeline[T]) Axis() *Axis {
	return t.axis
}

// MapTimeline transforms every value, preserving cardinality and Since.
func MapTimeline[T, U any](t *Timeline[T], f func(T) U) *Timeline[U] {
	return MapEntries(t, func(e Entry[T]) U { return f(e.Value) })
}

// MapEntries is like MapTimeline but also hands f the entry's Since.
func MapEntries[T, U any](t *Timeline[T], f func(Entry[T]) U) *Timeline[U] {
	out := &Timeline[U]{
		axis:    t.axis,
		entries: make([]Entry[U], len(t.entries)),
	}
	for i, e := range t.entries {
		out.entries[i] = Entry[U]{Since: e.Since, Value: f(e)}
	}
	return out
}
