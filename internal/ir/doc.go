// Package ir provides the versioned intermediate representation for strata.
//
// This package contains the value types every other package builds on: the
// version axis, member bounds, the Timeline (a compressed history of a value
// over the axis), the closed set of declaration kinds and the resolved Graph.
// All other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - The axis is passed explicitly, never held in package state
//   - A Timeline never holds two adjacent entries with equal content
//   - Declaration equality is structural: canonical JSON byte equality
//   - No float values anywhere in canonical content (enum literals are int64)
package ir
