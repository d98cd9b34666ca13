package decl

import (
	"errors"

	"github.com/roach88/strata/internal/ir"
)

// MemberOption configures a member when it is added.
// Options that do not apply to a member kind are ignored.
type MemberOption func(*memberConfig)

type memberConfig struct {
	bound       ir.Bound
	deprecated  bool
	inline      bool
	lenient     bool
	localized   bool
	requirement ir.Requirement
	property    string
}

func newMemberConfig(opts []MemberOption) memberConfig {
	var cfg memberConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Since makes the member present from v onward.
func Since(v ir.Version) MemberOption {
	return func(c *memberConfig) { c.bound.Since = v }
}

// Until removes the member at v (exclusive).
func Until(v ir.Version) MemberOption {
	return func(c *memberConfig) { c.bound.Until = v }
}

// Deprecated marks the member deprecated.
func Deprecated() MemberOption {
	return func(c *memberConfig) { c.deprecated = true }
}

// Inline marks a record property as flattened into its parent.
func Inline() MemberOption {
	return func(c *memberConfig) { c.inline = true }
}

// Lenient marks a record property as accepting coerced values.
func Lenient() MemberOption {
	return func(c *memberConfig) { c.lenient = true }
}

// Localized marks a record property as holding localized text.
func Localized() MemberOption {
	return func(c *memberConfig) { c.localized = true }
}

// Optional makes a record property never required.
func Optional() MemberOption {
	return func(c *memberConfig) { c.requirement = ir.Requirement{Mode: ir.RequiredNever} }
}

// RequiredWithScope makes a record property required only for callers
// holding scope.
func RequiredWithScope(scope string) MemberOption {
	return func(c *memberConfig) {
		c.requirement = ir.Requirement{Mode: ir.RequiredWithScope, AccessScope: scope}
	}
}

// NestedIn places an interpretation's payload under property.
func NestedIn(property string) MemberOption {
	return func(c *memberConfig) { c.property = property }
}

// member is the state every member kind shares: its bound, its deprecation
// flag and its lock. Reading any field locks the member.
type member struct {
	decl       *base
	label      string
	bound      ir.Bound
	deprecated bool
	locked     bool
}

func newMember(decl *base, label string, cfg memberConfig) member {
	return member{decl: decl, label: label, bound: cfg.bound, deprecated: cfg.deprecated}
}

func (m *member) read() {
	m.locked = true
}

func (m *member) mutate(fn func()) error {
	if m.locked {
		return &ir.Error{
			Code:        ir.ErrCodeAlreadyResolved,
			Message:     "member was already read",
			Declaration: m.decl.displayName(),
			Member:      m.label,
		}
	}
	fn()
	return nil
}

// Bound returns the member's validity range.
func (m *member) Bound() ir.Bound {
	m.read()
	return m.bound
}

// IsDeprecated reports whether the member is deprecated.
func (m *member) IsDeprecated() bool {
	m.read()
	return m.deprecated
}

// Locked reports whether the member has been read.
func (m *member) Locked() bool {
	return m.locked
}

// SetSince changes the first version the member is present in.
func (m *member) SetSince(v ir.Version) error {
	return m.mutate(func() { m.bound.Since = v })
}

// SetUntil changes the version the member is removed at.
func (m *member) SetUntil(v ir.Version) error {
	return m.mutate(func() { m.bound.Until = v })
}

// SetDeprecated changes the deprecation flag.
func (m *member) SetDeprecated(on bool) error {
	return m.mutate(func() { m.deprecated = on })
}

// covers is the resolution-time read of the bound.
func (m *member) covers(axis *ir.Axis, v ir.Version) bool {
	m.read()
	return m.bound.Covers(axis, v)
}

func (m *member) validate(axis *ir.Axis) error {
	m.read()
	if err := m.bound.Validate(axis); err != nil {
		var e *ir.Error
		if errors.As(err, &e) {
			cp := *e
			cp.Declaration = m.decl.displayName()
			cp.Member = m.label
			return &cp
		}
		return err
	}
	return nil
}
