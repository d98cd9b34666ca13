package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/strata/internal/decl"
	"github.com/roach88/strata/internal/ir"
)

// memberOptions reads the fields every member kind accepts:
// since, until and deprecated.
func memberOptions(v cue.Value) ([]decl.MemberOption, error) {
	var opts []decl.MemberOption

	since, ok, err := optString(v, "since")
	if err != nil {
		return nil, err
	}
	if ok {
		opts = append(opts, decl.Since(ir.Version(since)))
	}

	until, ok, err := optString(v, "until")
	if err != nil {
		return nil, err
	}
	if ok {
		opts = append(opts, decl.Until(ir.Version(until)))
	}

	deprecated, err := optBool(v, "deprecated")
	if err != nil {
		return nil, err
	}
	if deprecated {
		opts = append(opts, decl.Deprecated())
	}
	return opts, nil
}

// propertyOptions adds the record-only flags to memberOptions:
// optional, required_scope, inline, lenient and localized.
func propertyOptions(v cue.Value, field string) ([]decl.MemberOption, error) {
	opts, err := memberOptions(v)
	if err != nil {
		return nil, err
	}

	optional, err := optBool(v, "optional")
	if err != nil {
		return nil, err
	}
	scope, scoped, err := optString(v, "required_scope")
	if err != nil {
		return nil, err
	}
	switch {
	case optional && scoped:
		return nil, &CompileError{
			Field:   field,
			Message: "optional and required_scope are mutually exclusive",
			Pos:     v.Pos(),
		}
	case optional:
		opts = append(opts, decl.Optional())
	case scoped:
		opts = append(opts, decl.RequiredWithScope(scope))
	}

	flags := []struct {
		name string
		opt  func() decl.MemberOption
	}{
		{"inline", decl.Inline},
		{"lenient", decl.Lenient},
		{"localized", decl.Localized},
	}
	for _, f := range flags {
		on, err := optBool(v, f.name)
		if err != nil {
			return nil, err
		}
		if on {
			opts = append(opts, f.opt())
		}
	}
	return opts, nil
}

// literal reads an enum literal. Only strings and integers are allowed.
func literal(v cue.Value, field string) (any, error) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return s, nil
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return n, nil
	case cue.FloatKind, cue.NumberKind:
		return nil, &CompileError{
			Field:   field,
			Message: "float literals are forbidden - use int instead",
			Pos:     v.Pos(),
		}
	default:
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("enum literal must be a string or int, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

// optString reads an optional string field.
func optString(v cue.Value, name string) (string, bool, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return "", false, nil
	}
	s, err := fv.String()
	if err != nil {
		return "", false, formatCUEError(err)
	}
	return s, true, nil
}

// optBool reads an optional bool field; absent means false.
func optBool(v cue.Value, name string) (bool, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return false, nil
	}
	b, err := fv.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}
