package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/strata/internal/ir"
)

// Version orders accepted by version_order.
const (
	OrderDeclared = "declared"
	OrderSemver   = "semver"
)

// CompileAxis reads the version axis from the document root:
//
//	versions: ["v8", "v9", "v10"]
//	version_order: "declared" // or "semver"
//
// order overrides version_order when non-empty.
func CompileAxis(v cue.Value, order string) (*ir.Axis, error) {
	versionsVal := v.LookupPath(cue.ParsePath("versions"))
	if !versionsVal.Exists() {
		return nil, &CompileError{
			Field:   "versions",
			Message: "versions is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := versionsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var labels []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		labels = append(labels, s)
	}

	if order == "" {
		order = OrderDeclared
		if orderVal := v.LookupPath(cue.ParsePath("version_order")); orderVal.Exists() {
			order, err = orderVal.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
		}
	}

	var axis *ir.Axis
	switch order {
	case OrderDeclared:
		versions := make([]ir.Version, len(labels))
		for i, l := range labels {
			versions[i] = ir.Version(l)
		}
		axis, err = ir.NewAxis(versions...)
	case OrderSemver:
		axis, err = ir.NewSemverAxis(labels...)
	default:
		return nil, &CompileError{
			Field:   "version_order",
			Message: fmt.Sprintf("invalid version order %q, must be %q or %q", order, OrderDeclared, OrderSemver),
			Pos:     v.Pos(),
		}
	}
	if err != nil {
		return nil, &CompileError{
			Field:   "versions",
			Message: err.Error(),
			Pos:     versionsVal.Pos(),
			Err:     err,
		}
	}
	return axis, nil
}
