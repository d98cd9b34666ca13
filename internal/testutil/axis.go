package testutil

import (
	"fmt"

	"github.com/roach88/strata/internal/engine"
	"github.com/roach88/strata/internal/ir"
)

// Axis returns a synthetic axis V0, V1, ... V(n-1).
//
// Panics if n < 1.
func Axis(n int) *ir.Axis {
	versions := make([]ir.Version, n)
	for i := range versions {
		versions[i] = ir.Version(fmt.Sprintf("V%d", i))
	}
	return ir.MustAxis(versions...)
}

// RootScope returns a fresh root scope over a synthetic n-version axis.
func RootScope(n int) *engine.Scope {
	return engine.NewScope(Axis(n))
}
