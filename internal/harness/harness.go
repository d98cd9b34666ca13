package harness

import (
	"context"
	"fmt"

	"github.com/roach88/strata/internal/compiler"
	"github.com/roach88/strata/internal/store"
)

// Run compiles the scenario's specs and evaluates its assertions.
//
// Each run persists the graph into a fresh in-memory database, and resolve
// assertions read back through the store, so every scenario also checks
// that persisted revisions agree with the in-memory graph.
//
// A compilation failure is not an error of Run: it is recorded on the
// result and checked by compile_error assertions. Run returns an error only
// when the scenario cannot be executed at all.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	result := NewResult()

	v, err := compiler.LoadFiles(scenario.Specs...)
	if err != nil {
		return nil, fmt.Errorf("failed to load specs: %w", err)
	}

	g, err := compiler.Compile(v, compiler.Options{VersionOrder: scenario.VersionOrder})
	if err != nil {
		result.CompileErr = err
	} else {
		result.Graph = g
		result.Findings = compiler.Validate(g)
		result.Build, err = st.WriteGraph(ctx, g)
		if err != nil {
			return nil, fmt.Errorf("failed to persist graph: %w", err)
		}
	}

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	return result, nil
}
