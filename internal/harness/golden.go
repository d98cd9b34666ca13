package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/strata/internal/ir"
)

// AssertGolden compares the canonical export of g against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGolden(t *testing.T, name string, g *ir.Graph) error {
	t.Helper()

	doc, err := ir.MarshalCanonical(g.CanonicalDocument())
	if err != nil {
		return err
	}

	gl := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	gl.Assert(t, name, doc)

	return nil
}

// RunWithGolden executes a scenario, fails the test on any assertion
// failure, and compares the resulting graph against the scenario's golden
// file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}
	if result.Graph == nil {
		return fmt.Errorf("scenario %s: no graph to snapshot: %w", scenario.Name, result.CompileErr)
	}
	return AssertGolden(t, scenario.Name, result.Graph)
}
