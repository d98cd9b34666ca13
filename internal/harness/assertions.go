package harness

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/strata/internal/ir"
	"github.com/roach88/strata/internal/store"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	return buf.String()
}

// AssertionContext provides the persisted copy of the graph for resolve
// assertions.
type AssertionContext struct {
	Store *store.Store
	Ctx   context.Context
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch {
		case assertion.Type == AssertCompileError:
			err = assertCompileError(result, assertion)
		case result.Graph == nil:
			err = fmt.Errorf("assertion[%d]: %s needs a graph, compilation failed: %v", i, assertion.Type, result.CompileErr)
		default:
			switch assertion.Type {
			case AssertResolve:
				err = assertResolve(result, assertion, actx)
			case AssertChangedAt:
				err = assertChangedAt(result.Graph, assertion)
			case AssertRevisions:
				err = assertRevisions(result.Graph, assertion)
			case AssertValidation:
				err = assertValidation(result, assertion)
			default:
				err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
			}
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

// assertResolve checks kind and member keys of one snapshot, then checks
// that the persisted revision in force has the same content hash.
func assertResolve(result *Result, assertion Assertion, actx *AssertionContext) error {
	name := ir.QualifiedName(assertion.Name)
	at := ir.Version(assertion.At)

	d, err := result.Graph.Resolve(name, at)
	if err != nil {
		return &AssertionError{
			Type:     AssertResolve,
			Expected: fmt.Sprintf("%s %s as of %s", assertion.Kind, name, at),
			Actual:   err.Error(),
		}
	}

	if string(d.Kind()) != assertion.Kind {
		return &AssertionError{
			Type:     AssertResolve,
			Expected: fmt.Sprintf("%s is a %s", name, assertion.Kind),
			Actual:   fmt.Sprintf("%s is a %s", name, d.Kind()),
		}
	}

	if assertion.Keys != nil {
		keys := memberKeys(d)
		if !slices.Equal(keys, assertion.Keys) {
			return &AssertionError{
				Type:     AssertResolve,
				Expected: fmt.Sprintf("%s@%s keys %v", name, at, assertion.Keys),
				Actual:   fmt.Sprintf("%s@%s keys %v", name, at, keys),
			}
		}
	}

	if actx == nil || actx.Store == nil {
		return nil
	}
	rev, err := actx.Store.ReadAsOf(actx.Ctx, result.Build.ID, name, at)
	if err != nil {
		return fmt.Errorf("resolve %s@%s from store: %w", name, at, err)
	}
	if want := ir.DeclarationHash(d); rev.Hash != want {
		return &AssertionError{
			Type:     AssertResolve,
			Expected: fmt.Sprintf("stored %s@%s hash %s", name, at, want),
			Actual:   fmt.Sprintf("stored %s@%s hash %s", name, at, rev.Hash),
		}
	}
	return nil
}

func assertChangedAt(g *ir.Graph, assertion Assertion) error {
	got := []string{}
	for _, n := range g.ChangedAt(ir.Version(assertion.At)) {
		got = append(got, string(n))
	}
	want := assertion.Names
	if want == nil {
		want = []string{}
	}
	if !slices.Equal(got, want) {
		return &AssertionError{
			Type:     AssertChangedAt,
			Expected: fmt.Sprintf("changed at %s: %v", assertion.At, want),
			Actual:   fmt.Sprintf("changed at %s: %v", assertion.At, got),
		}
	}
	return nil
}

func assertRevisions(g *ir.Graph, assertion Assertion) error {
	n, ok := g.Lookup(ir.QualifiedName(assertion.Name))
	if !ok {
		return &AssertionError{
			Type:     AssertRevisions,
			Expected: fmt.Sprintf("declaration %s", assertion.Name),
			Actual:   "not in graph",
		}
	}
	got := make([]string, 0, n.Timeline.Len())
	for _, v := range n.Timeline.Versions() {
		got = append(got, string(v))
	}
	if !slices.Equal(got, assertion.Versions) {
		return &AssertionError{
			Type:     AssertRevisions,
			Expected: fmt.Sprintf("%s changes at %v", assertion.Name, assertion.Versions),
			Actual:   fmt.Sprintf("%s changes at %v", assertion.Name, got),
		}
	}
	return nil
}

func assertCompileError(result *Result, assertion Assertion) error {
	if result.CompileErr == nil {
		return &AssertionError{
			Type:     AssertCompileError,
			Expected: fmt.Sprintf("compilation fails with %s", assertion.Code),
			Actual:   "compilation succeeded",
		}
	}
	if code := ir.CodeOf(result.CompileErr); string(code) != assertion.Code {
		return &AssertionError{
			Type:     AssertCompileError,
			Expected: fmt.Sprintf("compilation fails with %s", assertion.Code),
			Actual:   fmt.Sprintf("code %q: %v", code, result.CompileErr),
		}
	}
	return nil
}

func assertValidation(result *Result, assertion Assertion) error {
	var codes []string
	for _, f := range result.Findings {
		if f.Code == assertion.Code {
			return nil
		}
		codes = append(codes, f.Code)
	}
	return &AssertionError{
		Type:     AssertValidation,
		Expected: fmt.Sprintf("finding %s", assertion.Code),
		Actual:   fmt.Sprintf("findings %v", codes),
	}
}

// memberKeys lists the members of a snapshot in declaration order.
func memberKeys(d ir.Declaration) []string {
	keys := []string{}
	switch v := d.(type) {
	case ir.Record:
		keys = append(keys, v.Keys()...)
	case ir.Enum:
		for _, e := range v.Values {
			keys = append(keys, e.Name)
		}
	case ir.Tuple:
		for _, e := range v.Elements {
			keys = append(keys, strconv.Itoa(e.Position))
		}
	case ir.Conditional:
		for _, p := range v.Shared {
			keys = append(keys, p.Key)
		}
		for _, i := range v.Interpretations {
			keys = append(keys, i.Key)
		}
	}
	return keys
}
