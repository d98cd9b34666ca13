package harness

import (
	"github.com/roach88/strata/internal/compiler"
	"github.com/roach88/strata/internal/ir"
	"github.com/roach88/strata/internal/store"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every assertion held.
	Pass bool

	// Graph is the compiled graph; nil when compilation failed.
	Graph *ir.Graph

	// CompileErr is the compilation failure, if any.
	CompileErr error

	// Build is the in-memory persisted copy of Graph.
	Build store.Build

	// Findings are the validation results for Graph.
	Findings []compiler.ValidationError

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
