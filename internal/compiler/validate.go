package compiler

import (
	"fmt"

	"github.com/roach88/strata/internal/ir"
)

// Validation error codes (E200-E299)
const (
	ErrSharedKeyCollision    = "E201" // shared property named like the disambiguation key
	ErrSidePropertyCollision = "E202" // side property named like a shared property
	ErrEmptyEnum             = "E203" // enum has no values at some version
	ErrDanglingReference     = "E204" // named reference to a declaration not in the graph
)

// Validation levels.
const (
	LevelError   = "error"
	LevelWarning = "warning"
)

// ValidationError represents a graph validation finding.
type ValidationError struct {
	Field   string     `json:"field"`
	Message string     `json:"message"`
	Code    string     `json:"code"`
	Level   string     `json:"level"`
	Version ir.Version `json:"version,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("[%s] %s@%s: %s", e.Code, e.Field, e.Version, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// HasErrors reports whether any finding is at error level.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Level == LevelError {
			return true
		}
	}
	return false
}

// Validate checks a resolved graph revision by revision.
// Returns all findings (does not fail-fast). A finding that persists across
// several revisions is reported once, at the first revision showing it.
func Validate(g *ir.Graph) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)
	report := func(e ValidationError) {
		key := e.Code + "|" + e.Field + "|" + e.Message
		if seen[key] {
			return
		}
		seen[key] = true
		errs = append(errs, e)
	}

	for _, n := range g.Nodes {
		for _, entry := range n.Timeline.Entries() {
			for _, e := range validateDeclaration(g, entry.Value) {
				e.Version = entry.Since
				report(e)
			}
		}
	}
	return errs
}

func validateDeclaration(g *ir.Graph, d ir.Declaration) []ValidationError {
	var errs []ValidationError
	name := string(d.DeclName())

	switch v := d.(type) {
	case ir.Conditional:
		errs = append(errs, validateConditional(v)...)
	case ir.Enum:
		// E203: enum without values
		if len(v.Values) == 0 {
			errs = append(errs, ValidationError{
				Field:   name,
				Message: "enum has no values",
				Code:    ErrEmptyEnum,
				Level:   LevelWarning,
			})
		}
	}

	// E204: dangling named reference
	for _, ref := range ir.References(d) {
		if _, ok := g.Lookup(ref); !ok {
			errs = append(errs, ValidationError{
				Field:   name,
				Message: fmt.Sprintf("reference to undeclared %q", ref),
				Code:    ErrDanglingReference,
				Level:   LevelError,
			})
		}
	}
	return errs
}

func validateConditional(c ir.Conditional) []ValidationError {
	var errs []ValidationError
	name := string(c.Name)
	shared := make(map[string]bool, len(c.Shared))

	for _, p := range c.Shared {
		shared[p.Key] = true
		// E201: shared property shadows the tag
		if p.Key == c.Key {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.shared.%s", name, p.Key),
				Message: fmt.Sprintf("shared property collides with disambiguation key %q", c.Key),
				Code:    ErrSharedKeyCollision,
				Level:   LevelError,
			})
		}
	}

	if c.Nesting != ir.NestingSideProperty {
		return errs
	}
	for _, i := range c.Interpretations {
		// E202: side property shadows a shared property or the tag
		if i.Property != "" && (shared[i.Property] || i.Property == c.Key) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.interpretation.%s", name, i.Key),
				Message: fmt.Sprintf("side property %q collides with a shared property or the key", i.Property),
				Code:    ErrSidePropertyCollision,
				Level:   LevelError,
			})
		}
	}
	return errs
}
