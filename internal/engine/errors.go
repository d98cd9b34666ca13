package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/strata/internal/ir"
)

// NewCycleError creates the error raised when a node is resolved while its
// own factory is still running. path lists the in-progress nodes from the
// first occurrence of the cyclic name to the reentrant call.
func NewCycleError(path []string) *ir.Error {
	name := ""
	if len(path) > 0 {
		name = path[0]
	}
	return &ir.Error{
		Code:        ir.ErrCodeCyclicTypeReference,
		Message:     fmt.Sprintf("type contains itself by value: %s", strings.Join(path, " -> ")),
		Declaration: name,
	}
}

// IsCycleError returns true if the error is a cyclic type reference.
// Uses errors.As to handle wrapped errors.
func IsCycleError(err error) bool {
	var e *ir.Error
	if errors.As(err, &e) {
		return e.Code == ir.ErrCodeCyclicTypeReference
	}
	return false
}

func duplicateNameError(qname ir.QualifiedName) *ir.Error {
	return &ir.Error{
		Code:        ir.ErrCodeDuplicateName,
		Message:     "a different declaration is already registered under this name",
		Declaration: string(qname),
	}
}

func unknownDeclarationError(name string, path ir.QualifiedName) *ir.Error {
	msg := fmt.Sprintf("%q was never registered", name)
	if path != "" {
		msg = fmt.Sprintf("%q was never registered in scope %s", name, path)
	}
	return &ir.Error{
		Code:        ir.ErrCodeUnknownDeclaration,
		Message:     msg,
		Declaration: name,
	}
}
