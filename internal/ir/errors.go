package ir

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes resolution errors.
//
// Every code is fatal: the build either produces a complete graph or aborts
// with a diagnostic naming the offending declaration and member.
type ErrorCode string

const (
	// ErrCodeOutOfOrderVersion indicates a timeline entry was not strictly after the previous one.
	ErrCodeOutOfOrderVersion ErrorCode = "OUT_OF_ORDER_VERSION"

	// ErrCodeUnknownVersion indicates a version that is not on the axis.
	ErrCodeUnknownVersion ErrorCode = "UNKNOWN_VERSION"

	// ErrCodeInvalidBound indicates a member bound whose until does not follow its since.
	ErrCodeInvalidBound ErrorCode = "INVALID_BOUND"

	// ErrCodeEmptyTimeline indicates a query against a timeline with no entries.
	ErrCodeEmptyTimeline ErrorCode = "EMPTY_TIMELINE"

	// ErrCodeMultipleEntries indicates Single was called on a versioned timeline.
	ErrCodeMultipleEntries ErrorCode = "MULTIPLE_ENTRIES"

	// ErrCodeMissingScope indicates a declaration needed a scope and had none.
	ErrCodeMissingScope ErrorCode = "MISSING_SCOPE"

	// ErrCodeAlreadyResolved indicates a mutation after the target was read.
	ErrCodeAlreadyResolved ErrorCode = "ALREADY_RESOLVED"

	// ErrCodeDuplicateKey indicates a repeated interpretation key or enum value.
	ErrCodeDuplicateKey ErrorCode = "DUPLICATE_KEY"

	// ErrCodePropertyKeyCollision indicates two properties share a key at an overlapping version.
	ErrCodePropertyKeyCollision ErrorCode = "PROPERTY_KEY_COLLISION"

	// ErrCodeDuplicateName indicates two different declarations registered under one name.
	ErrCodeDuplicateName ErrorCode = "DUPLICATE_NAME"

	// ErrCodeUnknownDeclaration indicates a lookup of a name that was never registered.
	ErrCodeUnknownDeclaration ErrorCode = "UNKNOWN_DECLARATION"

	// ErrCodeCyclicTypeReference indicates a type that contains itself by value.
	ErrCodeCyclicTypeReference ErrorCode = "CYCLIC_TYPE_REFERENCE"

	// ErrCodeInvalidDeclaration indicates a malformed declaration (bad literal, missing name).
	ErrCodeInvalidDeclaration ErrorCode = "INVALID_DECLARATION"
)

// Error is the single error type raised by the IR, engine and builders.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Declaration names the offending declaration, when known.
	Declaration string

	// Member names the offending property, value, element or interpretation.
	Member string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Declaration != "" && e.Member != "":
		return fmt.Sprintf("%s: %s (declaration=%s, member=%s)", e.Code, e.Message, e.Declaration, e.Member)
	case e.Declaration != "":
		return fmt.Sprintf("%s: %s (declaration=%s)", e.Code, e.Message, e.Declaration)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsCode reports whether err is an *Error carrying code.
// Uses errors.As to handle wrapped errors.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code of err, or "" when err is not an *Error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// WithDeclaration returns err annotated with the declaration name when it is
// an *Error that does not already name one.
func WithDeclaration(err error, name string) error {
	var e *Error
	if !errors.As(err, &e) || e.Declaration != "" {
		return err
	}
	annotated := *e
	annotated.Declaration = name
	return &annotated
}
