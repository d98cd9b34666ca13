package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/strata/internal/compiler"
	"github.com/roach88/strata/internal/ir"
)

// LoadResult contains a compiled graph and what it was compiled from.
type LoadResult struct {
	Graph     *ir.Graph
	FileCount int // Number of CUE files found
}

// LoadError represents an error that occurred during spec loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSpecs loads the CUE package in dir and compiles it into a graph.
// order overrides version_order when non-empty. Compilation stops at the
// first error, which is always returned as a *LoadError.
func LoadSpecs(dir string, order string) (*LoadResult, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing specs directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	value, err := compiler.LoadDir(dir)
	if err != nil {
		return nil, convertCompileError(err, ErrCodeLoadFailed)
	}

	g, err := compiler.Compile(value, compiler.Options{VersionOrder: order})
	if err != nil {
		return nil, convertCompileError(err, ErrCodeGeneric)
	}

	return &LoadResult{Graph: g, FileCount: len(cueFiles)}, nil
}

// FindCUEFiles returns the .cue files directly inside dir. Subdirectories
// are separate CUE packages and are not part of the document.
func FindCUEFiles(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "*.cue"))
}

// convertCompileError converts a compiler error to a LoadError with position
// info. Resolution errors keep their IR code; other errors are classified by
// the field they were raised on.
func convertCompileError(err error, fallback string) *LoadError {
	code := fallback
	if irCode := ir.CodeOf(err); irCode != "" {
		code = string(irCode)
	}

	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		if ir.CodeOf(err) == "" {
			code = MapFieldToErrorCode(compileErr.Field, fallback)
		}
		return &LoadError{
			Code:    code,
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{Code: code, Message: err.Error()}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build or syntax error
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeStore       = "E008" // Build store error

	// Document structure errors
	ErrCodeVersions     = "E101" // Bad or missing versions list
	ErrCodeVersionOrder = "E102" // Unknown version_order or unparseable semver
	ErrCodeDeclaration  = "E103" // Malformed declaration entry
	ErrCodeTypeExpr     = "E104" // Malformed type expression
)

// MapFieldToErrorCode maps a compiler error field to an error code.
// Declaration fields are dotted paths such as "record.User.property.id.type".
func MapFieldToErrorCode(field string, fallback string) string {
	switch {
	case field == "cue":
		return ErrCodeBuildFailed
	case field == "versions":
		return ErrCodeVersions
	case field == "version_order":
		return ErrCodeVersionOrder
	case strings.HasSuffix(field, ".type"), strings.HasSuffix(field, ".nullable"):
		return ErrCodeTypeExpr
	case strings.Contains(field, "."):
		return ErrCodeDeclaration
	default:
		return fallback
	}
}
