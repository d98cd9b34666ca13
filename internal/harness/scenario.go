package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance scenario: a set of CUE spec files and the
// facts the resolved graph must satisfy.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Specs lists CUE files compiled together as one document.
	// Paths are relative to the scenario file location.
	Specs []string `yaml:"specs"`

	// VersionOrder overrides the document's version_order when set.
	VersionOrder string `yaml:"version_order,omitempty"`

	// Assertions are checked in order against the compiled graph.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion checks one fact about the compiled graph.
type Assertion struct {
	// Type selects the check:
	// - "resolve": Name as of At has Kind and, if given, exactly Keys
	// - "changed_at": the declarations changing at At are exactly Names
	// - "revisions": Name changes exactly at Versions
	// - "compile_error": compilation fails with error code Code
	// - "validation": validation reports a finding with code Code
	Type string `yaml:"type"`

	// Name is the qualified declaration name (resolve, revisions).
	Name string `yaml:"name,omitempty"`

	// At is the version queried (resolve, changed_at).
	At string `yaml:"at,omitempty"`

	// Kind is the expected declaration kind (resolve).
	Kind string `yaml:"kind,omitempty"`

	// Keys are the expected member keys in declaration order (resolve):
	// property keys, enum value names, interpretation keys or element
	// positions.
	Keys []string `yaml:"keys,omitempty"`

	// Names are the expected declaration names (changed_at).
	Names []string `yaml:"names,omitempty"`

	// Versions are the expected change points (revisions).
	Versions []string `yaml:"versions,omitempty"`

	// Code is the expected error or finding code (compile_error, validation).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertResolve      = "resolve"
	AssertChangedAt    = "changed_at"
	AssertRevisions    = "revisions"
	AssertCompileError = "compile_error"
	AssertValidation   = "validation"
)

// LoadScenario reads and parses a scenario YAML file. Spec paths are
// resolved relative to the scenario file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving spec paths relative to basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, specPath := range scenario.Specs {
		if !filepath.IsAbs(specPath) && basePath != "" {
			scenario.Specs[i] = filepath.Join(basePath, specPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Specs) == 0 {
		return fmt.Errorf("specs list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for _, specPath := range s.Specs {
		if _, err := os.Stat(specPath); os.IsNotExist(err) {
			return fmt.Errorf("spec file not found: %s", specPath)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	require := func(field, value string) error {
		if value == "" {
			return fmt.Errorf("assertions[%d]: %s requires %s", index, a.Type, field)
		}
		return nil
	}

	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertResolve:
		if err := require("name", a.Name); err != nil {
			return err
		}
		if err := require("at", a.At); err != nil {
			return err
		}
		return require("kind", a.Kind)
	case AssertChangedAt:
		return require("at", a.At)
	case AssertRevisions:
		if err := require("name", a.Name); err != nil {
			return err
		}
		if len(a.Versions) == 0 {
			return fmt.Errorf("assertions[%d]: revisions requires versions", index)
		}
		return nil
	case AssertCompileError, AssertValidation:
		return require("code", a.Code)
	default:
		return fmt.Errorf("assertions[%d]: unknown type %q", index, a.Type)
	}
}
