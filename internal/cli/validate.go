package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/strata/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                        `json:"valid" yaml:"valid"`
	Findings []compiler.ValidationError `json:"findings,omitempty" yaml:"findings,omitempty"`
	Cycles   []compiler.CycleWarning    `json:"cycles,omitempty" yaml:"cycles,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <specs-dir>",
		Short: "Check a compiled graph for problems a generator would trip on",
		Long: `Compile the declarations and check every revision of the graph.

Reports name collisions inside conditionals, enums that are empty at some
version, and dangling references. Cycles through names are legal and are
listed as warnings. Exits with code 1 when any error-level finding exists.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loaded, err := loadOrReport(formatter, opts, specsDir)
	if err != nil {
		return err
	}

	findings := compiler.Validate(loaded.Graph)
	cycles := compiler.AnalyzeCycles(loaded.Graph)
	formatter.VerboseLog("Checked %d declaration(s): %d finding(s), %d cycle(s)",
		len(loaded.Graph.Nodes), len(findings), len(cycles))

	result := ValidationResult{
		Valid:    !compiler.HasErrors(findings),
		Findings: findings,
		Cycles:   cycles,
	}

	if err := outputValidation(formatter, result); err != nil {
		return err
	}
	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d finding(s)", len(findings)))
	}
	return nil
}

func outputValidation(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Structured() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if result.Valid {
		fmt.Fprintln(w, "Validation passed")
	} else {
		fmt.Fprintln(w, "Validation failed")
	}

	if len(result.Findings) > 0 {
		fmt.Fprintln(w)
		for _, f := range result.Findings {
			fmt.Fprintf(w, "  %s %s\n", strings.ToUpper(f.Level), f.Error())
		}
	}
	if len(result.Cycles) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Cycles (closed by name):")
		for _, c := range result.Cycles {
			fmt.Fprintf(w, "  %s\n", strings.Join(c.Path, " -> "))
		}
	}
	return nil
}
