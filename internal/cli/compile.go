package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/strata/internal/ir"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompilationStats holds summary statistics.
type CompilationStats struct {
	Declarations int `json:"declarations" yaml:"declarations"`
	Revisions    int `json:"revisions" yaml:"revisions"`
	Versions     int `json:"versions" yaml:"versions"`
}

// CompilationResult is the structured compile output.
type CompilationResult struct {
	Hash     string           `json:"hash" yaml:"hash"`
	Stats    CompilationStats `json:"stats" yaml:"stats"`
	Document ir.Document      `json:"document" yaml:"document"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <specs-dir>",
		Short: "Compile CUE declarations to an IR graph",
		Long: `Compile versioned CUE declarations into an IR graph.

Every declaration is resolved across the whole version axis. The result
lists each declaration's revisions; --output writes the IR document as
JSON, or YAML when the file ends in .yaml or .yml.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loaded, err := loadOrReport(formatter, opts.RootOptions, specsDir)
	if err != nil {
		return err
	}
	g := loaded.Graph

	for _, n := range g.Nodes {
		formatter.VerboseLog("Resolved %s %s: %d revision(s)", n.Kind, n.Name, n.Timeline.Len())
	}

	result := CompilationResult{
		Hash: ir.GraphHash(g),
		Stats: CompilationStats{
			Declarations: len(g.Nodes),
			Revisions:    g.Revisions(),
			Versions:     g.Axis.Len(),
		},
		Document: g.Export(),
	}

	if opts.Output != "" {
		if err := writeDocument(result.Document, opts.Output); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	return outputCompileSuccess(formatter, result, g, opts.Output)
}

// loadOrReport compiles specsDir and reports any failure through formatter.
func loadOrReport(formatter *OutputFormatter, opts *RootOptions, specsDir string) (*LoadResult, error) {
	loaded, err := LoadSpecs(specsDir, opts.VersionOrder)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			var details any
			if loadErr.Pos.IsValid() {
				details = fmt.Sprintf("%s:%d:%d", loadErr.Pos.Filename(), loadErr.Pos.Line(), loadErr.Pos.Column())
			}
			return nil, outputCompileError(formatter, loadErr.Code, loadErr.Message, details)
		}
		return nil, outputCompileError(formatter, ErrCodeGeneric, err.Error(), nil)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loaded.FileCount, specsDir)
	return loaded, nil
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result CompilationResult, g *ir.Graph, outputFile string) error {
	if formatter.Structured() {
		return formatter.Success(result)
	}

	// Human-readable text output
	fmt.Fprintf(formatter.Writer, "Compiled %d declaration(s), %d revision(s) over %d version(s)\n\n",
		result.Stats.Declarations, result.Stats.Revisions, result.Stats.Versions)

	for _, n := range g.Nodes {
		since := n.Timeline.Versions()
		fmt.Fprintf(formatter.Writer, "  %s (%s): %d revision(s) at %v\n", n.Name, n.Kind, n.Timeline.Len(), since)
	}
	fmt.Fprintln(formatter.Writer)
	fmt.Fprintf(formatter.Writer, "Graph hash: %s\n", result.Hash)

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "Wrote IR to %s\n", outputFile)
	}

	return nil
}

// outputCompileError outputs a single compilation error.
func outputCompileError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Compilation errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// writeDocument writes the IR document as indented JSON, or YAML for a
// .yaml/.yml path. Canonical JSON without indentation is used only for
// hashing and storage.
func writeDocument(doc ir.Document, filename string) error {
	var (
		data []byte
		err  error
	)
	switch filepath.Ext(filename) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(doc)
	default:
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshaling IR: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}

	return nil
}
