package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/strata/internal/ir"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	*RootOptions
	At string // version to resolve at
}

// HistoryEntry is one revision of a declaration's timeline.
type HistoryEntry struct {
	Since ir.Version `json:"since" yaml:"since"`
	Until ir.Version `json:"until,omitempty" yaml:"until,omitempty"`
	Snapshot `yaml:",inline"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resolve <specs-dir> [name]",
		Short: "Show declarations as of a version",
		Long: `Resolve declarations against the version axis.

With --at and a name, prints that declaration as of the version.
With --at alone, prints every declaration as of the version.
With a name alone, prints the declaration's full revision history.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			return runResolve(opts, args[0], name, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.At, "at", "", "version to resolve at")

	return cmd
}

func runResolve(opts *ResolveOptions, specsDir, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if name == "" && opts.At == "" {
		return outputCompileError(formatter, ErrCodeGeneric, "resolve needs --at, a declaration name, or both", nil)
	}

	loaded, err := loadOrReport(formatter, opts.RootOptions, specsDir)
	if err != nil {
		return err
	}
	g := loaded.Graph
	v := ir.Version(opts.At)

	switch {
	case name != "" && opts.At != "":
		d, err := g.Resolve(ir.QualifiedName(name), v)
		if err != nil {
			return outputResolveError(formatter, err)
		}
		if formatter.Structured() {
			return formatter.Success(newSnapshot(d, v))
		}
		writeDeclaration(formatter.Writer, d)
		return nil

	case opts.At != "":
		decls, err := g.AsOf(v)
		if err != nil {
			return outputResolveError(formatter, err)
		}
		if formatter.Structured() {
			snaps := make([]Snapshot, len(decls))
			for i, d := range decls {
				snaps[i] = newSnapshot(d, v)
			}
			return formatter.Success(snaps)
		}
		fmt.Fprintf(formatter.Writer, "As of %s:\n\n", v)
		for _, d := range decls {
			writeDeclaration(formatter.Writer, d)
			fmt.Fprintln(formatter.Writer)
		}
		return nil

	default:
		n, ok := g.Lookup(ir.QualifiedName(name))
		if !ok {
			return outputResolveError(formatter, &ir.Error{
				Code:        ir.ErrCodeUnknownDeclaration,
				Message:     "no declaration with this name",
				Declaration: name,
			})
		}
		history := declarationHistory(n)
		if formatter.Structured() {
			return formatter.Success(history)
		}
		for _, h := range history {
			until := "open"
			if h.Until != "" {
				until = string(h.Until)
			}
			fmt.Fprintf(formatter.Writer, "[%s, %s) %s\n", h.Since, until, h.Hash)
			d, _ := g.Resolve(n.Name, h.Since)
			writeDeclaration(formatter.Writer, d)
			fmt.Fprintln(formatter.Writer)
		}
		return nil
	}
}

func declarationHistory(n *ir.Node) []HistoryEntry {
	entries := n.Timeline.Entries()
	intervals := n.Timeline.Intervals()
	out := make([]HistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = HistoryEntry{
			Since:    e.Since,
			Snapshot: newSnapshot(e.Value, e.Since),
		}
		if !intervals[i].IsOpen() {
			out[i].Until = intervals[i].Until
		}
	}
	return out
}

// outputResolveError reports an IR error under its own code.
func outputResolveError(formatter *OutputFormatter, err error) error {
	code := string(ir.CodeOf(err))
	if code == "" {
		code = ErrCodeGeneric
	}
	return outputCompileError(formatter, code, err.Error(), nil)
}
