package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/strata/internal/ir"
)

// ChangesOptions holds flags for the changes command.
type ChangesOptions struct {
	*RootOptions
	At string
}

// ChangeSet lists the declarations that start a new revision at a version.
type ChangeSet struct {
	Version ir.Version         `json:"version" yaml:"version"`
	Changed []ir.QualifiedName `json:"changed" yaml:"changed"`
}

// NewChangesCommand creates the changes command.
func NewChangesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ChangesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "changes <specs-dir>",
		Short: "List which declarations change at each version",
		Long: `List the declarations whose content changes at a version.

With --at, lists the declarations changed at that version. Without it,
lists one change set per version of the axis. A change to a by-value
dependency counts as a change of the declaration using it.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChanges(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.At, "at", "", "only list changes at this version")

	return cmd
}

func runChanges(opts *ChangesOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loaded, err := loadOrReport(formatter, opts.RootOptions, specsDir)
	if err != nil {
		return err
	}
	g := loaded.Graph

	versions := g.Axis.Versions()
	if opts.At != "" {
		v := ir.Version(opts.At)
		if !g.Axis.Contains(v) {
			return outputResolveError(formatter, &ir.Error{
				Code:    ir.ErrCodeUnknownVersion,
				Message: fmt.Sprintf("version %q is not on the axis", v),
			})
		}
		versions = []ir.Version{v}
	}

	sets := make([]ChangeSet, 0, len(versions))
	for _, v := range versions {
		changed := g.ChangedAt(v)
		if changed == nil {
			changed = []ir.QualifiedName{}
		}
		sets = append(sets, ChangeSet{Version: v, Changed: changed})
	}

	if formatter.Structured() {
		if opts.At != "" {
			return formatter.Success(sets[0])
		}
		return formatter.Success(sets)
	}

	for _, s := range sets {
		if len(s.Changed) == 0 {
			fmt.Fprintf(formatter.Writer, "%s: (no changes)\n", s.Version)
			continue
		}
		names := make([]string, len(s.Changed))
		for i, n := range s.Changed {
			names[i] = string(n)
		}
		fmt.Fprintf(formatter.Writer, "%s: %s\n", s.Version, strings.Join(names, ", "))
	}
	return nil
}
