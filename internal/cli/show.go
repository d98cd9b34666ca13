package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/strata/internal/ir"
	"github.com/roach88/strata/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	DB      string
	Build   string // build ID; empty means the latest build
	At      string
	List    bool
	Changes bool
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Read declarations from the build store",
		Long: `Read a stored build without recompiling.

  show --list               list every build
  show                      summarize the latest build
  show --at v9              every declaration as of v9
  show User --at v9         one declaration as of v9
  show User                 the revision history of User
  show --at v9 --changes    the declarations that change at v9

--build selects a build by ID instead of the latest one.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DB = resolveString(cmd, opts.DB, "db", "db")
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runShow(opts, name, cmd)
		},
	}

	addDBFlag(cmd, &opts.DB)
	cmd.Flags().StringVar(&opts.Build, "build", "", "build ID (default: latest)")
	cmd.Flags().StringVar(&opts.At, "at", "", "version to read at")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list stored builds")
	cmd.Flags().BoolVar(&opts.Changes, "changes", false, "list declarations changed at --at")

	return cmd
}

func runShow(opts *ShowOptions, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := cmd.Context()

	if opts.Changes && opts.At == "" {
		return outputCompileError(formatter, ErrCodeGeneric, "--changes needs --at", nil)
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return outputStoreError(formatter, fmt.Sprintf("opening build store %s", opts.DB), err)
	}
	defer st.Close()

	if opts.List {
		builds, err := st.ListBuilds(ctx)
		if err != nil {
			return outputStoreError(formatter, "listing builds", err)
		}
		return outputBuilds(formatter, builds)
	}

	build, err := selectBuild(ctx, st, opts.Build)
	if err != nil {
		return outputStoreError(formatter, "selecting build", err)
	}
	formatter.VerboseLog("Reading build %d (%s)", build.Seq, build.ID)
	v := ir.Version(opts.At)

	switch {
	case opts.Changes:
		names, err := st.ChangedAt(ctx, build.ID, v)
		if err != nil {
			return outputStoreError(formatter, "reading changes", err)
		}
		set := ChangeSet{Version: v, Changed: names}
		if set.Changed == nil {
			set.Changed = []ir.QualifiedName{}
		}
		if formatter.Structured() {
			return formatter.Success(set)
		}
		strs := make([]string, len(set.Changed))
		for i, n := range set.Changed {
			strs[i] = string(n)
		}
		fmt.Fprintf(formatter.Writer, "%s: %s\n", v, strings.Join(strs, ", "))
		return nil

	case name != "" && opts.At != "":
		rev, err := st.ReadAsOf(ctx, build.ID, ir.QualifiedName(name), v)
		if err != nil {
			return outputStoreError(formatter, fmt.Sprintf("reading %s at %s", name, v), err)
		}
		return outputRevisions(formatter, []store.Revision{rev}, true)

	case opts.At != "":
		revs, err := st.ReadSnapshot(ctx, build.ID, v)
		if err != nil {
			return outputStoreError(formatter, fmt.Sprintf("reading snapshot at %s", v), err)
		}
		return outputRevisions(formatter, revs, false)

	case name != "":
		revs, err := st.ReadHistory(ctx, build.ID, ir.QualifiedName(name))
		if err != nil {
			return outputStoreError(formatter, fmt.Sprintf("reading history of %s", name), err)
		}
		return outputRevisions(formatter, revs, false)

	default:
		return outputBuilds(formatter, []store.Build{build})
	}
}

func selectBuild(ctx context.Context, st *store.Store, id string) (store.Build, error) {
	if id == "" {
		return st.LatestBuild(ctx)
	}
	return st.ReadBuild(ctx, id)
}

func outputBuilds(formatter *OutputFormatter, builds []store.Build) error {
	if formatter.Structured() {
		return formatter.Success(builds)
	}
	if len(builds) == 0 {
		fmt.Fprintln(formatter.Writer, "No builds stored")
		return nil
	}
	for _, b := range builds {
		fmt.Fprintf(formatter.Writer, "%d  %s  %d declaration(s)  %v  %s\n", b.Seq, b.ID, b.Nodes, b.Axis, b.GraphHash)
	}
	return nil
}

func outputRevisions(formatter *OutputFormatter, revs []store.Revision, single bool) error {
	if formatter.Structured() {
		if single {
			return formatter.Success(revs[0])
		}
		return formatter.Success(revs)
	}
	for _, r := range revs {
		until := "open"
		if r.Until != "" {
			until = string(r.Until)
		}
		fmt.Fprintf(formatter.Writer, "%s %s [%s, %s) %s\n", r.Kind, r.Name, r.Since, until, r.Hash)
		writeContent(formatter.Writer, r.Content)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
