package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roach88/strata/internal/ir"
	"github.com/roach88/strata/internal/store"
)

const defaultDBPath = "strata.db"

// PersistOptions holds flags for the persist command.
type PersistOptions struct {
	*RootOptions
	DB string
}

// NewPersistCommand creates the persist command.
func NewPersistCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PersistOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "persist <specs-dir>",
		Short: "Compile declarations and store the graph",
		Long: `Compile declarations and write every revision to a SQLite build store.

A graph identical to one already stored is not written again; the
existing build is reported instead. Stored builds are read with show.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.DB = resolveString(cmd, opts.DB, "db", "db")
			return runPersist(opts, args[0], cmd)
		},
	}

	addDBFlag(cmd, &opts.DB)

	return cmd
}

func addDBFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "db", defaultDBPath, "path to the build store")
	_ = viper.BindPFlag("db", cmd.Flags().Lookup("db"))
}

func runPersist(opts *PersistOptions, specsDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loaded, err := loadOrReport(formatter, opts.RootOptions, specsDir)
	if err != nil {
		return err
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return outputStoreError(formatter, fmt.Sprintf("opening build store %s", opts.DB), err)
	}
	defer st.Close()

	build, err := st.WriteGraph(cmd.Context(), loaded.Graph)
	if err != nil {
		return outputStoreError(formatter, "writing build", err)
	}
	log.Info().Str("db", opts.DB).Str("build", build.ID).Int64("seq", build.Seq).Msg("graph persisted")

	if formatter.Structured() {
		return formatter.Success(build)
	}
	fmt.Fprintf(formatter.Writer, "Build %d (%s)\n", build.Seq, build.ID)
	fmt.Fprintf(formatter.Writer, "  %d declaration(s) over %v\n", build.Nodes, build.Axis)
	fmt.Fprintf(formatter.Writer, "  graph hash: %s\n", build.GraphHash)
	return nil
}

// outputStoreError reports a store failure. Missing builds and revisions are
// lookup errors; anything else is a store error.
func outputStoreError(formatter *OutputFormatter, context string, err error) error {
	switch {
	case isNotFound(err):
		_ = formatter.Error(ErrCodeNotFound, err.Error(), context)
		return notFound(context, err)
	case ir.CodeOf(err) != "":
		return outputResolveError(formatter, err)
	default:
		return outputCompileError(formatter, ErrCodeStore, fmt.Sprintf("%s: %v", context, err), nil)
	}
}
