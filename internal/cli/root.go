package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose      bool
	Format       string // "text" | "json" | "yaml"
	ConfigFile   string
	LogLevel     string
	VersionOrder string // "declared" | "semver"; empty uses the document's
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return GetExitCode(err)
	}
	return ExitSuccess
}

// NewRootCommand creates the root command for the strata CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "strata",
		Short:   "strata - versioned schema declarations",
		Long:    "Compile versioned type declarations and resolve their shape as of any schema version.",
		Version: version,
		// Execute prints the error once; subcommands write their own output
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(opts.ConfigFile); err != nil {
				return err
			}
			setupLogging(resolveString(cmd, opts.LogLevel, "log_level", "log-level"), cmd.ErrOrStderr())

			opts.Format = resolveString(cmd, opts.Format, "format", "format")
			opts.VersionOrder = resolveString(cmd, opts.VersionOrder, "version_order", "version-order")
			if !isValidFormat(opts.Format) {
				return invalidArgument(fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats), nil)
			}
			return nil
		},
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	flags.StringVar(&opts.ConfigFile, "config", "", "config file path")
	flags.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	flags.StringVar(&opts.VersionOrder, "version-order", "", "override version_order (declared|semver)")
	_ = viper.BindPFlag("format", flags.Lookup("format"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("version_order", flags.Lookup("version-order"))

	// Add subcommands
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewResolveCommand(opts))
	cmd.AddCommand(NewChangesCommand(opts))
	cmd.AddCommand(NewPersistCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
