package cli

import (
	"io"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "STRATA"

// initConfig loads strata.yaml from the working directory or
// $HOME/.config/strata, or configFile when given. Environment variables
// prefixed STRATA_ override file values; explicit flags override both.
//
// Keys: log_level, format, db, version_order.
func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("strata")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/strata")
	// A missing default config file is fine
	_ = viper.ReadInConfig()
	return nil
}

// setupLogging points the global zerolog logger at w. Logs never go to
// stdout so JSON output stays parseable.
func setupLogging(level string, w io.Writer) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

// resolveString returns the flag value when the flag was set explicitly,
// otherwise the configured value for key, otherwise the flag default.
func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if v := viper.GetString(key); v != "" {
		return v
	}
	return value
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := cmd.InheritedFlags().Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

func invalidArgument(msg string, cause error) error {
	b := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg)
	if cause != nil {
		b = b.WithCause(cause)
	}
	return b
}

func notFound(msg string, cause error) error {
	b := errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(msg)
	if cause != nil {
		b = b.WithCause(cause)
	}
	return b
}
