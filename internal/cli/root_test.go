package cli

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/strata/internal/testutil"
)

// execute runs cmd with args and returns everything written to stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// decodeResponse decodes a structured CLI response and its data payload.
func decodeResponse(t *testing.T, out string, data any) CLIResponse {
	t.Helper()
	var raw struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &raw), out)
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return CLIResponse{Status: raw.Status, Error: raw.Error}
}

func userSpecs(t *testing.T) string {
	t.Helper()
	return testutil.WriteSpec(t, testutil.UserGraphSpec)
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "strata", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"compile", "validate", "resolve", "changes", "persist", "show", "test"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	flags := cmd.PersistentFlags()

	verbose := flags.Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)

	format := flags.Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "text", format.DefValue)

	logLevel := flags.Lookup("log-level")
	require.NotNil(t, logLevel)
	assert.Equal(t, "warn", logLevel.DefValue)

	order := flags.Lookup("version-order")
	require.NotNil(t, order)
	assert.Equal(t, "", order.DefValue)

	assert.NotNil(t, flags.Lookup("config"))
}

func TestCompileCommandFlags(t *testing.T) {
	cmd := NewCompileCommand(&RootOptions{})

	output := cmd.Flags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "o", output.Shorthand)
}

func TestRootInvalidFormat(t *testing.T) {
	t.Cleanup(viper.Reset)

	_, err := execute(t, NewRootCommand(), "--format", "xml", "compile", userSpecs(t))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, errorMessage(err), "invalid format")
}

func TestRootFormatFromConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := userSpecs(t)
	configPath := testutil.WriteFile(t, t.TempDir(), "strata.yaml", "format: json\n")

	out, err := execute(t, NewRootCommand(), "--config", configPath, "compile", dir)
	require.NoError(t, err)

	resp := decodeResponse(t, out, nil)
	assert.Equal(t, "ok", resp.Status)
}

func TestRootFlagOverridesConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := userSpecs(t)
	configPath := testutil.WriteFile(t, t.TempDir(), "strata.yaml", "format: json\n")

	out, err := execute(t, NewRootCommand(), "--config", configPath, "--format", "text", "compile", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Compiled 2 declaration(s)")
}

func TestRootFormatFromEnv(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("STRATA_FORMAT", "yaml")

	out, err := execute(t, NewRootCommand(), "compile", userSpecs(t))
	require.NoError(t, err)
	assert.Contains(t, out, "status: ok")
}

func TestRootVersionOrderFlag(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := testutil.WriteSpec(t, `versions: ["1.10.0", "1.2.0"]
record: R: property: {
	a: {type: "string"}
	b: {type: "string", since: "1.10.0"}
}
`)

	out, err := execute(t, NewRootCommand(), "--version-order", "semver", "--format", "json", "changes", dir)
	require.NoError(t, err)

	var sets []ChangeSet
	decodeResponse(t, out, &sets)
	require.Len(t, sets, 2)
	assert.Equal(t, "1.2.0", string(sets[0].Version))
	assert.Equal(t, "1.10.0", string(sets[1].Version))
}
