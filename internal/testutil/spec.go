package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteSpec writes src as spec.cue into a fresh temp directory and returns
// the directory.
func WriteSpec(t testing.TB, src string) string {
	t.Helper()
	dir := t.TempDir()
	WriteFile(t, dir, "spec.cue", src)
	return dir
}

// WriteFile writes content to dir/name, creating parent directories.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
