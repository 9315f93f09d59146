package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))

	t.Cleanup(func() {
		_ = os.Chdir(wd)
	})
}

func TestConfigPath(t *testing.T) {
	t.Run("Explicit path", func(t *testing.T) {
		path, err := configPath("/etc/tictactoe.yml")

		require.NoError(t, err)
		assert.Equal(t, "/etc/tictactoe.yml", path)
	})

	t.Run("No config file falls back to the environment", func(t *testing.T) {
		// Given: a working directory without config.yml
		chdir(t, t.TempDir())

		// When: resolving the default path
		path, err := configPath("")

		// Then: no file is used
		require.NoError(t, err)
		assert.Empty(t, path)
	})

	t.Run("Config file in the working directory", func(t *testing.T) {
		// Given: a working directory with config.yml
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("storage: memory\n"), 0o600))
		chdir(t, dir)

		// When: resolving the default path
		path, err := configPath("")

		// Then: that file is used
		require.NoError(t, err)
		assert.Equal(t, "config.yml", filepath.Base(path))
		assert.FileExists(t, path)
	})
}
