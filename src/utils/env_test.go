package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitEnvironmentVariables(t *testing.T) {
	t.Run("loads the development file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, DEV_ENV_FILENAME), []byte("MR_TEST_VALUE=hello\n"), 0644))
		t.Cleanup(func() { os.Unsetenv("MR_TEST_VALUE") })

		require.NoError(t, InitEnvironmentVariables(dir, "development"))
		assert.Equal(t, "hello", os.Getenv("MR_TEST_VALUE"))
	})

	t.Run("missing development file is ignored", func(t *testing.T) {
		assert.NoError(t, InitEnvironmentVariables(t.TempDir(), "development"))
	})

	t.Run("missing production file is an error", func(t *testing.T) {
		assert.Error(t, InitEnvironmentVariables(t.TempDir(), "production"))
	})
}

func TestGetEnv(t *testing.T) {
	t.Setenv("MR_TEST_FALLBACK", "")
	assert.Equal(t, "x", GetEnv("MR_TEST_FALLBACK", "x"))

	t.Setenv("MR_TEST_FALLBACK", "y")
	assert.Equal(t, "y", GetEnv("MR_TEST_FALLBACK", "x"))
}
