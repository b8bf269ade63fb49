package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes into dir for the test and restores the previous working
// directory on cleanup (equivalent to t.Chdir, which needs Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(prev) })
}

// clearEnv unsets the variable for the test while keeping t.Setenv's
// restore-on-cleanup behavior.
func clearEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	env := "PORT=9999\nPOSTGRES_CONN_STR=host=db\nSTATUS_CACHE_TTL_SECONDS=5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	chdir(t, dir)

	clearEnv(t, "PORT")
	clearEnv(t, "POSTGRES_CONN_STR")
	clearEnv(t, "STATUS_CACHE_TTL_SECONDS")

	cfg := Load()
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "host=db", cfg.PostgresConnStr)
	assert.Equal(t, 5*time.Second, cfg.StatusCacheTTL)
}

func TestLoadEnvironmentOverridesDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=9999\n"), 0o600))
	chdir(t, dir)

	t.Setenv("PORT", "7777")

	cfg := Load()
	assert.Equal(t, "7777", cfg.Port)
}

func TestLoadDefaultsWithoutDotEnv(t *testing.T) {
	chdir(t, t.TempDir())

	clearEnv(t, "PORT")
	clearEnv(t, "POSTGRES_CONN_STR")
	clearEnv(t, "STATUS_CACHE_TTL_SECONDS")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.PostgresConnStr)
	assert.Equal(t, 30*time.Second, cfg.StatusCacheTTL)
}
