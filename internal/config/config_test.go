package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hostwatch/lastseen/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LASTSEEN_CONFIG_PATH", "LASTSEEN_DATABASE", "LASTSEEN_PASSWD_PATH",
		"LASTSEEN_HISTORY_PATH", "LASTSEEN_SERVER_HOST", "LASTSEEN_SERVER_PORT",
		"LASTSEEN_TRANSPORT_MODE", "LASTSEEN_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Empty(t, cfg.Database.Path)
	require.Empty(t, cfg.History.Path)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LASTSEEN_DATABASE", "/tmp/wtmp")
	t.Setenv("LASTSEEN_PASSWD_PATH", "/tmp/passwd")
	t.Setenv("LASTSEEN_SERVER_PORT", "9090")
	t.Setenv("LASTSEEN_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "/tmp/wtmp", cfg.Database.Path)
	require.Equal(t, "/tmp/passwd", cfg.Database.PasswdPath)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("LASTSEEN_SERVER_PORT", "not-a-port")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_YAMLFileAndEnvPrecedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /data/wtmp
  passwd_path: /data/passwd
history:
  path: /data/history.db
transport:
  mode: http
`), 0o644))
	t.Setenv("LASTSEEN_CONFIG_PATH", path)
	t.Setenv("LASTSEEN_DATABASE", "/env/wtmp")

	cfg, err := config.Load()
	require.NoError(t, err)
	// Environment wins over the file.
	require.Equal(t, "/env/wtmp", cfg.Database.Path)
	require.Equal(t, "/data/passwd", cfg.Database.PasswdPath)
	require.Equal(t, "/data/history.db", cfg.History.Path)
	require.Equal(t, "http", cfg.Transport.Mode)
}

func TestLoad_MissingConfigFileFails(t *testing.T) {
	clearEnv(t)
	t.Setenv("LASTSEEN_CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := config.Load()
	require.Error(t, err)
}
