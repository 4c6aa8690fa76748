package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearServerEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"MY_TASKS_API_URL", "APP_ENV", "APP_NAME", "LISTEN_ADDR", "BACKEND_TIMEOUT", "UI_DIR", "LOG_FORMAT"} {
		t.Setenv(k, "")
	}
}

func TestNew_ServerURL(t *testing.T) {
	t.Setenv("MYTASKS_SERVER", "")
	cfg, err := New(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.ServerURL)

	t.Setenv("MYTASKS_SERVER", "http://tasks.example.com/")
	cfg, err = New(t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, "http://tasks.example.com", cfg.ServerURL)

	cfg, err = New(t.TempDir(), "http://flag.example.com")
	require.NoError(t, err)
	assert.Equal(t, "http://flag.example.com", cfg.ServerURL)
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", AppName), DefaultConfigDir())
}

func TestSession(t *testing.T) {
	cfg, err := New(t.TempDir(), "")
	require.NoError(t, err)

	assert.False(t, cfg.HasSession())
	assert.NoError(t, cfg.RemoveSession())

	require.NoError(t, cfg.EnsureDir())
	require.NoError(t, os.WriteFile(cfg.SessionPath(), []byte("{}"), 0600))
	assert.True(t, cfg.HasSession())

	require.NoError(t, cfg.RemoveSession())
	assert.False(t, cfg.HasSession())
}

func TestLoadServer_Defaults(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("MY_TASKS_API_URL", "http://localhost:4000")

	cfg, err := LoadServer("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAppName, cfg.AppName)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, DefaultBackendTimeout, cfg.Timeout())
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.Production())
}

func TestLoadServer_FileAndEnv(t *testing.T) {
	clearServerEnv(t)
	path := filepath.Join(t.TempDir(), ServerFile)
	data := "app_name: Tasks\nenv: production\nbackend_url: https://api.example.com\nbackend_timeout: 3s\nlog_format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))
	t.Setenv("LISTEN_ADDR", ":8080")

	cfg, err := LoadServer(path)
	require.NoError(t, err)
	assert.Equal(t, "Tasks", cfg.AppName)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 3*time.Second, cfg.Timeout())
	assert.True(t, cfg.Production())

	t.Setenv("APP_ENV", "test")
	cfg, err = LoadServer(path)
	require.NoError(t, err)
	assert.False(t, cfg.Production())
}

func TestLoadServer_Invalid(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("APP_ENV", "staging")
	t.Setenv("BACKEND_TIMEOUT", "soon")
	t.Setenv("LOG_FORMAT", "xml")

	_, err := LoadServer("")
	require.Error(t, err)
	for _, want := range []string{"backend_url", "env must be", "backend_timeout", "log_format"} {
		assert.Contains(t, err.Error(), want)
	}

	t.Setenv("APP_ENV", "")
	t.Setenv("BACKEND_TIMEOUT", "")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("MY_TASKS_API_URL", "localhost:4000")
	_, err = LoadServer("")
	assert.ErrorContains(t, err, "absolute http(s) URL")
}

func TestLoadServer_MissingFile(t *testing.T) {
	_, err := LoadServer(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read server config")
}
