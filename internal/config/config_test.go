package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsWithoutConfigFile(t *testing.T) {
	cfg, err := New("")
	require.NoError(t, err)

	a := cfg.GetAgent()
	assert.NotEmpty(t, a.Endpoint)
	assert.Equal(t, 60*time.Second, a.Timeout)

	l := cfg.GetLogging()
	assert.Equal(t, "info", l.Level)
	assert.Equal(t, "console", l.Format)
}

func TestNew_ReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `agent:
  endpoint: "http://agents.internal:9000/call"
  timeout: "30s"
storage:
  path: "/tmp/mailsweep-test/state.db"
logging:
  level: "debug"
  format: "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := New(path)
	require.NoError(t, err)

	a := cfg.GetAgent()
	assert.Equal(t, "http://agents.internal:9000/call", a.Endpoint)
	assert.Equal(t, 30*time.Second, a.Timeout)
	assert.Equal(t, "/tmp/mailsweep-test/state.db", cfg.GetStorage().Path)
	assert.Equal(t, "debug", cfg.GetLogging().Level)
	assert.Equal(t, "json", cfg.GetLogging().Format)
}

func TestGetAgent_BadTimeoutFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agent:\n  timeout: \"soon\"\n"), 0o600))

	cfg, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, 60*time.Second, cfg.GetAgent().Timeout)
}

func TestGetStorage_ExpandsHome(t *testing.T) {
	cfg, err := New("")
	require.NoError(t, err)

	path := cfg.GetStorage().Path
	assert.NotContains(t, path, "$HOME")
}
