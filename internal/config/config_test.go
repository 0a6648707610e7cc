package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "ship.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
name: Alpha
listen:
  - version: bb
    bind_address: 0.0.0.0
    port: 12000
shipgate:
  host: gate.example.internal
  port: 443
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Alpha", cfg.Name)
	require.Equal(t, 1, cfg.Blocks)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 5*time.Minute, cfg.ShutdownNotice)
	require.Equal(t, 10*time.Second, cfg.Shipgate.ReconnectFloor)
}

func TestLoadRejectsMissingShipgateHost(t *testing.T) {
	path := writeConfig(t, `
name: Alpha
listen:
  - version: bb
    port: 12000
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMissingListeners(t *testing.T) {
	path := writeConfig(t, `
name: Alpha
shipgate:
  host: gate.example.internal
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
