package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crier.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadFromFile_AppliesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9999
  log_level: debug
hub:
  buffer: 64
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 64, cfg.Hub.Buffer)

	// Untouched values keep their defaults.
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 30, cfg.Database.RetentionDays)
	assert.True(t, cfg.MCP.Enabled)
}

func TestLoadFromFile_MissingFileKeepsDefaults(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().Server.Port, cfg.Server.Port)
}

func TestLoadFromFile_ExpandsEnvVars(t *testing.T) {
	t.Setenv("CRIER_TEST_DB", "/tmp/custom.db")
	path := writeConfig(t, `
database:
  path: ${CRIER_TEST_DB}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", cfg.Database.Path)
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")
	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"bad retention", func(c *Config) { c.Database.RetentionDays = 0 }, "retention_days"},
		{"bad buffer", func(c *Config) { c.Hub.Buffer = 0 }, "hub.buffer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "data.db"), ExpandHome("~/data.db"))
	assert.Equal(t, "/var/lib/crier.db", ExpandHome("/var/lib/crier.db"))
}
