package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.DBPath)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, "db: /tmp/custom.db\ncache-ttl: 10m\nlog-level: debug\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "log-level: warn\n")
	t.Setenv("JQLKIT_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := Load(writeConfig(t, "log-level: shouting\n"))
	assert.Error(t, err, "invalid log level should be rejected")

	_, err = Load(writeConfig(t, "cache-ttl: -5m\n"))
	assert.Error(t, err, "negative cache-ttl should be rejected")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err, "a missing config file is not an error")
	assert.Equal(t, "info", cfg.LogLevel)
}
