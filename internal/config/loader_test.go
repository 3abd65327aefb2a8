package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for the loader:
// - defaults apply when there is no config file
// - a config file overrides defaults
// - environment variables override the config file
// - invalid values from any source are rejected

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "logs"), cfg.LogDir)
	assert.Equal(t, filepath.Join(dir, "spawns.db"), cfg.ProcessLog)
	assert.Equal(t, "pipe", cfg.ChannelMode)
	assert.Equal(t, "truncate", cfg.LogMode)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := "channel_mode: socket\nlog_mode: append\nlog_dir: /var/log/workers\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, "socket", cfg.ChannelMode)
	assert.Equal(t, "append", cfg.LogMode)
	assert.Equal(t, "/var/log/workers", cfg.LogDir)
	// Unset fields keep their defaults.
	assert.Equal(t, filepath.Join(dir, "spawns.db"), cfg.ProcessLog)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := "channel_mode: socket\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	t.Setenv("HATCHERY_CHANNEL_MODE", "pipe")

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, "pipe", cfg.ChannelMode)
}

func TestLoad_InvalidValueRejected(t *testing.T) {
	dir := t.TempDir()
	content := "channel_mode: telepathy\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	_, err := NewLoader(dir).Load()
	assert.Error(t, err)
}
