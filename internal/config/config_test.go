package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/sysmond/internal/config"
	"codeberg.org/mutker/sysmond/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
interval = 500
log_level = "debug"
recording = true
database = "/path/to/samples.db"
`)
	configPath := filepath.Join(tempDir, "sysmond.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("SYSMOND_CONFIG", configPath)

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Interval, "Expected Interval 500")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
	assert.True(t, cfg.Recording, "Expected Recording true")
	assert.Equal(t, "/path/to/samples.db", cfg.Database, "Expected Database /path/to/samples.db")
	assert.Equal(t, 500*time.Millisecond, cfg.SamplingInterval())
}

func TestLoadDefaults(t *testing.T) {
	// Ensure no config file is used
	t.Setenv("SYSMOND_CONFIG", "")

	cfg, err := config.Load(nil)
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, 1000, cfg.Interval, "Expected default Interval 1000")
	assert.Equal(t, "info", cfg.LogLevel, "Expected default LogLevel info")
	assert.False(t, cfg.Recording, "Expected default Recording false")
	assert.Empty(t, cfg.Database, "Expected default Database empty")
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
This is not a valid TOML file
`)
	configPath := filepath.Join(tempDir, "sysmond.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("SYSMOND_CONFIG", configPath)

	_, err = config.Load(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestInvalidLogLevel(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
log_level = "invalid"
`)
	configPath := filepath.Join(tempDir, "sysmond.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("SYSMOND_CONFIG", configPath)

	_, err = config.Load(nil)
	require.Error(t, err)

	var appErr errors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, errors.ErrInvalidLogLevel, appErr.Code())
}

func TestIntervalBelowMinimum(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
interval = 10
`)
	configPath := filepath.Join(tempDir, "sysmond.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("SYSMOND_CONFIG", configPath)

	_, err = config.Load(nil)
	require.Error(t, err)

	var appErr errors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, errors.ErrInvalidInterval, appErr.Code())
}

func TestFlagsOverrideFile(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
interval = 500
log_level = "error"
`)
	configPath := filepath.Join(tempDir, "sysmond.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	t.Setenv("SYSMOND_CONFIG", configPath)

	cfg, err := config.Load([]string{"--log-level", "debug", "--interval", "250"})
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
	assert.Equal(t, 250, cfg.Interval, "Expected Interval to be set by flag")
}

func TestConfigFlagSelectsFile(t *testing.T) {
	tempDir := t.TempDir()

	configContent := []byte(`
interval = 750
`)
	configPath := filepath.Join(tempDir, "custom.toml")
	err := os.WriteFile(configPath, configContent, 0o600)
	require.NoError(t, err)

	cfg, err := config.Load([]string{"--config", configPath})
	require.NoError(t, err)

	assert.Equal(t, 750, cfg.Interval)
}
