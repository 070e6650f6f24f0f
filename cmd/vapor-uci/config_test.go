package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfigOverlaysValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vapor.toml")
	require.NoError(t, os.WriteFile(path, []byte(`hash_mb = 256`+"\n"+`log_level = "DEBUG"`+"\n"), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.HashMB)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestLoadConfigMalformedFileReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vapor.toml")
	require.NoError(t, os.WriteFile(path, []byte("not valid [[[ toml"), 0o644))

	_, err := loadConfig(path)
	assert.Error(t, err)
}
