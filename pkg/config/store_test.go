package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureConfigDir(t *testing.T) {
	store := NewStoreWithPath(filepath.Join(t.TempDir(), DefaultConfigDir))

	require.NoError(t, store.EnsureConfigDir())

	assert.DirExists(t, store.Dir())
	assert.DirExists(t, store.SecretsDir())
	assert.DirExists(t, store.DeploysDir())

	if runtime.GOOS != "windows" {
		info, err := os.Stat(store.SecretsDir())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
	}
}

func TestLoadGlobalConfig_MissingFileReturnsDefaults(t *testing.T) {
	store := NewStoreWithPath(t.TempDir())

	cfg, err := store.LoadGlobalConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultGlobalConfig(), cfg)
}

func TestSaveAndLoadGlobalConfig(t *testing.T) {
	store := NewStoreWithPath(filepath.Join(t.TempDir(), DefaultConfigDir))

	cfg := DefaultGlobalConfig()
	cfg.Defaults.Namespace = "bots"
	cfg.Defaults.DotenvFiles = []string{"~/.drydock/.env"}
	require.NoError(t, store.SaveGlobalConfig(cfg))

	loaded, err := store.LoadGlobalConfig()
	require.NoError(t, err)
	assert.Equal(t, "bots", loaded.Defaults.Namespace)
	assert.Equal(t, []string{"~/.drydock/.env"}, loaded.Defaults.DotenvFiles)

	// Unset fields come back merged over defaults
	assert.Equal(t, "python:3.11-slim", loaded.Defaults.Images["python"])
}

func TestLoadGlobalConfig_PartialFileMergesDefaults(t *testing.T) {
	dir := t.TempDir()
	store := NewStoreWithPath(dir)

	partial := []byte("defaults:\n  namespace: staging\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, GlobalConfigFile), partial, 0o600))

	cfg, err := store.LoadGlobalConfig()
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Defaults.Namespace)
	assert.Equal(t, 3, cfg.Local.MaxRestarts)
}

func TestLoadGlobalConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	store := NewStoreWithPath(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, GlobalConfigFile), []byte("{invalid"), 0o600))

	_, err := store.LoadGlobalConfig()
	assert.Error(t, err)
}
