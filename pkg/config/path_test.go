package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath_Tilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	resolved, err := ResolvePath("~/app/.env")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "app", ".env"), resolved)

	resolved, err = ResolvePath("~")
	require.NoError(t, err)
	assert.Equal(t, home, resolved)
}

func TestResolvePath_Relative(t *testing.T) {
	resolved, err := ResolvePath("drydock.yaml")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(resolved))
}

func TestResolvePath_Empty(t *testing.T) {
	_, err := ResolvePath("")
	assert.Error(t, err)
}
