package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CATNIP_CONFIG_DIR", t.TempDir())
	t.Setenv("CATNIP_URL", "")
	t.Setenv("CATNIP_HOST", "")

	rc, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, rc.ServerURL)
	assert.Equal(t, filepath.Join(rc.ConfigDir, "tui.log"), rc.LogFile)
}

func TestServerURLPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CATNIP_CONFIG_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.yaml"),
		[]byte("server_url: http://from-settings:6369\n"), 0o644))

	t.Run("settings file when no env", func(t *testing.T) {
		t.Setenv("CATNIP_URL", "")
		t.Setenv("CATNIP_HOST", "")
		rc, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "http://from-settings:6369", rc.ServerURL)
	})

	t.Run("CATNIP_HOST beats settings", func(t *testing.T) {
		t.Setenv("CATNIP_URL", "")
		t.Setenv("CATNIP_HOST", "myserver:6369")
		rc, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "http://myserver:6369", rc.ServerURL)
	})

	t.Run("CATNIP_URL beats everything", func(t *testing.T) {
		t.Setenv("CATNIP_URL", "https://catnip.example.com/")
		t.Setenv("CATNIP_HOST", "myserver:6369")
		rc, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "https://catnip.example.com", rc.ServerURL)
	})
}

func TestNormalizeServerURL(t *testing.T) {
	assert.Equal(t, "http://localhost:6369", normalizeServerURL("localhost:6369"))
	assert.Equal(t, "https://catnip.example.com", normalizeServerURL("https://catnip.example.com/"))
	assert.Equal(t, "http://10.0.0.2:8080", normalizeServerURL("http://10.0.0.2:8080"))
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CATNIP_CONFIG_DIR", dir)
	t.Setenv("CATNIP_URL", "")
	t.Setenv("CATNIP_HOST", "")

	rc, err := Load()
	require.NoError(t, err)

	rc.Settings.ServerURL = "http://saved:6369"
	rc.Settings.Theme = "dark"
	require.NoError(t, rc.SaveSettings())

	reloaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://saved:6369", reloaded.ServerURL)
	assert.Equal(t, "dark", reloaded.Settings.Theme)
}
