// Package config resolves where the client stores its state and which
// Catnip server it talks to.
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v2"
)

// DefaultServerURL is used when neither the environment nor the settings
// file names a server.
const DefaultServerURL = "http://localhost:6369"

// Settings is the persisted portion of the configuration, stored at
// ~/.catnip/settings.yaml.
type Settings struct {
	ServerURL string `yaml:"server_url,omitempty"`
	Theme     string `yaml:"theme,omitempty"`
}

// RuntimeConfig holds the resolved runtime configuration for one run.
type RuntimeConfig struct {
	ServerURL string
	ConfigDir string
	LogFile   string
	Settings  Settings
}

// Load resolves the runtime configuration. Precedence for the server URL:
// CATNIP_URL env, then CATNIP_HOST env (host:port shorthand), then the
// settings file, then DefaultServerURL.
func Load() (*RuntimeConfig, error) {
	configDir := resolveConfigDir()
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, err
	}

	rc := &RuntimeConfig{
		ConfigDir: configDir,
		LogFile:   filepath.Join(configDir, "tui.log"),
	}

	if settings, err := readSettings(rc.settingsPath()); err == nil {
		rc.Settings = settings
	}

	rc.ServerURL = resolveServerURL(rc.Settings)
	if _, err := url.Parse(rc.ServerURL); err != nil {
		return nil, err
	}
	return rc, nil
}

func resolveConfigDir() string {
	if dir := os.Getenv("CATNIP_CONFIG_DIR"); dir != "" {
		return dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
		if homeDir == "" {
			homeDir = "."
		}
	}
	return filepath.Join(homeDir, ".catnip")
}

func resolveServerURL(settings Settings) string {
	if raw := os.Getenv("CATNIP_URL"); raw != "" {
		return normalizeServerURL(raw)
	}
	if host := os.Getenv("CATNIP_HOST"); host != "" {
		return normalizeServerURL(host)
	}
	if settings.ServerURL != "" {
		return normalizeServerURL(settings.ServerURL)
	}
	return DefaultServerURL
}

// normalizeServerURL accepts both full URLs and host:port shorthand.
func normalizeServerURL(raw string) string {
	raw = strings.TrimRight(raw, "/")
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "http://" + raw
}

func (rc *RuntimeConfig) settingsPath() string {
	return filepath.Join(rc.ConfigDir, "settings.yaml")
}

func readSettings(path string) (Settings, error) {
	var settings Settings
	data, err := os.ReadFile(path)
	if err != nil {
		return settings, err
	}
	err = yaml.Unmarshal(data, &settings)
	return settings, err
}

// SaveSettings writes the current settings back to the settings file.
func (rc *RuntimeConfig) SaveSettings() error {
	data, err := yaml.Marshal(&rc.Settings)
	if err != nil {
		return err
	}
	return os.WriteFile(rc.settingsPath(), data, 0o644)
}
