// Package config loads editor-wide settings from a YAML file on disk,
// following the reference multiplexer's convention of a small, flat
// settings struct with sane defaults when no file is present.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings is the editor's persisted configuration.
type Settings struct {
	ControlPath   string `yaml:"controlPath"`
	ListenAddr    string `yaml:"listenAddr"`
	Domain        string `yaml:"domain"`
	TLSEmail      string `yaml:"tlsEmail"`
	EnableTLS     bool   `yaml:"enableTLS"`
	NgrokAuth     string `yaml:"ngrokAuthToken"`
	EnableTunnel  bool   `yaml:"enableTunnel"`
	PickerMaxDepth int   `yaml:"pickerMaxDepth"`
}

// Default returns the settings used when no config file exists.
func Default() Settings {
	home, _ := os.UserHomeDir()
	return Settings{
		ControlPath:    filepath.Join(home, ".vtcore", "control"),
		ListenAddr:     ":4020",
		PickerMaxDepth: 0,
	}
}

// Load reads settings from path, falling back to Default for any field the
// file omits. A missing file is not an error; it yields Default().
func Load(path string) (Settings, error) {
	settings := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return settings, nil
}

// Save writes settings to path as YAML, creating parent directories as
// needed.
func Save(path string, settings Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
