package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the name searched for in the config directories.
const ConfigFile = "rope.yaml"

// Load loads the rope configuration.
// Search order: customPath -> ~/.rope/configs/rope.yaml -> ./configs/rope.yaml -> embedded default.
// Files are applied on top of DefaultRopeConfig, so they only need the keys they change.
func Load(customPath string) (RopeConfig, error) {
	cfg := DefaultRopeConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if path := UserPath("configs", ConfigFile); path != "" {
		if c, ok := tryFile(path); ok {
			return c, nil
		}
	}

	// Try local configs directory
	if c, ok := tryFile(filepath.Join("configs", ConfigFile)); ok {
		return c, nil
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultRopeYAML, &cfg); err != nil {
		return DefaultRopeConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// tryFile loads path over the defaults. Unreadable or malformed files are skipped.
func tryFile(path string) (RopeConfig, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RopeConfig{}, false
	}
	cfg := DefaultRopeConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RopeConfig{}, false
	}
	return cfg, true
}

// UserPath returns a path under ~/.rope, or empty if home is unavailable.
func UserPath(elem ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{home, ".rope"}, elem...)...)
}
