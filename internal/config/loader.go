package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the BoloBall configuration.
// Search order: customPath -> ~/.boloball/configs/boloball.yaml ->
// ./configs/boloball.yaml -> embedded default.
//
// Files are decoded on top of DefaultBoloConfig, so a file only needs the
// keys it wants to change. Only an unreadable or malformed customPath is an
// error; the other locations are skipped when absent or broken.
func Load(customPath string) (BoloConfig, error) {
	if customPath != "" {
		cfg := DefaultBoloConfig()
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: cannot read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: cannot parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{
		userConfigPath("boloball.yaml"),
		filepath.Join("configs", "boloball.yaml"),
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		cfg := DefaultBoloConfig()
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	cfg := DefaultBoloConfig()
	if err := yaml.Unmarshal(defaultBoloYAML, &cfg); err != nil {
		return DefaultBoloConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".boloball", "configs", filename)
}
