package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadConfigFile merges a YAML file over cfg in place. Fields absent from
// the file keep their current values.
func LoadConfigFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// FindConfigFile searches the standard locations for a config file.
// Returns empty string if none exists (non-fatal).
func FindConfigFile() string {
	locations := []string{
		"./dubmix.yaml",
		"./dubmix.yml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations,
			filepath.Join(home, ".config", "dubmix", "config.yaml"),
			filepath.Join(home, ".config", "dubmix", "config.yml"),
		)
	}
	locations = append(locations, "/etc/dubmix/config.yaml")

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// SaveConfigFile writes cfg to a YAML file, creating parent directories.
func SaveConfigFile(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
