package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File represents the structure of the .loadlens configuration file.
type File struct {
	// Thresholds overrides the built-in classification boundaries.
	// Zero fields keep their defaults.
	Thresholds Thresholds `yaml:"thresholds,omitempty"`
}

// Apply overlays the file's non-zero threshold fields onto base and
// returns the result.
func (f *File) Apply(base Thresholds) Thresholds {
	if f == nil {
		return base
	}
	if f.Thresholds.DurationGoodMs > 0 {
		base.DurationGoodMs = f.Thresholds.DurationGoodMs
	}
	if f.Thresholds.DurationWarnMs > 0 {
		base.DurationWarnMs = f.Thresholds.DurationWarnMs
	}
	if f.Thresholds.ErrorRateGood > 0 {
		base.ErrorRateGood = f.Thresholds.ErrorRateGood
	}
	if f.Thresholds.ErrorRateWarn > 0 {
		base.ErrorRateWarn = f.Thresholds.ErrorRateWarn
	}
	return base
}

// LoadConfigFile loads threshold overrides from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .loadlens in the current directory
// 3. Look for .loadlens in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check current directory
	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	// Check home directory
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}
