package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"sigs.k8s.io/yaml"
)

// DefaultDir is the configuration directory used when none is given.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", AppDirName)
	}
	return filepath.Join(dir, AppDirName)
}

// Load loads the configuration from the directory.
func Load(path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	configContents, err := os.ReadFile(filepath.Join(path, ConfigurationName))
	if err != nil {
		return nil, err
	}
	var out Configuration
	if err := yaml.UnmarshalStrict(configContents, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ConfigurationName, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigurationName, err)
	}
	out.configurationDir = path
	return &out, nil
}

// LoadOrDefault loads the configuration from the directory, falling back to
// the built-in defaults if the directory has none.
func LoadOrDefault(path string) (*Configuration, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg = defaultConfig()
		if filepath.Base(path) == ConfigurationName {
			path = filepath.Dir(path)
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		cfg.configurationDir = path
		return cfg, nil
	}
	return cfg, err
}

// Initialize writes the default configuration to dir unless one already
// exists, then loads it.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}

	configPath := filepath.Join(dir, ConfigurationName)
	switch _, err := os.Stat(configPath); {
	case err == nil:
		logger.Printf("%s already exists, leaving it in place", configPath)
	case errors.Is(err, fs.ErrNotExist):
		logger.Printf("writing %s", configPath)
		if err := os.WriteFile(configPath, defaultConfigData, 0600); err != nil {
			return nil, fmt.Errorf("write config: %w", err)
		}
	default:
		return nil, err
	}

	return Load(dir)
}
