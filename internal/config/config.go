package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned by LoadLocal and LoadGlobal when no file exists.
	ErrNotFound    = errors.New("config not found")
	ErrNoConfigDir = errors.New("no config dir")
)

// FileConfig is the on-disk configuration shape for gitsecrets. Pointer
// fields distinguish "unset" from zero values so layers can be merged.
type FileConfig struct {
	Include          *string `yaml:"include,omitempty" toml:"include"`
	Exclude          *string `yaml:"exclude,omitempty" toml:"exclude"`
	MaxBytes         *int64  `yaml:"max_bytes,omitempty" toml:"max_bytes"`
	Enable           *string `yaml:"enable,omitempty" toml:"enable"`
	Disable          *string `yaml:"disable,omitempty" toml:"disable"`
	NoColor          *bool   `yaml:"no_color,omitempty" toml:"no_color"`
	VendorHeuristics *bool   `yaml:"vendor_heuristics,omitempty" toml:"vendor_heuristics"`
	FailOn           *string `yaml:"fail_on,omitempty" toml:"fail_on"`
	IgnoreFile       *string `yaml:"ignore_file,omitempty" toml:"ignore_file"`
}

// LocalNames are searched in order inside the scan root.
var LocalNames = []string{".gitsecrets.yml", ".gitsecrets.yaml", ".gitsecrets.toml", "gitsecrets.yml", "gitsecrets.yaml"}

// LoadFile reads a config file, choosing TOML or YAML by extension.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches for a repo-local config file in the given root.
func LoadLocal(repoRoot string) (FileConfig, error) {
	for _, name := range LocalNames {
		p := filepath.Join(repoRoot, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, ErrNotFound
}

// GlobalPath returns the global config location under XDG_CONFIG_HOME, or
// ~/.config when that is unset.
func GlobalPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return "", ErrNoConfigDir
	}
	return filepath.Join(base, "gitsecrets", "config.yml"), nil
}

// LoadGlobal loads the global config file.
func LoadGlobal() (FileConfig, error) {
	p, err := GlobalPath()
	if err != nil {
		return FileConfig{}, err
	}
	if _, err := os.Stat(p); err != nil {
		return FileConfig{}, ErrNotFound
	}
	return LoadFile(p)
}
