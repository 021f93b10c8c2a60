package gen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFile is the optional per-project configuration file. It is looked up
// from the source file's directory upward, so one file covers a whole module.
const ConfigFile = "statekit.yaml"

// Config holds project-level generation settings.
type Config struct {
	Gen struct {
		// Suffix overrides the generated file suffix.
		Suffix string `yaml:"suffix,omitempty"`
		// Module overrides the module path in generated headers.
		Module string `yaml:"module,omitempty"`
	} `yaml:"gen"`
}

// LoadConfig finds and parses the nearest statekit.yaml above dir. A missing
// file yields a zero Config; a malformed one is an error.
func LoadConfig(dir string) (Config, error) {
	var cfg Config

	path, err := findConfig(dir)
	if err != nil || path == "" {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("gen: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("gen: parse %s: %w", path, err)
	}
	return cfg, nil
}

func findConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		path := filepath.Join(dir, ConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Apply overlays cfg onto opts, leaving explicit flags untouched.
func (c Config) Apply(opts Options) Options {
	if opts.Suffix == "" {
		opts.Suffix = c.Gen.Suffix
	}
	if opts.Module == "" {
		opts.Module = c.Gen.Module
	}
	return opts
}
