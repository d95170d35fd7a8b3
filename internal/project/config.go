// Package project loads per-project configuration: which registry backend to
// use, where exports land, and which pages the smoke collector visits.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"regress/internal/registry"
	"regress/internal/taxonomy"
)

// DefaultConfigPath is where the CLI looks when --config is not given.
const DefaultConfigPath = ".regress.yaml"

// Config selects the project registry and the export targets.
type Config struct {
	Project string            `yaml:"project" json:"project"`
	Store   string            `yaml:"store,omitempty" json:"store,omitempty"` // "file" (default) or "sqlite"
	Dir     string            `yaml:"dir,omitempty" json:"dir,omitempty"`
	Exports map[string]string `yaml:"exports,omitempty" json:"exports,omitempty"` // test kind -> file path
	Smoke   SmokeConfig       `yaml:"smoke,omitempty" json:"smoke,omitempty"`
}

// SmokeConfig configures the browser failure collector.
type SmokeConfig struct {
	Targets    []string `yaml:"targets,omitempty" json:"targets,omitempty"`
	Parallel   int      `yaml:"parallel,omitempty" json:"parallel,omitempty"`
	TimeoutSec int      `yaml:"timeout_sec,omitempty" json:"timeout_sec,omitempty"`
}

// Default returns the configuration used when no file exists: a file-backed
// registry under .regress, named after the working directory.
func Default() *Config {
	project := "default"
	if cwd, err := os.Getwd(); err == nil {
		project = filepath.Base(cwd)
	}
	return &Config{
		Project: project,
		Store:   "file",
		Dir:     registry.DefaultDir,
		Exports: map[string]string{
			string(taxonomy.KindBrowser):     "tests/generated.test.js",
			string(taxonomy.KindInterpreter): "tests/test_generated.py",
		},
	}
}

// LoadFromPath reads a config file (YAML or JSON) and fills defaults for
// absent fields. A missing file yields the defaults.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("project: read config: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses config from bytes. ext is the file extension for format hint;
// empty means detect from content (JSON if it starts with '{', else YAML).
func Load(data []byte, ext string) (*Config, error) {
	cfg := Default()

	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	asJSON := ext == ".json"
	if ext == "" {
		asJSON = strings.HasPrefix(strings.TrimSpace(string(data)), "{")
	}

	if asJSON {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("project: parse config json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("project: parse config yaml: %w", err)
		}
	}

	if cfg.Project == "" {
		cfg.Project = Default().Project
	}
	if cfg.Store == "" {
		cfg.Store = "file"
	}
	if cfg.Dir == "" {
		cfg.Dir = registry.DefaultDir
	}
	if cfg.Exports == nil {
		cfg.Exports = Default().Exports
	}
	return cfg, nil
}

// OpenStore opens the registry store the config selects. The caller must
// call the returned close func when done (a no-op for the file store).
func (c *Config) OpenStore() (registry.Store, func() error, error) {
	switch c.Store {
	case "", "file":
		fs, err := registry.NewFileStore(c.Dir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() error { return nil }, nil
	case "sqlite":
		ss, err := registry.OpenSQL(filepath.Join(c.Dir, "registry.db"))
		if err != nil {
			return nil, nil, err
		}
		return ss, ss.Close, nil
	default:
		return nil, nil, fmt.Errorf("project: unknown store %q (supported: file, sqlite)", c.Store)
	}
}

// ExportPath returns the configured file for a test kind, or "" when the
// kind has no export target.
func (c *Config) ExportPath(kind taxonomy.TestKind) string {
	return c.Exports[string(kind)]
}
