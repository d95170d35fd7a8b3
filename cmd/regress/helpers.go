package main

import (
	"fmt"
	"strings"

	"regress/internal/engine"
	"regress/internal/project"
)

// loadConfig reads the project config and applies the --project override.
func loadConfig() (*project.Config, error) {
	cfg, err := project.LoadFromPath(rootFlags.configPath)
	if err != nil {
		return nil, err
	}
	if rootFlags.project != "" {
		cfg.Project = rootFlags.project
	}
	return cfg, nil
}

// openEngine wires the configured store to an engine. The returned close
// func must be called when the command is done.
func openEngine() (*engine.Engine, *project.Config, func() error, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	store, closeStore, err := cfg.OpenStore()
	if err != nil {
		return nil, nil, nil, err
	}
	return engine.New(cfg.Project, store), cfg, closeStore, nil
}

// parseContext turns repeated key=value flags into a context map.
func parseContext(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid context pair %q (want key=value)", p)
		}
		out[k] = v
	}
	return out, nil
}
