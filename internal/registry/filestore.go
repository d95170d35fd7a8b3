package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileStore persists one JSON document per project under Dir.
// Saves go through a temp file and rename so a crash mid-write never leaves
// a truncated registry behind. It offers no protection against two processes
// saving the same project concurrently.
type FileStore struct {
	Dir string
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("registry: create store dir: %w", err)
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) path(project string) string {
	return filepath.Join(s.Dir, project+".json")
}

// Load reads the project's registry. A missing file yields a fresh registry
// with no warning; an unreadable or unparseable file yields a fresh registry
// plus a warning describing what was discarded.
func (s *FileStore) Load(_ context.Context, project string) (*Registry, error) {
	data, err := os.ReadFile(s.path(project))
	if errors.Is(err, os.ErrNotExist) {
		return New(project), nil
	}
	if err != nil {
		return New(project), fmt.Errorf("registry: read %q, starting fresh: %w", project, err)
	}
	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return New(project), fmt.Errorf("registry: parse %q, starting fresh: %w", project, err)
	}
	if reg.Project == "" {
		reg.Project = project
	}
	return &reg, nil
}

// Save rewrites the project's registry in full and bumps UpdatedAt.
func (s *FileStore) Save(_ context.Context, reg *Registry) error {
	reg.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("registry: marshal %q: %w", reg.Project, err)
	}
	path := s.path(reg.Project)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("registry: write %q: %w", reg.Project, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("registry: replace %q: %w", reg.Project, err)
	}
	return nil
}

// List returns the project names with a persisted registry.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("registry: list: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if filepath.Ext(name) != ".json" {
			continue
		}
		names = append(names, name[:len(name)-len(".json")])
	}
	return names, nil
}
