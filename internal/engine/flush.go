package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"regress/internal/logging"
	"regress/internal/taxonomy"
)

// FlushResult describes one touched export file.
type FlushResult struct {
	Kind     taxonomy.TestKind
	Path     string
	Appended int // bytes appended
}

// FlushFiles merges pending fragments into the given per-kind test files.
// An unreadable target is treated as having no existing content, so export
// proceeds; a missing file is created. Only write failures abort.
func (e *Engine) FlushFiles(ctx context.Context, paths map[taxonomy.TestKind]string) ([]FlushResult, error) {
	logger := logging.New("engine")

	existing := make(map[taxonomy.TestKind]string)
	for kind, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			logger.Warn("export target unreadable, treating as empty", "path", path, "err", err)
		}
		existing[kind] = string(data)
	}

	appended, err := e.ExportFragments(ctx, existing)
	if err != nil {
		return nil, err
	}

	var results []FlushResult
	for kind, text := range appended {
		path := paths[kind]
		if path == "" {
			logger.Warn("fragments pending but no export path configured", "kind", kind)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return results, fmt.Errorf("engine: create export dir: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return results, fmt.Errorf("engine: open export file %q: %w", path, err)
		}
		if _, err := f.WriteString(text); err != nil {
			_ = f.Close()
			return results, fmt.Errorf("engine: append to %q: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return results, fmt.Errorf("engine: close %q: %w", path, err)
		}
		results = append(results, FlushResult{Kind: kind, Path: path, Appended: len(text)})
	}
	return results, nil
}
