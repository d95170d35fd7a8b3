package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ErrRevisionConflict is returned by SQLStore.Save when another writer saved
// the project since this store loaded it.
var ErrRevisionConflict = errors.New("registry: revision conflict: registry was saved by another writer")

const sqlSchemaVersion = 1

const sqlSchema = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);
CREATE TABLE IF NOT EXISTS registries (
    project    TEXT PRIMARY KEY,
    revision   INTEGER NOT NULL,
    payload    BLOB NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

// SQLStore persists registries in SQLite, one row per project holding the
// serialized aggregate plus a revision counter. Save is a compare-and-swap
// on the revision observed at Load, so a concurrent writer produces an
// explicit ErrRevisionConflict instead of a silent lost update.
type SQLStore struct {
	db *sql.DB

	mu        sync.Mutex
	revisions map[string]int64 // project -> revision observed at Load
}

// OpenSQL opens or creates the SQLite database at path, creating the parent
// directory if needed.
func OpenSQL(path string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("registry: create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("registry: open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("registry: ping sqlite: %w", err)
	}
	s := &SQLStore{db: db, revisions: make(map[string]int64)}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate() error {
	if _, err := s.db.Exec(sqlSchema); err != nil {
		return fmt.Errorf("registry: create schema: %w", err)
	}
	var v int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", sqlSchemaVersion); err != nil {
			return fmt.Errorf("registry: set schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("registry: read schema version: %w", err)
	}
	if v != sqlSchemaVersion {
		return fmt.Errorf("registry: unknown schema version %d", v)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Load returns the project's registry and remembers the row revision for the
// compare-and-swap at Save. A corrupt payload recovers to a fresh registry
// with a warning, mirroring the FileStore.
func (s *SQLStore) Load(ctx context.Context, project string) (*Registry, error) {
	var payload []byte
	var revision int64
	err := s.db.QueryRowContext(ctx,
		"SELECT payload, revision FROM registries WHERE project = ?", project,
	).Scan(&payload, &revision)
	if errors.Is(err, sql.ErrNoRows) {
		s.setRevision(project, 0)
		return New(project), nil
	}
	if err != nil {
		s.setRevision(project, 0)
		return New(project), fmt.Errorf("registry: read %q, starting fresh: %w", project, err)
	}
	var reg Registry
	if err := json.Unmarshal(payload, &reg); err != nil {
		s.setRevision(project, revision)
		return New(project), fmt.Errorf("registry: parse %q, starting fresh: %w", project, err)
	}
	s.setRevision(project, revision)
	return &reg, nil
}

// Save persists the registry, advancing the revision. Returns
// ErrRevisionConflict when the row moved since Load.
func (s *SQLStore) Save(ctx context.Context, reg *Registry) error {
	reg.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("registry: marshal %q: %w", reg.Project, err)
	}

	loaded := s.revision(reg.Project)
	now := reg.UpdatedAt.Format(time.RFC3339)

	if loaded == 0 {
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO registries(project, revision, payload, created_at, updated_at) VALUES(?, 1, ?, ?, ?)",
			reg.Project, payload, reg.CreatedAt.Format(time.RFC3339), now,
		)
		if err != nil {
			// A row appearing between Load and Save is the race the revision
			// exists to surface. Anything else is a storage failure.
			if s.rowExists(ctx, reg.Project) {
				return fmt.Errorf("%w (insert: %v)", ErrRevisionConflict, err)
			}
			return fmt.Errorf("registry: save %q: %w", reg.Project, err)
		}
		s.setRevision(reg.Project, 1)
		return nil
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE registries SET revision = revision + 1, payload = ?, updated_at = ? WHERE project = ? AND revision = ?",
		payload, now, reg.Project, loaded,
	)
	if err != nil {
		return fmt.Errorf("registry: save %q: %w", reg.Project, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("registry: save %q: %w", reg.Project, err)
	}
	if n == 0 {
		return ErrRevisionConflict
	}
	s.setRevision(reg.Project, loaded+1)
	return nil
}

func (s *SQLStore) rowExists(ctx context.Context, project string) bool {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM registries WHERE project = ?", project,
	).Scan(&n)
	return err == nil && n > 0
}

func (s *SQLStore) revision(project string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revisions[project]
}

func (s *SQLStore) setRevision(project string, rev int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revisions[project] = rev
}
