package registry

import "context"

// DefaultDir is the default relative directory for persisted registries.
const DefaultDir = ".regress"

// Store is the persistence facade. Load never fails on a malformed persisted
// form: it recovers to a fresh registry and reports recovery via the warn
// return. Save rewrites the whole registry and bumps UpdatedAt; the only
// errors it returns are storage-medium failures, which callers must treat as
// fatal for the operation.
type Store interface {
	// Load returns the registry for the project, a fresh one if none is
	// persisted yet. warn is non-nil when a persisted form existed but
	// could not be used and was replaced by a fresh registry.
	Load(ctx context.Context, project string) (reg *Registry, warn error)
	// Save persists the registry in full.
	Save(ctx context.Context, reg *Registry) error
}
