// Package registry defines the durable per-project aggregate of recorded
// failures, synthesized test fragments, and derived lint patterns, plus the
// stores that persist it.
//
// The registry is loaded wholesale, mutated in memory, and rewritten in full
// on save. There is no locking: concurrent invocations racing on the same
// project can lose updates (last writer wins). Production use needs external
// serialization per project, or the SQL store's revision check.
package registry

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"regress/internal/taxonomy"
)

// SchemaVersion is the current persisted-form version.
const SchemaVersion = 1

// Record statuses. A record is terminal once a fragment exists for it.
const (
	StatusNew           = "new"
	StatusTestGenerated = "test-generated"
)

// FailureRecord is one reported failure. Message is immutable once recorded;
// SimilarIDs is populated at report time and never revised later.
type FailureRecord struct {
	ID              string            `json:"id"`
	Message         string            `json:"message"`
	Category        string            `json:"category"`
	Context         map[string]string `json:"context,omitempty"`
	ReportedAt      time.Time         `json:"reported_at"`
	Status          string            `json:"status"`
	DetectedPattern *taxonomy.Match   `json:"detected_pattern,omitempty"`
	SimilarIDs      []string          `json:"similar_errors,omitempty"`
	TestGenerated   bool              `json:"test_generated"`
}

// TestFragment is a generated, named unit of regression-test source.
// Name is derived deterministically from the extraction kind and first
// capture, so equivalent failures synthesize the same name.
type TestFragment struct {
	ErrorID     string            `json:"error_id"`
	Name        string            `json:"name"`
	SourceText  string            `json:"source_text"`
	TestKind    taxonomy.TestKind `json:"test_kind"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// LintPatternEntry records that a static-analysis rule should be (or
// remains) enabled for the project, for categories whose remedy is a lint
// rule rather than a runnable test.
type LintPatternEntry struct {
	ErrorID     string    `json:"error_id"`
	Rule        string    `json:"rule"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Registry is the aggregate root. It exclusively owns its records, fragments,
// and lint entries; nothing outside this core mutates them directly.
type Registry struct {
	Project       string             `json:"project"`
	SchemaVersion int                `json:"schema_version"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	Records       []FailureRecord    `json:"records"`
	Fragments     []TestFragment     `json:"fragments"`
	LintEntries   []LintPatternEntry `json:"lint_entries"`
}

// New creates an empty registry for the project, stamped with now.
func New(project string) *Registry {
	now := time.Now().UTC()
	return &Registry{
		Project:       project,
		SchemaVersion: SchemaVersion,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Record returns the failure record with the given id, or nil.
func (r *Registry) Record(id string) *FailureRecord {
	for i := range r.Records {
		if r.Records[i].ID == id {
			return &r.Records[i]
		}
	}
	return nil
}

// FragmentNamed reports whether a fragment with the given name exists.
func (r *Registry) FragmentNamed(name string) bool {
	for i := range r.Fragments {
		if r.Fragments[i].Name == name {
			return true
		}
	}
	return false
}

// NewID returns a fresh record id: millisecond timestamp plus a random
// suffix, monotonically distinguishable within a project.
func NewID() string {
	return fmt.Sprintf("err-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
