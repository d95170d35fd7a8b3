// Package engine is the core facade: report a failure, list the registry,
// export fragments. Each operation loads the registry once, mutates it in
// memory, and saves it once at the end. Failures inside the engine degrade
// to "no automated action possible" and are recorded as data; only
// storage-medium failures on save propagate.
package engine

import (
	"context"
	"sort"
	"time"

	"regress/internal/classify"
	"regress/internal/export"
	"regress/internal/logging"
	"regress/internal/registry"
	"regress/internal/similar"
	"regress/internal/synth"
	"regress/internal/taxonomy"
)

// Engine binds a project to a registry store.
type Engine struct {
	Project string
	Store   registry.Store
}

// New returns an engine for the project backed by store.
func New(project string, store registry.Store) *Engine {
	return &Engine{Project: project, Store: store}
}

// ReportOutcome is what one ReportFailure invocation produced.
type ReportOutcome struct {
	Record   registry.FailureRecord
	Fragment *registry.TestFragment
	Lint     *registry.LintPatternEntry
}

// ReportFailure classifies, deduplicates, persists, and attempts synthesis
// for one raw failure text. An empty category is filled by the keyword
// classifier; an unrecognized category is stored as the unknown sentinel
// with no detection attempted. The fixed order is detection, similarity
// lookup, record persistence, synthesis.
func (e *Engine) ReportFailure(ctx context.Context, rawText, category string, reportCtx map[string]string) (*ReportOutcome, error) {
	logger := logging.New("engine")

	reg, warn := e.Store.Load(ctx, e.Project)
	if warn != nil {
		logger.Warn("registry recovered", "project", e.Project, "err", warn)
	}

	if category == "" {
		category = classify.Guess(rawText)
	}
	if _, ok := taxonomy.Lookup(category); !ok {
		if category != "" {
			logger.Warn("unrecognized category, storing as unknown", "category", category)
		}
		category = taxonomy.CategoryUnknown
	}

	match := taxonomy.Detect(rawText, category)

	queryTokens := similar.Tokens(rawText)
	var similarIDs []string
	for i := range reg.Records {
		if similar.Matches(queryTokens, reg.Records[i].Message) {
			similarIDs = append(similarIDs, reg.Records[i].ID)
		}
	}

	now := time.Now().UTC()
	rec := registry.FailureRecord{
		ID:              registry.NewID(),
		Message:         rawText,
		Category:        category,
		Context:         reportCtx,
		ReportedAt:      now,
		Status:          registry.StatusNew,
		DetectedPattern: match,
		SimilarIDs:      similarIDs,
	}

	outcome := synth.Synthesize(&rec, now)
	if !outcome.Empty() {
		rec.TestGenerated = true
		rec.Status = registry.StatusTestGenerated
	} else if match != nil {
		logger.Info("cannot auto-generate test", "category", category, "kind", match.Kind)
	}

	reg.Records = append(reg.Records, rec)
	if outcome.Fragment != nil && !reg.FragmentNamed(outcome.Fragment.Name) {
		reg.Fragments = append(reg.Fragments, *outcome.Fragment)
	}
	if outcome.Lint != nil {
		reg.LintEntries = append(reg.LintEntries, *outcome.Lint)
	}

	if err := e.Store.Save(ctx, reg); err != nil {
		return nil, err
	}

	return &ReportOutcome{
		Record:   rec,
		Fragment: outcome.Fragment,
		Lint:     outcome.Lint,
	}, nil
}

// Listing is a read-only view of the registry grouped by category.
type Listing struct {
	Registry   *registry.Registry
	Categories []string                            // sorted category names present
	ByCategory map[string][]registry.FailureRecord // category -> records in report order
}

// ListFailures loads the registry and groups records by category.
func (e *Engine) ListFailures(ctx context.Context) (*Listing, error) {
	logger := logging.New("engine")
	reg, warn := e.Store.Load(ctx, e.Project)
	if warn != nil {
		logger.Warn("registry recovered", "project", e.Project, "err", warn)
	}

	byCat := make(map[string][]registry.FailureRecord)
	for _, rec := range reg.Records {
		byCat[rec.Category] = append(byCat[rec.Category], rec)
	}
	cats := make([]string, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	return &Listing{Registry: reg, Categories: cats, ByCategory: byCat}, nil
}

// ExportFragments returns, per test kind, the text to append to that kind's
// test file so every fragment name appears exactly once. Kinds with nothing
// to append are absent from the result. The registry itself is not mutated:
// idempotence comes from the name check against the existing file text.
func (e *Engine) ExportFragments(ctx context.Context, existingByKind map[taxonomy.TestKind]string) (map[taxonomy.TestKind]string, error) {
	logger := logging.New("engine")
	reg, warn := e.Store.Load(ctx, e.Project)
	if warn != nil {
		logger.Warn("registry recovered", "project", e.Project, "err", warn)
	}

	out := make(map[taxonomy.TestKind]string)
	for _, kind := range export.Kinds() {
		appended := export.Append(kind, reg.Fragments, existingByKind[kind])
		if appended != "" {
			out[kind] = appended
		}
	}
	return out, nil
}
