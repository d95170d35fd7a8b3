package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"regress/internal/registry"
	"regress/internal/taxonomy"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	store, err := registry.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return New("proj", store)
}

func TestReportFailure_SynthesizesBrowserCheck(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	outcome, err := eng.ReportFailure(ctx, "fooBar is not defined", "interpreted-runtime", map[string]string{"file": "init.js"})
	if err != nil {
		t.Fatalf("ReportFailure: %v", err)
	}

	rec := outcome.Record
	if rec.Category != "interpreted-runtime" {
		t.Errorf("Category = %q", rec.Category)
	}
	if rec.DetectedPattern == nil || rec.DetectedPattern.Kind != taxonomy.UndefinedIdentifier {
		t.Errorf("DetectedPattern = %+v", rec.DetectedPattern)
	}
	if !rec.TestGenerated || rec.Status != registry.StatusTestGenerated {
		t.Errorf("record not marked generated: %+v", rec)
	}
	if outcome.Fragment == nil || outcome.Fragment.Name != "test_undefined_identifier_fooBar" {
		t.Errorf("Fragment = %+v", outcome.Fragment)
	}

	// Persisted state must match.
	listing, err := eng.ListFailures(ctx)
	if err != nil {
		t.Fatalf("ListFailures: %v", err)
	}
	if len(listing.Registry.Records) != 1 || len(listing.Registry.Fragments) != 1 {
		t.Errorf("persisted counts = %d records, %d fragments",
			len(listing.Registry.Records), len(listing.Registry.Fragments))
	}
}

func TestReportFailure_GuessesCategory(t *testing.T) {
	eng := newTestEngine(t)
	outcome, err := eng.ReportFailure(context.Background(),
		"ModuleNotFoundError: No module named 'requests'", "", nil)
	if err != nil {
		t.Fatalf("ReportFailure: %v", err)
	}
	if outcome.Record.Category != "module-import" {
		t.Errorf("Category = %q, want module-import", outcome.Record.Category)
	}
	if outcome.Fragment == nil || outcome.Fragment.TestKind != taxonomy.KindInterpreter {
		t.Errorf("Fragment = %+v", outcome.Fragment)
	}
}

func TestReportFailure_UnknownCategoryRoundTrip(t *testing.T) {
	eng := newTestEngine(t)
	outcome, err := eng.ReportFailure(context.Background(),
		"something odd happened in the flux capacitor", "totally-unrecognized", nil)
	if err != nil {
		t.Fatalf("ReportFailure must not fail on unknown category: %v", err)
	}
	rec := outcome.Record
	if rec.Category != taxonomy.CategoryUnknown {
		t.Errorf("Category = %q, want %q", rec.Category, taxonomy.CategoryUnknown)
	}
	if rec.DetectedPattern != nil {
		t.Errorf("DetectedPattern = %+v, want nil", rec.DetectedPattern)
	}
	if rec.TestGenerated || rec.Status != registry.StatusNew {
		t.Errorf("unknown-category record must stay new: %+v", rec)
	}
}

func TestReportFailure_ProcessCrashStaysNew(t *testing.T) {
	eng := newTestEngine(t)
	outcome, err := eng.ReportFailure(context.Background(), "Segmentation fault", "process-crash", nil)
	if err != nil {
		t.Fatalf("ReportFailure: %v", err)
	}
	rec := outcome.Record
	if rec.DetectedPattern == nil || rec.DetectedPattern.Kind != taxonomy.SegFault {
		t.Errorf("segfault should be recognized: %+v", rec.DetectedPattern)
	}
	if outcome.Fragment != nil || outcome.Lint != nil {
		t.Error("process crashes have no safe automated reproduction")
	}
	if rec.TestGenerated || rec.Status != registry.StatusNew {
		t.Errorf("record must stay new: %+v", rec)
	}
}

func TestReportFailure_LintEntryForSyntaxClass(t *testing.T) {
	eng := newTestEngine(t)
	outcome, err := eng.ReportFailure(context.Background(),
		"SyntaxError: Unexpected token '}'", "interpreted-syntax", nil)
	if err != nil {
		t.Fatalf("ReportFailure: %v", err)
	}
	if outcome.Lint == nil {
		t.Fatal("expected a lint entry")
	}
	if outcome.Fragment != nil {
		t.Error("syntax class must not emit a runnable fragment")
	}
	if !outcome.Record.TestGenerated {
		t.Error("a lint entry counts as a successful synthesis attempt")
	}
}

func TestReportFailure_SimilarFlaggedAtReportTime(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	first, err := eng.ReportFailure(ctx, "fooBar is not defined in init.js", "interpreted-runtime", nil)
	if err != nil {
		t.Fatalf("first report: %v", err)
	}
	second, err := eng.ReportFailure(ctx, "fooBar is not defined in main.js", "interpreted-runtime", nil)
	if err != nil {
		t.Fatalf("second report: %v", err)
	}

	if len(second.Record.SimilarIDs) != 1 || second.Record.SimilarIDs[0] != first.Record.ID {
		t.Errorf("second.SimilarIDs = %v, want [%s]", second.Record.SimilarIDs, first.Record.ID)
	}
	// The first record was flagged at its own report time and is never
	// revised later.
	listing, _ := eng.ListFailures(ctx)
	if got := listing.Registry.Record(first.Record.ID); len(got.SimilarIDs) != 0 {
		t.Errorf("first record must not be revised, SimilarIDs = %v", got.SimilarIDs)
	}
}

func TestReportFailure_EquivalentFailuresShareOneFragment(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	if _, err := eng.ReportFailure(ctx, "fooBar is not defined", "interpreted-runtime", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.ReportFailure(ctx, "Uncaught ReferenceError: fooBar is not defined", "interpreted-runtime", nil); err != nil {
		t.Fatal(err)
	}

	listing, _ := eng.ListFailures(ctx)
	if len(listing.Registry.Records) != 2 {
		t.Errorf("records = %d, want 2", len(listing.Registry.Records))
	}
	if len(listing.Registry.Fragments) != 1 {
		t.Errorf("fragments = %d, want 1 (same deterministic name)", len(listing.Registry.Fragments))
	}
}

func TestListFailures_GroupsByCategory(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	reports := []struct{ text, cat string }{
		{"fooBar is not defined", "interpreted-runtime"},
		{"Segmentation fault", "process-crash"},
		{"bazQux is not defined", "interpreted-runtime"},
	}
	for _, r := range reports {
		if _, err := eng.ReportFailure(ctx, r.text, r.cat, nil); err != nil {
			t.Fatal(err)
		}
	}

	listing, err := eng.ListFailures(ctx)
	if err != nil {
		t.Fatalf("ListFailures: %v", err)
	}
	if len(listing.Categories) != 2 {
		t.Fatalf("Categories = %v", listing.Categories)
	}
	if got := len(listing.ByCategory["interpreted-runtime"]); got != 2 {
		t.Errorf("interpreted-runtime count = %d, want 2", got)
	}
}

func TestExportFragments_Idempotent(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	if _, err := eng.ReportFailure(ctx, "fooBar is not defined", "interpreted-runtime", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := eng.ReportFailure(ctx, "ModuleNotFoundError: No module named 'requests'", "module-import", nil); err != nil {
		t.Fatal(err)
	}

	first, err := eng.ExportFragments(ctx, nil)
	if err != nil {
		t.Fatalf("ExportFragments: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("kinds exported = %d, want 2", len(first))
	}

	// Feeding the appended text back as existing content must yield nothing.
	second, err := eng.ExportFragments(ctx, first)
	if err != nil {
		t.Fatalf("second ExportFragments: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("second export should be empty, got %v", second)
	}
}

func TestFlushFiles_AppendsOnceAcrossRuns(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()
	dir := t.TempDir()
	paths := map[taxonomy.TestKind]string{
		taxonomy.KindBrowser: filepath.Join(dir, "generated.test.js"),
	}

	if _, err := eng.ReportFailure(ctx, "fooBar is not defined", "interpreted-runtime", nil); err != nil {
		t.Fatal(err)
	}

	results, err := eng.FlushFiles(ctx, paths)
	if err != nil {
		t.Fatalf("FlushFiles: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %+v", results)
	}

	after1, err := os.ReadFile(paths[taxonomy.KindBrowser])
	if err != nil {
		t.Fatalf("read exported file: %v", err)
	}
	if !strings.Contains(string(after1), "test_undefined_identifier_fooBar") {
		t.Errorf("exported file missing fragment:\n%s", after1)
	}

	// Exporting twice in succession yields the same file as exporting once.
	results, err = eng.FlushFiles(ctx, paths)
	if err != nil {
		t.Fatalf("second FlushFiles: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("second flush should touch nothing, got %+v", results)
	}
	after2, _ := os.ReadFile(paths[taxonomy.KindBrowser])
	if string(after1) != string(after2) {
		t.Error("file changed on second export")
	}
}
