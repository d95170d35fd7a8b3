package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"regress/internal/engine"
	"regress/internal/project"
	"regress/internal/registry"
	"regress/internal/taxonomy"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	store, err := registry.NewFileStore(filepath.Join(dir, ".regress"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	cfg := &project.Config{
		Project: "proj",
		Store:   "file",
		Dir:     dir,
		Exports: map[string]string{
			string(taxonomy.KindBrowser):     filepath.Join(dir, "generated.test.js"),
			string(taxonomy.KindInterpreter): filepath.Join(dir, "test_generated.py"),
		},
	}
	return NewServer(engine.New("proj", store), cfg, "test")
}

func TestHandleReportFailure(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	_, out, err := srv.handleReportFailure(ctx, nil, reportFailureInput{
		RawText:  "fooBar is not defined",
		Category: "interpreted-runtime",
	})
	if err != nil {
		t.Fatalf("handleReportFailure: %v", err)
	}
	if out.Category != "interpreted-runtime" {
		t.Errorf("Category = %q", out.Category)
	}
	if out.FragmentName != "test_undefined_identifier_fooBar" {
		t.Errorf("FragmentName = %q", out.FragmentName)
	}
	if out.Note != "" {
		t.Errorf("Note = %q, want empty on synthesis", out.Note)
	}
}

func TestHandleReportFailure_RequiresText(t *testing.T) {
	srv := newTestServer(t)
	if _, _, err := srv.handleReportFailure(context.Background(), nil, reportFailureInput{}); err == nil {
		t.Error("empty raw_text should fail")
	}
}

func TestHandleReportFailure_CannotAutoGenerate(t *testing.T) {
	srv := newTestServer(t)
	_, out, err := srv.handleReportFailure(context.Background(), nil, reportFailureInput{
		RawText:  "Segmentation fault",
		Category: "process-crash",
	})
	if err != nil {
		t.Fatalf("handleReportFailure: %v", err)
	}
	if out.Note != "cannot auto-generate test" {
		t.Errorf("Note = %q", out.Note)
	}
	if out.FragmentName != "" {
		t.Errorf("FragmentName = %q, want none", out.FragmentName)
	}
}

func TestHandleListFailuresAndStatus(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	for _, text := range []string{
		"fooBar is not defined",
		"Segmentation fault",
	} {
		if _, _, err := srv.handleReportFailure(ctx, nil, reportFailureInput{RawText: text}); err != nil {
			t.Fatal(err)
		}
	}

	_, list, err := srv.handleListFailures(ctx, nil, listFailuresInput{})
	if err != nil {
		t.Fatalf("handleListFailures: %v", err)
	}
	if list.Total != 2 {
		t.Errorf("Total = %d, want 2", list.Total)
	}

	_, filtered, err := srv.handleListFailures(ctx, nil, listFailuresInput{Category: "process-crash"})
	if err != nil {
		t.Fatal(err)
	}
	if filtered.Total != 1 {
		t.Errorf("filtered Total = %d, want 1", filtered.Total)
	}

	_, status, err := srv.handleStatus(ctx, nil, statusInput{})
	if err != nil {
		t.Fatalf("handleStatus: %v", err)
	}
	if status.Records != 2 || status.Fragments != 1 || status.Generated != 1 {
		t.Errorf("status = %+v", status)
	}
}

func TestHandleExportTests_Idempotent(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	if _, _, err := srv.handleReportFailure(ctx, nil, reportFailureInput{
		RawText: "fooBar is not defined",
	}); err != nil {
		t.Fatal(err)
	}

	_, out, err := srv.handleExportTests(ctx, nil, exportTestsInput{})
	if err != nil {
		t.Fatalf("handleExportTests: %v", err)
	}
	if len(out.Files) != 1 {
		t.Fatalf("Files = %+v", out.Files)
	}

	data, err := os.ReadFile(out.Files[0].Path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "test_undefined_identifier_fooBar") {
		t.Errorf("export missing fragment:\n%s", data)
	}

	_, again, err := srv.handleExportTests(ctx, nil, exportTestsInput{})
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Files) != 0 || again.Note == "" {
		t.Errorf("second export should be a no-op, got %+v", again)
	}
}
