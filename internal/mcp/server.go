// Package mcp exposes the engine to an external coding assistant over the
// Model Context Protocol: report a failure, list the registry, flush
// fragments into the project's test files.
package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"regress/internal/engine"
	"regress/internal/project"
	"regress/internal/registry"
	"regress/internal/taxonomy"
)

// Server wraps the MCP SDK server around one project engine.
type Server struct {
	MCPServer *sdkmcp.Server
	Engine    *engine.Engine
	Config    *project.Config
}

// NewServer creates an MCP server bound to the given engine and config.
func NewServer(eng *engine.Engine, cfg *project.Config, version string) *Server {
	s := &Server{Engine: eng, Config: cfg}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "regress", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "report_failure",
		Description: "Report one raw failure text. Classifies it, flags similar prior failures, persists it, and attempts regression-test synthesis.",
	}, s.handleReportFailure)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_failures",
		Description: "List recorded failures grouped by category, with synthesis status.",
	}, s.handleListFailures)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "export_tests",
		Description: "Merge pending test fragments into the configured test files. Idempotent: fragments whose name already appears in a file are skipped.",
	}, s.handleExportTests)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "status",
		Description: "Summary counts for the project registry.",
	}, s.handleStatus)
}

// --- Tool input/output types ---

type reportFailureInput struct {
	RawText  string            `json:"raw_text" jsonschema:"the raw failure text to report"`
	Category string            `json:"category,omitempty" jsonschema:"taxonomy category name; omit to let the keyword classifier guess"`
	Context  map[string]string `json:"context,omitempty" jsonschema:"open key/value metadata (file, line, source)"`
}

type reportFailureOutput struct {
	RecordID     string   `json:"record_id"`
	Category     string   `json:"category"`
	Status       string   `json:"status"`
	FragmentName string   `json:"fragment_name,omitempty"`
	LintRule     string   `json:"lint_rule,omitempty"`
	SimilarIDs   []string `json:"similar_ids,omitempty"`
	Note         string   `json:"note,omitempty"`
}

type listFailuresInput struct {
	Category string `json:"category,omitempty" jsonschema:"only list this category"`
}

type failureSummary struct {
	ID            string `json:"id"`
	Category      string `json:"category"`
	Status        string `json:"status"`
	TestGenerated bool   `json:"test_generated"`
	Message       string `json:"message"`
}

type listFailuresOutput struct {
	Project  string           `json:"project"`
	Total    int              `json:"total"`
	Failures []failureSummary `json:"failures"`
}

type exportTestsInput struct{}

type exportedFile struct {
	Kind     string `json:"kind"`
	Path     string `json:"path"`
	Appended int    `json:"appended_bytes"`
}

type exportTestsOutput struct {
	Files []exportedFile `json:"files"`
	Note  string         `json:"note,omitempty"`
}

type statusInput struct{}

type statusOutput struct {
	Project     string `json:"project"`
	Records     int    `json:"records"`
	Fragments   int    `json:"fragments"`
	LintEntries int    `json:"lint_entries"`
	Generated   int    `json:"records_with_tests"`
}

// --- Tool handlers ---

func (s *Server) handleReportFailure(ctx context.Context, _ *sdkmcp.CallToolRequest, input reportFailureInput) (*sdkmcp.CallToolResult, reportFailureOutput, error) {
	if input.RawText == "" {
		return nil, reportFailureOutput{}, fmt.Errorf("raw_text is required")
	}
	outcome, err := s.Engine.ReportFailure(ctx, input.RawText, input.Category, input.Context)
	if err != nil {
		return nil, reportFailureOutput{}, fmt.Errorf("report_failure: %w", err)
	}

	out := reportFailureOutput{
		RecordID:   outcome.Record.ID,
		Category:   outcome.Record.Category,
		Status:     outcome.Record.Status,
		SimilarIDs: outcome.Record.SimilarIDs,
	}
	if outcome.Fragment != nil {
		out.FragmentName = outcome.Fragment.Name
	}
	if outcome.Lint != nil {
		out.LintRule = outcome.Lint.Rule
	}
	if outcome.Record.Status == registry.StatusNew {
		out.Note = "cannot auto-generate test"
	}
	return nil, out, nil
}

func (s *Server) handleListFailures(ctx context.Context, _ *sdkmcp.CallToolRequest, input listFailuresInput) (*sdkmcp.CallToolResult, listFailuresOutput, error) {
	listing, err := s.Engine.ListFailures(ctx)
	if err != nil {
		return nil, listFailuresOutput{}, fmt.Errorf("list_failures: %w", err)
	}

	out := listFailuresOutput{Project: s.Engine.Project}
	for _, cat := range listing.Categories {
		if input.Category != "" && cat != input.Category {
			continue
		}
		for _, rec := range listing.ByCategory[cat] {
			out.Failures = append(out.Failures, failureSummary{
				ID:            rec.ID,
				Category:      rec.Category,
				Status:        rec.Status,
				TestGenerated: rec.TestGenerated,
				Message:       rec.Message,
			})
		}
	}
	out.Total = len(out.Failures)
	return nil, out, nil
}

func (s *Server) handleExportTests(ctx context.Context, _ *sdkmcp.CallToolRequest, _ exportTestsInput) (*sdkmcp.CallToolResult, exportTestsOutput, error) {
	paths := make(map[taxonomy.TestKind]string)
	for kind, path := range s.Config.Exports {
		paths[taxonomy.TestKind(kind)] = path
	}
	results, err := s.Engine.FlushFiles(ctx, paths)
	if err != nil {
		return nil, exportTestsOutput{}, fmt.Errorf("export_tests: %w", err)
	}

	out := exportTestsOutput{}
	for _, r := range results {
		out.Files = append(out.Files, exportedFile{
			Kind:     string(r.Kind),
			Path:     r.Path,
			Appended: r.Appended,
		})
	}
	if len(out.Files) == 0 {
		out.Note = "nothing to export"
	}
	return nil, out, nil
}

func (s *Server) handleStatus(ctx context.Context, _ *sdkmcp.CallToolRequest, _ statusInput) (*sdkmcp.CallToolResult, statusOutput, error) {
	listing, err := s.Engine.ListFailures(ctx)
	if err != nil {
		return nil, statusOutput{}, fmt.Errorf("status: %w", err)
	}
	reg := listing.Registry
	out := statusOutput{
		Project:     reg.Project,
		Records:     len(reg.Records),
		Fragments:   len(reg.Fragments),
		LintEntries: len(reg.LintEntries),
	}
	for _, rec := range reg.Records {
		if rec.TestGenerated {
			out.Generated++
		}
	}
	return nil, out, nil
}
