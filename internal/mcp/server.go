package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/aditamento-extractor/internal/app"
	"github.com/a3tai/aditamento-extractor/internal/config"
	"github.com/a3tai/aditamento-extractor/internal/descriptions"
	"github.com/a3tai/aditamento-extractor/internal/export"
	"github.com/a3tai/aditamento-extractor/internal/report"
	"github.com/a3tai/aditamento-extractor/internal/source"
	"github.com/a3tai/aditamento-extractor/internal/terms"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *app.Service
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *app.Service, logger *slog.Logger) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		service:   service,
		mcpServer: mcpServer,
		logger:    logger,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	formatOption := mcp.WithString("format",
		mcp.Description("Output format: 'table' (default), 'csv' or 'txt'"),
		mcp.Enum("table", "csv", "txt"),
	)

	s.mcpServer.AddTool(mcp.NewTool(
		"aditamento_list_remote",
		mcp.WithDescription(descriptions.GetToolDescription("aditamento_list_remote")),
	), s.handleListRemote)

	s.mcpServer.AddTool(mcp.NewTool(
		"aditamento_extract_remote",
		mcp.WithDescription(descriptions.GetToolDescription("aditamento_extract_remote")),
		mcp.WithString("names",
			mcp.Description("Comma-separated remote document names (defaults to all)"),
		),
		formatOption,
	), s.handleExtractRemote)

	s.mcpServer.AddTool(mcp.NewTool(
		"aditamento_extract_files",
		mcp.WithDescription(descriptions.GetToolDescription("aditamento_extract_files")),
		mcp.WithString("paths",
			mcp.Required(),
			mcp.Description("Comma-separated PDF paths inside the configured directory"),
		),
		formatOption,
	), s.handleExtractFiles)

	s.mcpServer.AddTool(mcp.NewTool(
		"aditamento_search_directory",
		mcp.WithDescription(descriptions.GetToolDescription("aditamento_search_directory")),
		mcp.WithString("query",
			mcp.Description("Optional case-insensitive file name filter"),
		),
	), s.handleSearchDirectory)

	s.mcpServer.AddTool(mcp.NewTool(
		"aditamento_match_text",
		mcp.WithDescription(descriptions.GetToolDescription("aditamento_match_text")),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to run the term patterns over"),
		),
	), s.handleMatchText)

	s.mcpServer.AddTool(mcp.NewTool(
		"aditamento_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("aditamento_server_info")),
	), s.handleServerInfo)
}

// Handler functions
func (s *Server) handleListRemote(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := s.service.RemoteNames()

	text := fmt.Sprintf("Remote documents (%d) from %s:\n", len(names), s.service.BaseURL())
	for i, name := range names {
		text += fmt.Sprintf("%d. %s\n", i+1, name)
	}

	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleExtractRemote(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	names := s.service.RemoteNames()
	if raw, ok := args["names"].(string); ok && strings.TrimSpace(raw) != "" {
		names = splitList(raw)
	}

	format, err := formatArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rep := s.service.Process(ctx, source.RemoteSelection{Names: names})
	return s.reportResult(rep, format)
}

func (s *Server) handleExtractFiles(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	raw, err := request.RequireString("paths")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	paths := splitList(raw)
	if len(paths) == 0 {
		return mcp.NewToolResultError("paths cannot be empty"), nil
	}

	format, err := formatArg(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rep := s.service.Process(ctx, source.LocalFiles{Paths: paths})
	return s.reportResult(rep, format)
}

func (s *Server) handleSearchDirectory(_ context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	query := ""
	if q, ok := request.GetArguments()["query"].(string); ok {
		query = q
	}

	files, err := s.service.SearchDirectory(query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(files) == 0 {
		text := fmt.Sprintf("No PDF files found in directory: %s", s.service.Directory())
		if query != "" {
			text += fmt.Sprintf(" (searched for: %s)", query)
		}
		return mcp.NewToolResultText(text), nil
	}

	return mcp.NewToolResultText(formatFileList(s.service.Directory(), query, files)), nil
}

func (s *Server) handleMatchText(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	fields := terms.Match(text)

	var b strings.Builder
	for _, name := range terms.Names() {
		fmt.Fprintf(&b, "%s: %s\n", name, fields[name])
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "%s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	fmt.Fprintf(&b, "Local Directory: %s\n", s.service.Directory())
	fmt.Fprintf(&b, "Remote Base URL: %s\n", s.service.BaseURL())
	fmt.Fprintf(&b, "Max File Size: %d MB\n\n", s.service.GetMaxFileSize()/(1024*1024))

	b.WriteString("Extracted Fields:\n")
	for i, name := range terms.Names() {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, name)
	}

	b.WriteString("\nAvailable Tools:\n")
	for _, name := range descriptions.GetAllToolNames() {
		fmt.Fprintf(&b, "  • %s\n", name)
	}

	return mcp.NewToolResultText(b.String()), nil
}

// reportResult renders a report and its failures as tool output
func (s *Server) reportResult(rep *report.Report, format string) (*mcp.CallToolResult, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "Processed %d document(s), %d failed\n", rep.Len(), rep.Failures.Count())
	for _, msg := range rep.Messages() {
		fmt.Fprintf(&b, "⚠️  %s\n", msg)
	}
	b.WriteString("\n")

	switch format {
	case "csv", "txt":
		f, _ := export.ParseFormat(format)
		data, err := s.service.Export(rep, f)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		fmt.Fprintf(&b, "%s:\n", f.FileName())
		b.Write(data)
	default:
		b.WriteString(formatReport(rep))
	}

	return mcp.NewToolResultText(b.String()), nil
}

// Formatting helpers
func formatReport(rep *report.Report) string {
	if rep.Empty() {
		return "No rows extracted.\n"
	}

	var b strings.Builder
	for i, row := range rep.Rows {
		fmt.Fprintf(&b, "%d. %s", i+1, row.File)
		if row.Pages > 0 {
			fmt.Fprintf(&b, " (%d pages)", row.Pages)
		}
		b.WriteString("\n")
		for _, name := range terms.Names() {
			fmt.Fprintf(&b, "   %s: %s\n", name, row.Get(name))
		}
		if i < len(rep.Rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func formatFileList(directory, query string, files []source.FileInfo) string {
	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", len(files), directory)
	if query != "" {
		text += fmt.Sprintf("Search query: %s\n", query)
	}
	text += "\nFiles:\n"

	for i, file := range files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
	}

	return text
}

func formatArg(args map[string]any) (string, error) {
	format, _ := args["format"].(string)
	switch format {
	case "", "table":
		return "table", nil
	case "csv", "txt":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (must be one of: table, csv, txt)", format)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Run serves MCP over stdio until the client disconnects
func (s *Server) Run(_ context.Context) error {
	s.logger.Debug("mcp.stdio.start",
		"directory", s.service.Directory(),
		"base_url", s.service.BaseURL(),
	)

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
