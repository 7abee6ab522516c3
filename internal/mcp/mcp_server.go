// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/estimation-reporter/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the estimation MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"Estimation Reporter Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{baseCfg: baseCfg}

	// --- 1. Tool: estimate_scope ---
	s.AddTool(mcp.NewTool("estimate_scope",
		mcp.WithDescription("Count lines of code and hash every file in an audit scope. No report files are written."),
		mcp.WithString("scope_dir", mcp.Description("Directory to measure (defaults to the configured scope directory).")),
		mcp.WithString("repository", mcp.Description("Repository URL copied into the portal rows.")),
		mcp.WithString("commit", mcp.Description("Commit copied into the portal rows.")),
		mcp.WithString("project_name", mcp.Description("Project name used in the summary.")),
		mcp.WithString("exclude", mcp.Description("Comma-separated ignore patterns (e.g. 'test/,*.t.sol').")),
	), h.handleEstimateScope)

	// --- 2. Tool: count_file ---
	s.AddTool(mcp.NewTool("count_file",
		mcp.WithDescription("Classify a single source file and count its lines of code."),
		mcp.WithString("path", mcp.Description("Path to the source file."), mcp.Required()),
	), h.handleCountFile)

	// --- 3. Tool: list_languages ---
	s.AddTool(mcp.NewTool("list_languages",
		mcp.WithDescription("List the supported file extensions and their languages."),
	), h.handleListLanguages)

	return s
}

// StartMCPServer starts the estimation MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
