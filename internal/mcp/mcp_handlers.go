package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/huangsam/estimation-reporter/core"
	"github.com/huangsam/estimation-reporter/core/lang"
	"github.com/huangsam/estimation-reporter/internal/contract"
	"github.com/huangsam/estimation-reporter/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// fileEstimate is the count_file response.
type fileEstimate struct {
	Path        string          `json:"path"`
	Language    schema.Language `json:"language"`
	LinesOfCode int             `json:"loc"`
	SHA3        string          `json:"sha3"`
}

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

func (h *toolHandler) handleEstimateScope(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if d := request.GetString("scope_dir", ""); d != "" {
		cfg.ScopeDir = d
	}
	if n := request.GetString("project_name", ""); n != "" {
		cfg.Project.Name = n
	}
	cfg.Project.Repository = request.GetString("repository", cfg.Project.Repository)
	cfg.Project.Commit = request.GetString("commit", cfg.Project.Commit)
	if ex := request.GetString("exclude", ""); ex != "" {
		for p := range strings.SplitSeq(ex, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				cfg.Excludes = append(cfg.Excludes, trimmed)
			}
		}
	}

	estimate, err := core.EstimateScope(cfg.ScopeDir, cfg.Excludes, cfg.Project)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("estimation failed: %v", err)), nil
	}
	return jsonResult(estimate)
}

func (h *toolHandler) handleCountFile(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}

	language, err := lang.FromPath(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot classify %s: %v", path, err)), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot read %s: %v", path, err)), nil
	}
	loc, err := lang.CountContent(language, content)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot count %s: %v", path, err)), nil
	}

	return jsonResult(fileEstimate{
		Path:        path,
		Language:    language,
		LinesOfCode: loc,
		SHA3:        core.HashBytes(content),
	})
}

func (h *toolHandler) handleListLanguages(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(lang.Extensions())
}

// jsonResult renders v as indented JSON text, or a tool error if it cannot be encoded.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
