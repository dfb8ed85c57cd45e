// Package recalltools implements the MCP tools that expose command
// history to agent clients. Each tool is a small struct bound to the
// event store, with a Definition for registration and a Handle for
// calls.
package recalltools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/recall-sh/recall/internal/search"
	"github.com/recall-sh/recall/internal/store"
)

// SearchTool handles the history_search MCP tool.
type SearchTool struct {
	store *store.Store
}

// NewSearchTool creates a SearchTool.
func NewSearchTool(s *store.Store) *SearchTool {
	return &SearchTool{store: s}
}

// Definition returns the MCP tool definition for history_search.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("history_search",
		mcp.WithDescription(
			"Full-text search over the user's shell command history. Use this to find "+
				"what commands were run, in which directory and git repository, and whether they failed.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query — keywords matched against command text, directory, repo, and branch"),
		),
		mcp.WithString("repo",
			mcp.Description("Only return commands run inside this git repository (exact name)"),
		),
		mcp.WithString("dir",
			mcp.Description("Only return commands whose working directory contains this substring"),
		),
		mcp.WithBoolean("failed_only",
			mcp.Description("Only return commands that exited non-zero"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max results (default: 20)"),
		),
	)
}

// Handle processes the history_search tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}

	results, err := search.Search(t.store, search.Options{
		Query:      query,
		Repo:       req.GetString("repo", ""),
		Dir:        req.GetString("dir", ""),
		FailedOnly: boolArg(req, "failed_only", false),
		Limit:      intArg(req, "limit", 20),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No commands found matching your query."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d commands:\n\n", len(results))
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] %s\n    %s\n", i+1, formatCommandLine(&r.Command), formatCommandContext(&r.Command))
	}
	return mcp.NewToolResultText(b.String()), nil
}
