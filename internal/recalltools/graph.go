package recalltools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/recall-sh/recall/internal/graph"
	"github.com/recall-sh/recall/internal/store"
)

// GraphTool handles the history_graph MCP tool.
type GraphTool struct {
	store *store.Store
}

// NewGraphTool creates a GraphTool.
func NewGraphTool(s *store.Store) *GraphTool {
	return &GraphTool{store: s}
}

// Definition returns the MCP tool definition for history_graph.
func (t *GraphTool) Definition() mcp.Tool {
	return mcp.NewTool("history_graph",
		mcp.WithDescription(
			"Relationship graph derived from recent history: git repositories as nodes "+
				"with activity stats, tool usage nodes, and edges for repos worked on together "+
				"and tools used per repo. Returned as JSON.",
		),
	)
}

// Handle processes the history_graph tool call.
func (t *GraphTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	g, err := graph.Build(t.store)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("building graph failed: %v", err)), nil
	}

	payload, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding graph failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
