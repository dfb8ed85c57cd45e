package recalltools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/recall-sh/recall/internal/store"
)

// StatsTool handles the history_stats MCP tool.
type StatsTool struct {
	store *store.Store
}

// NewStatsTool creates a StatsTool.
func NewStatsTool(s *store.Store) *StatsTool {
	return &StatsTool{store: s}
}

// Definition returns the MCP tool definition for history_stats.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("history_stats",
		mcp.WithDescription(
			"Aggregate statistics over the user's command history: total sessions, "+
				"commands, failures, and the git repositories worked in.",
		),
	)
}

// Handle processes the history_stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := t.store.Stats()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading stats failed: %v", err)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "History statistics:\n\n")
	fmt.Fprintf(&b, "- Sessions: %d\n", stats.Sessions)
	fmt.Fprintf(&b, "- Commands: %d\n", stats.Commands)
	fmt.Fprintf(&b, "- Failures: %d\n", stats.Failures)
	fmt.Fprintf(&b, "- Repositories: %d\n", stats.Repos)
	if len(stats.RepoNames) > 0 {
		fmt.Fprintf(&b, "\nRepositories: %s\n", strings.Join(stats.RepoNames, ", "))
	}
	return mcp.NewToolResultText(b.String()), nil
}
