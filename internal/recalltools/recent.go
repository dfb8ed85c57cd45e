package recalltools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/recall-sh/recall/internal/store"
)

// RecentTool handles the history_recent MCP tool.
type RecentTool struct {
	store *store.Store
}

// NewRecentTool creates a RecentTool.
func NewRecentTool(s *store.Store) *RecentTool {
	return &RecentTool{store: s}
}

// Definition returns the MCP tool definition for history_recent.
func (t *RecentTool) Definition() mcp.Tool {
	return mcp.NewTool("history_recent",
		mcp.WithDescription(
			"List the user's most recent shell commands, newest first. Use this for "+
				"questions like 'what was I just doing' or to pick up context from the current session.",
		),
		mcp.WithNumber("limit",
			mcp.Description("Max commands to return (default: 20)"),
		),
	)
}

// Handle processes the history_recent tool call.
func (t *RecentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	commands, err := t.store.RecentCommands(intArg(req, "limit", 20))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing recent commands failed: %v", err)), nil
	}

	if len(commands) == 0 {
		return mcp.NewToolResultText("No commands recorded yet."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Last %d commands (newest first):\n\n", len(commands))
	for i := range commands {
		c := &commands[i]
		fmt.Fprintf(&b, "- %s\n  %s\n", formatCommandLine(c), formatCommandContext(c))
	}
	return mcp.NewToolResultText(b.String()), nil
}
