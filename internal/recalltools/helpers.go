package recalltools

import (
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/recall-sh/recall/internal/store"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}

// formatCommandLine renders the command with its timestamp and outcome.
func formatCommandLine(c *store.Command) string {
	ts := time.UnixMilli(c.Timestamp).Format("2006-01-02 15:04")
	exit := "?"
	if c.ExitCode != nil {
		exit = fmt.Sprintf("%d", *c.ExitCode)
	}
	return fmt.Sprintf("[%s] %s (exit: %s)", ts, c.CommandText, exit)
}

// formatCommandContext renders the execution context line.
func formatCommandContext(c *store.Command) string {
	parts := []string{}
	if c.GitRepo != nil && *c.GitRepo != "" {
		repo := *c.GitRepo
		if c.GitBranch != nil && *c.GitBranch != "" {
			repo += "@" + *c.GitBranch
		}
		parts = append(parts, "repo: "+repo)
	}
	if c.Cwd != nil && *c.Cwd != "" {
		parts = append(parts, "dir: "+*c.Cwd)
	}
	if len(parts) == 0 {
		return "no context"
	}
	return strings.Join(parts, " | ")
}
