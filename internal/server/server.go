// Package server wires the MCP server that exposes command history to
// agent clients over stdio.
//
// This is the composition root: it opens the event store and injects
// it into the tools. No business logic lives here — only wiring.
package server

import (
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/recall-sh/recall/internal/config"
	"github.com/recall-sh/recall/internal/recalltools"
	"github.com/recall-sh/recall/internal/store"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all history tools
// registered.
//
// The returned cleanup function closes the store's database connection
// and must be called on shutdown (typically via defer). It is always
// non-nil and safe to call.
func New() (*server.MCPServer, func(), error) {
	st, err := store.Open(config.DBPath())
	if err != nil {
		return nil, func() {}, fmt.Errorf("opening history store: %w", err)
	}
	cleanup := func() {
		if err := st.Close(); err != nil {
			log.Printf("WARNING: history store close: %v", err)
		}
	}

	s := server.NewMCPServer(
		"recall",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	searchTool := recalltools.NewSearchTool(st)
	s.AddTool(searchTool.Definition(), searchTool.Handle)

	recentTool := recalltools.NewRecentTool(st)
	s.AddTool(recentTool.Definition(), recentTool.Handle)

	statsTool := recalltools.NewStatsTool(st)
	s.AddTool(statsTool.Definition(), statsTool.Handle)

	graphTool := recalltools.NewGraphTool(st)
	s.AddTool(graphTool.Definition(), graphTool.Handle)

	return s, cleanup, nil
}

func serverInstructions() string {
	return `recall gives you read access to the user's shell command history.

Use history_search to find specific commands ("how did I run that migration"),
history_recent for what the user was just doing, history_stats for an overview
of their activity, and history_graph to see which repositories and tools they
work with together. All data is local to this machine.`
}
