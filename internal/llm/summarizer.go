package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/recall-sh/recall/internal/store"
)

const summarizerSystem = `You are a terminal activity summarizer. Given the following sequence of shell commands from a single session, provide:
1. A concise summary (1-2 sentences) of what the user was doing
2. A JSON array of relevant tags (e.g. ["git", "go", "debugging"])
3. A one-word intent (e.g. "development", "deployment", "debugging", "configuration")

Respond in exactly this format:
SUMMARY: <your summary>
TAGS: <json array>
INTENT: <one word>`

// outputContextLines caps how much captured output per command is fed
// to the model.
const outputContextLines = 10

// SessionSummary is the parsed model reply for one session.
type SessionSummary struct {
	Summary string
	Tags    string // JSON array as text
	Intent  string
}

// SummarizeSession asks the model for a summary of one session's
// commands. Sessions with no commands short-circuit to an empty-session
// summary without an API call.
func SummarizeSession(ctx context.Context, c completer, commands []store.Command) (SessionSummary, error) {
	if len(commands) == 0 {
		return SessionSummary{Summary: "Empty session", Tags: "[]", Intent: "unknown"}, nil
	}

	reply, err := c.Complete(ctx, summarizerSystem, summarizerPrompt(commands))
	if err != nil {
		return SessionSummary{}, err
	}
	return parseSummaryReply(reply), nil
}

// summarizerPrompt renders the command sequence the way the model sees
// it.
func summarizerPrompt(commands []store.Command) string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, cmd := range commands {
		ts := time.UnixMilli(cmd.Timestamp).Format("15:04:05")
		exit := "?"
		if cmd.ExitCode != nil {
			exit = fmt.Sprintf("%d", *cmd.ExitCode)
		}
		fmt.Fprintf(&b, "  [%s] %s (exit: %s)\n", ts, cmd.CommandText, exit)

		if cmd.Output != nil && *cmd.Output != "" {
			lines := strings.Split(*cmd.Output, "\n")
			if len(lines) > outputContextLines {
				lines = lines[:outputContextLines]
			}
			fmt.Fprintf(&b, "    output: %s\n", strings.Join(lines, "\n"))
		}
	}
	b.WriteString("\nSummarize this session.")
	return b.String()
}

// parseSummaryReply extracts the SUMMARY/TAGS/INTENT lines. Missing
// fields fall back to safe defaults so a sloppy model reply still
// yields a usable row.
func parseSummaryReply(reply string) SessionSummary {
	out := SessionSummary{Tags: "[]", Intent: "unknown"}
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, "SUMMARY:"); ok {
			out.Summary = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(line, "TAGS:"); ok {
			out.Tags = strings.TrimSpace(v)
		} else if v, ok := strings.CutPrefix(line, "INTENT:"); ok {
			out.Intent = strings.TrimSpace(v)
		}
	}
	if out.Summary == "" {
		first, _, _ := strings.Cut(reply, "\n")
		out.Summary = first
		if out.Summary == "" {
			out.Summary = "Session activity"
		}
	}
	return out
}
