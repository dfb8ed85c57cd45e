package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/recall-sh/recall/internal/store"
)

const answererSystem = `You are a terminal history assistant. The user is asking about their command-line activity. Below is a list of relevant commands from their history. Answer their question based on this data. Be concise and specific. Format timestamps as human-readable.`

// AnswerQuestion synthesizes an answer to a free-form question from a
// set of candidate history commands.
func AnswerQuestion(ctx context.Context, c completer, question string, commands []store.Command) (string, error) {
	if len(commands) == 0 {
		return "No matching commands found in your history.", nil
	}
	prompt := fmt.Sprintf("%s\n\n%s", historyContext(commands), question)
	return c.Complete(ctx, answererSystem, prompt)
}

// historyContext renders candidate commands with their execution
// context, one per line.
func historyContext(commands []store.Command) string {
	var b strings.Builder
	b.WriteString("Command history:\n")
	for _, cmd := range commands {
		ts := time.UnixMilli(cmd.Timestamp).Format("2006-01-02 15:04")
		exit := "?"
		if cmd.ExitCode != nil {
			exit = fmt.Sprintf("%d", *cmd.ExitCode)
		}
		fmt.Fprintf(&b, "- [%s] `%s` (dir: %s, repo: %s, branch: %s, exit: %s)\n",
			ts, cmd.CommandText,
			deref(cmd.Cwd, "?"), deref(cmd.GitRepo, "-"), deref(cmd.GitBranch, "-"), exit)
	}
	return b.String()
}

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
