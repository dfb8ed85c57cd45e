package store

// Session is one terminal/shell invocation grouping zero or more commands.
// The id is generated by the shell hook (a random token per invocation).
type Session struct {
	ID          string  `json:"id"`
	StartTime   int64   `json:"start_time"`
	EndTime     *int64  `json:"end_time"`
	TerminalApp *string `json:"terminal_app"`
	InitialDir  *string `json:"initial_dir"`
}

// Command is one executed shell command with timing, context, and outcome.
// ExitCode nil means "not captured", which is distinct from 0.
type Command struct {
	ID          int64   `json:"id"`
	SessionID   string  `json:"session_id"`
	CommandText string  `json:"command_text"`
	Timestamp   int64   `json:"timestamp"`
	DurationMS  *int64  `json:"duration_ms"`
	Cwd         *string `json:"cwd"`
	GitRepo     *string `json:"git_repo"`
	GitBranch   *string `json:"git_branch"`
	ExitCode    *int64  `json:"exit_code"`
	Output      *string `json:"output"`
}

// Failed reports whether the command recorded a non-zero exit code.
// An unknown exit code is not a failure.
func (c *Command) Failed() bool {
	return c.ExitCode != nil && *c.ExitCode != 0
}

// Summary is an LLM-derived digest of a session. Tags holds a serialized
// list (JSON array string) that the store treats as opaque text.
type Summary struct {
	ID          int64   `json:"id"`
	SessionID   string  `json:"session_id"`
	SummaryText string  `json:"summary_text"`
	Tags        *string `json:"tags"`
	Intent      *string `json:"intent"`
	CreatedAt   int64   `json:"created_at"`
}

// SearchResult embeds a Command with its FTS5 rank score.
// Lower rank means more relevant.
type SearchResult struct {
	Command
	Rank float64 `json:"rank"`
}

// SummarySearchResult embeds a Summary with its FTS5 rank score.
type SummarySearchResult struct {
	Summary
	Rank float64 `json:"rank"`
}

// Stats holds aggregate history statistics.
type Stats struct {
	Sessions  int      `json:"sessions"`
	Commands  int      `json:"commands"`
	Repos     int      `json:"repos"`
	Failures  int      `json:"failures"`
	RepoNames []string `json:"repo_names"`
}
