package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/recall-sh/recall/internal/capture"
	"github.com/recall-sh/recall/internal/config"
	"github.com/recall-sh/recall/internal/llm"
	"github.com/recall-sh/recall/internal/logging"
	"github.com/recall-sh/recall/internal/search"
	"github.com/recall-sh/recall/internal/server"
	"github.com/recall-sh/recall/internal/shell"
	"github.com/recall-sh/recall/internal/store"
	"github.com/recall-sh/recall/internal/tui"
	"github.com/recall-sh/recall/internal/web"
)

// CLI is the full command surface. A bare invocation with trailing
// words is treated as a natural-language question about the history.
type CLI struct {
	Debug bool `help:"Enable debug logging to file" short:"d"`

	Init      InitCmd      `cmd:"" help:"Print the shell hook (activate with: eval \"$(recall init zsh)\")"`
	Log       LogCmd       `cmd:"" help:"Log a command (called by the shell hook)" hidden:""`
	SessionID SessionIDCmd `cmd:"" name:"session-id" help:"Generate a new session ID" hidden:""`
	Search    SearchCmd    `cmd:"" help:"Search command history"`
	Today     TodayCmd     `cmd:"" help:"Show today's commands"`
	On        OnCmd        `cmd:"" help:"Show commands on a specific date (YYYY-MM-DD)"`
	Pause     PauseCmd     `cmd:"" help:"Pause recording"`
	Resume    ResumeCmd    `cmd:"" help:"Resume recording"`
	Summarize SummarizeCmd `cmd:"" help:"Summarize recent sessions with the configured LLM"`
	UI        UICmd        `cmd:"" name:"ui" help:"Open the interactive history browser"`
	Web       WebCmd       `cmd:"" help:"Serve the web dashboard"`
	MCP       MCPCmd       `cmd:"" name:"mcp" help:"Run the MCP server over stdio"`
	Ask       AskCmd       `cmd:"" default:"withargs" help:"Ask a question about your history"`
}

// AfterApply initializes logging once flags are parsed.
func (c *CLI) AfterApply() error {
	return logging.Initialize(c.Debug, filepath.Join(config.Dir(), "logs"))
}

func openStore() (*store.Store, error) {
	return store.Open(config.DBPath())
}

// ─── init ───────────────────────────────────────────────────────────────────

type InitCmd struct {
	Shell string `arg:"" help:"Shell type (currently: zsh)"`
}

func (c *InitCmd) Run() error {
	if c.Shell != "zsh" {
		return fmt.Errorf("unsupported shell: %s (currently supported: zsh)", c.Shell)
	}
	shell.PrintZshHook(os.Stdout)
	return nil
}

// ─── log (hidden, called by the hook) ───────────────────────────────────────

type LogCmd struct {
	Command    string `required:"" help:"Command text"`
	ExitCode   *int64 `name:"exit-code" help:"Exit code"`
	Start      *int64 `help:"Start time, ms epoch"`
	Cwd        string `help:"Working directory"`
	Session    string `required:"" help:"Session ID"`
	Terminal   string `help:"Terminal application"`
	OutputFile string `name:"output-file" help:"Captured output file"`
}

func (c *LogCmd) Run() error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	rec := capture.NewRecorder(s, cfg.Privacy.IgnorePatterns)
	return rec.Record(capture.Entry{
		Command:    c.Command,
		ExitCode:   c.ExitCode,
		StartMS:    c.Start,
		Cwd:        c.Cwd,
		SessionID:  c.Session,
		Terminal:   c.Terminal,
		OutputFile: c.OutputFile,
	}, config.Paused())
}

// ─── session-id ─────────────────────────────────────────────────────────────

type SessionIDCmd struct{}

func (c *SessionIDCmd) Run() error {
	fmt.Println(uuid.New().String())
	return nil
}

// ─── search ─────────────────────────────────────────────────────────────────

type SearchCmd struct {
	Query  string `arg:"" help:"Search query"`
	Repo   string `help:"Filter by git repo name"`
	Dir    string `help:"Filter by directory substring"`
	Failed bool   `help:"Show only failed commands"`
	Limit  int    `default:"20" help:"Max results"`
}

func (c *SearchCmd) Run() error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	results, err := search.Search(s, search.Options{
		Query:      c.Query,
		Repo:       c.Repo,
		Dir:        c.Dir,
		FailedOnly: c.Failed,
		Limit:      c.Limit,
	})
	if err != nil {
		return err
	}

	if len(results) == 0 {
		printEmpty("No matching commands found.")
		return nil
	}

	commands := make([]store.Command, len(results))
	for i, r := range results {
		commands[i] = r.Command
	}
	printHeader(fmt.Sprintf("Search: %q", c.Query), len(commands))
	printCommandsGrouped(commands)
	return nil
}

// ─── today / on ─────────────────────────────────────────────────────────────

type TodayCmd struct{}

func (c *TodayCmd) Run() error {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return printDay(start, fmt.Sprintf("Today — %s", start.Format("Jan 02, 2006")))
}

type OnCmd struct {
	Date string `arg:"" help:"Date (YYYY-MM-DD)"`
}

func (c *OnCmd) Run() error {
	day, err := time.ParseInLocation("2006-01-02", c.Date, time.Local)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", c.Date)
	}
	return printDay(day, c.Date)
}

func printDay(start time.Time, title string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	end := start.Add(24 * time.Hour)
	commands, err := s.CommandsBetween(start.UnixMilli(), end.UnixMilli())
	if err != nil {
		return err
	}
	if len(commands) == 0 {
		printEmpty(fmt.Sprintf("No commands recorded on %s.", title))
		return nil
	}
	printHeader(title, len(commands))
	printCommandsGrouped(commands)
	return nil
}

// ─── pause / resume ─────────────────────────────────────────────────────────

type PauseCmd struct{}

func (c *PauseCmd) Run() error {
	if err := config.EnsureDir(); err != nil {
		return err
	}
	if err := os.WriteFile(config.PauseFile(), nil, 0644); err != nil {
		return err
	}
	printNotice("Recording paused. Run `recall resume` to continue.")
	return nil
}

type ResumeCmd struct{}

func (c *ResumeCmd) Run() error {
	if !config.Paused() {
		printEmpty("Recording is not paused.")
		return nil
	}
	if err := os.Remove(config.PauseFile()); err != nil {
		return err
	}
	printNotice("Recording resumed.")
	return nil
}

// ─── summarize ──────────────────────────────────────────────────────────────

// summarizeMinCommands skips trivial sessions.
const summarizeMinCommands = 3

type SummarizeCmd struct{}

func (c *SummarizeCmd) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return err
	}
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	sessionIDs, err := s.UnsummarizedSessions(summarizeMinCommands)
	if err != nil {
		return err
	}
	if len(sessionIDs) == 0 {
		printEmpty("No sessions to summarize.")
		return nil
	}

	fmt.Printf("\nSummarizing %d sessions...\n", len(sessionIDs))
	ctx := context.Background()
	for _, sessionID := range sessionIDs {
		commands, err := s.CommandsInSession(sessionID)
		if err != nil {
			return err
		}
		fmt.Printf("  session %s ", sessionID[:min(8, len(sessionID))])

		summary, err := llm.SummarizeSession(ctx, client, commands)
		if err != nil {
			fmt.Printf("failed: %v\n", err)
			continue
		}
		_, err = s.PutSummary(&store.Summary{
			SessionID:   sessionID,
			SummaryText: summary.Summary,
			Tags:        &summary.Tags,
			Intent:      &summary.Intent,
			CreatedAt:   time.Now().UnixMilli(),
		})
		if err != nil {
			return err
		}
		fmt.Printf("ok\n    %s\n", summary.Summary)
	}
	return nil
}

// ─── ui / web / mcp ─────────────────────────────────────────────────────────

type UICmd struct{}

func (c *UICmd) Run() error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	return tui.Run(s)
}

type WebCmd struct {
	Port int `default:"3141" help:"Port to serve on"`
}

func (c *WebCmd) Run() error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	return web.New(s).Start(c.Port)
}

type MCPCmd struct{}

func (c *MCPCmd) Run() error {
	srv, cleanup, err := server.New()
	if err != nil {
		return err
	}
	defer cleanup()
	return mcpserver.ServeStdio(srv)
}

// ─── ask (default command) ──────────────────────────────────────────────────

const (
	askSearchLimit    = 10
	askRecentLimit    = 50
	askCandidateLimit = 100
)

type AskCmd struct {
	Question []string `arg:"" optional:"" help:"Natural language question about your history"`
}

func (c *AskCmd) Run() error {
	if len(c.Question) == 0 {
		return (&TodayCmd{}).Run()
	}
	question := strings.Join(c.Question, " ")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return err
	}
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	candidates := gatherCandidates(s, question)

	fmt.Println("\nThinking...")
	answer, err := llm.AnswerQuestion(context.Background(), client, question, candidates)
	if err != nil {
		return err
	}
	printAnswer(answer)
	return nil
}

// gatherCandidates collects likely-relevant commands: per-word search
// hits plus recent history, deduped and newest first.
func gatherCandidates(s *store.Store, question string) []store.Command {
	var candidates []store.Command
	for _, word := range strings.Fields(question) {
		if len(word) <= 2 {
			continue
		}
		results, err := search.Search(s, search.Options{Query: word, Limit: askSearchLimit})
		if err != nil {
			continue
		}
		for _, r := range results {
			candidates = append(candidates, r.Command)
		}
	}
	if recent, err := search.Recent(s, askRecentLimit); err == nil {
		candidates = append(candidates, recent...)
	}

	seen := make(map[int64]struct{}, len(candidates))
	deduped := candidates[:0]
	for _, c := range candidates {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		deduped = append(deduped, c)
	}
	sort.Slice(deduped, func(i, j int) bool {
		return deduped[i].Timestamp > deduped[j].Timestamp
	})
	if len(deduped) > askCandidateLimit {
		deduped = deduped[:askCandidateLimit]
	}
	return deduped
}
