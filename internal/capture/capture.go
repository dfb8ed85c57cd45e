// Package capture turns raw shell-hook invocations into stored
// session/command events, applying the privacy filter and the pause
// flag before anything reaches the database.
package capture

import (
	"fmt"
	"os"
	"time"

	"github.com/recall-sh/recall/internal/privacy"
	"github.com/recall-sh/recall/internal/store"
)

// Entry is one command observed by the shell hook.
type Entry struct {
	Command    string
	ExitCode   *int64
	StartMS    *int64 // hook-recorded start time, ms epoch
	Cwd        string
	SessionID  string
	Terminal   string
	OutputFile string // PTY capture file; removed after use
}

// Recorder writes captured entries to the store.
type Recorder struct {
	store          *store.Store
	ignorePatterns []string
	now            func() int64 // test hook
}

// NewRecorder creates a Recorder that filters against the given ignore
// patterns.
func NewRecorder(s *store.Store, ignorePatterns []string) *Recorder {
	return &Recorder{
		store:          s,
		ignorePatterns: ignorePatterns,
		now:            func() int64 { return time.Now().UnixMilli() },
	}
}

// Record stores one captured command, creating the session row first if
// needed. Privacy-filtered and paused entries are silent no-ops; on
// every path the temporary output file is removed. The paused value is
// passed in explicitly so this function stays a pure consumer of it.
func (r *Recorder) Record(e Entry, paused bool) error {
	output := r.consumeOutput(e.OutputFile)

	if paused || privacy.ShouldIgnore(e.Command, r.ignorePatterns) {
		return nil
	}
	if e.SessionID == "" {
		return fmt.Errorf("capture: missing session id")
	}

	now := r.now()
	timestamp := now
	if e.StartMS != nil {
		timestamp = *e.StartMS
	}

	var durationMS *int64
	if e.StartMS != nil {
		d := now - *e.StartMS
		durationMS = &d
	}

	var gitRepo, gitBranch *string
	if e.Cwd != "" {
		if repo := detectGitRepo(e.Cwd); repo != "" {
			gitRepo = &repo
		}
		if branch := detectGitBranch(e.Cwd); branch != "" {
			gitBranch = &branch
		}
	}

	// The session row must exist before the command insert commits; the
	// store rejects dangling session ids.
	if err := r.store.PutSession(&store.Session{
		ID:          e.SessionID,
		StartTime:   timestamp,
		TerminalApp: nullable(e.Terminal),
		InitialDir:  nullable(e.Cwd),
	}); err != nil {
		return err
	}

	_, err := r.store.PutCommand(&store.Command{
		SessionID:   e.SessionID,
		CommandText: e.Command,
		Timestamp:   timestamp,
		DurationMS:  durationMS,
		Cwd:         nullable(e.Cwd),
		GitRepo:     gitRepo,
		GitBranch:   gitBranch,
		ExitCode:    e.ExitCode,
		Output:      nullable(output),
	})
	return err
}

// consumeOutput reads, sanitizes, and deletes the hook's output capture
// file. The delete happens even when the entry is later discarded.
func (r *Recorder) consumeOutput(path string) string {
	if path == "" {
		return ""
	}
	defer func() { _ = os.Remove(path) }()

	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return sanitizeOutput(raw)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
