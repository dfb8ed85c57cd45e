package capture

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/recall-sh/recall/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "recall.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestRecorder(t *testing.T, s *store.Store, patterns []string) *Recorder {
	t.Helper()
	r := NewRecorder(s, patterns)
	r.now = func() int64 { return 5000 }
	return r
}

func intPtr(v int64) *int64 { return &v }

func writeOutputFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "output")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

// ─── Record ─────────────────────────────────────────────────────────────────

func TestRecord_StoresSessionAndCommand(t *testing.T) {
	s := newTestStore(t)
	r := newTestRecorder(t, s, nil)

	err := r.Record(Entry{
		Command:   "ls -la",
		ExitCode:  intPtr(0),
		StartMS:   intPtr(4000),
		SessionID: "sess-1",
		Terminal:  "Ghostty",
	}, false)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	cmds, err := s.CommandsInSession("sess-1")
	if err != nil {
		t.Fatalf("CommandsInSession: %v", err)
	}
	if len(cmds) != 1 {
		t.Fatalf("len = %d, want 1", len(cmds))
	}
	c := cmds[0]
	if c.CommandText != "ls -la" || c.Timestamp != 4000 {
		t.Errorf("command = %+v", c)
	}
	if c.DurationMS == nil || *c.DurationMS != 1000 {
		t.Errorf("duration = %v, want 1000 (now - start)", c.DurationMS)
	}

	sess, err := s.GetSession("sess-1")
	if err != nil {
		t.Fatalf("session row missing: %v", err)
	}
	if sess.TerminalApp == nil || *sess.TerminalApp != "Ghostty" {
		t.Errorf("terminal = %v", sess.TerminalApp)
	}
}

func TestRecord_IgnoredCommandIsNoOp(t *testing.T) {
	s := newTestStore(t)
	r := newTestRecorder(t, s, []string{"export *SECRET*"})

	outFile := writeOutputFile(t, []byte("leaked output"))
	err := r.Record(Entry{
		Command:    "export AWS_SECRET_KEY=abc",
		SessionID:  "sess-1",
		OutputFile: outFile,
	}, false)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	cmds, _ := s.CommandsInSession("sess-1")
	if len(cmds) != 0 {
		t.Errorf("ignored command was stored: %+v", cmds)
	}
	// The temp output file is still cleaned up on the no-op path.
	if _, err := os.Stat(outFile); !os.IsNotExist(err) {
		t.Error("output file not removed on ignore path")
	}
}

func TestRecord_PausedIsNoOp(t *testing.T) {
	s := newTestStore(t)
	r := newTestRecorder(t, s, nil)

	outFile := writeOutputFile(t, []byte("output"))
	if err := r.Record(Entry{Command: "ls", SessionID: "s1", OutputFile: outFile}, true); err != nil {
		t.Fatalf("Record: %v", err)
	}

	cmds, _ := s.CommandsInSession("s1")
	if len(cmds) != 0 {
		t.Error("paused recorder stored a command")
	}
	if _, err := os.Stat(outFile); !os.IsNotExist(err) {
		t.Error("output file not removed on paused path")
	}
}

func TestRecord_OutputTruncatedAndStripped(t *testing.T) {
	s := newTestStore(t)
	r := newTestRecorder(t, s, nil)

	// 20 KiB of payload wrapped in color escapes.
	var b strings.Builder
	for b.Len() < 20*1024 {
		b.WriteString("\x1b[32mgreen line of output\x1b[0m\n")
	}
	outFile := writeOutputFile(t, []byte(b.String()))

	if err := r.Record(Entry{Command: "make", SessionID: "s1", OutputFile: outFile}, false); err != nil {
		t.Fatalf("Record: %v", err)
	}

	cmds, err := s.CommandsInSession("s1")
	if err != nil || len(cmds) != 1 {
		t.Fatalf("commands = %v, err = %v", cmds, err)
	}
	out := cmds[0].Output
	if out == nil {
		t.Fatal("output not stored")
	}
	if len(*out) > 10*1024 {
		t.Errorf("output length = %d, want at most 10 KiB", len(*out))
	}
	if strings.Contains(*out, "\x1b") {
		t.Error("ANSI escapes not stripped")
	}
	if !strings.Contains(*out, "green line of output") {
		t.Error("payload text missing")
	}
}

func TestRecord_UnknownExitCodeStaysUnknown(t *testing.T) {
	s := newTestStore(t)
	r := newTestRecorder(t, s, nil)

	if err := r.Record(Entry{Command: "ls", SessionID: "s1"}, false); err != nil {
		t.Fatalf("Record: %v", err)
	}
	cmds, _ := s.CommandsInSession("s1")
	if len(cmds) != 1 || cmds[0].ExitCode != nil {
		t.Errorf("exit code = %v, want nil", cmds[0].ExitCode)
	}
}

// ─── Output sanitization ────────────────────────────────────────────────────

func TestSanitizeOutput_MultibyteCapBoundary(t *testing.T) {
	// Fill to just under the cap, then place a multi-byte rune across it.
	raw := strings.Repeat("a", maxOutputBytes-1) + "é"
	out := sanitizeOutput([]byte(raw))
	if len(out) > maxOutputBytes {
		t.Errorf("len = %d, exceeds cap", len(out))
	}
	if !strings.HasSuffix(out, "a") {
		t.Errorf("split rune should be dropped, got suffix %q", out[len(out)-4:])
	}
}

func TestSanitizeOutput_CarriageReturns(t *testing.T) {
	out := sanitizeOutput([]byte("progress 10%\rprogress 100%\r\ndone"))
	if strings.Contains(out, "\r") {
		t.Errorf("carriage returns survived: %q", out)
	}
}
