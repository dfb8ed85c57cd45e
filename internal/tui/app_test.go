package tui

import (
	"path/filepath"
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

func strPtr(s string) *string { return &s }
func intPtr(v int64) *int64   { return &v }

func TestLoadSessionInfos(t *testing.T) {
	s := newTestStore(t)
	if err := s.PutSession(&store.Session{ID: "s1", StartTime: 1000}); err != nil {
		t.Fatal(err)
	}
	for _, c := range []store.Command{
		{SessionID: "s1", CommandText: "go build", Timestamp: 1000, ExitCode: intPtr(0), GitRepo: strPtr("billing")},
		{SessionID: "s1", CommandText: "go test", Timestamp: 2000, ExitCode: intPtr(1), GitRepo: strPtr("billing")},
	} {
		if _, err := s.PutCommand(&c); err != nil {
			t.Fatal(err)
		}
	}

	infos, err := loadSessionInfos(s)
	if err != nil {
		t.Fatalf("loadSessionInfos: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("infos = %d, want 1", len(infos))
	}
	got := infos[0]
	if got.commandCount != 2 || !got.hasFailures {
		t.Errorf("info = %+v", got)
	}
	if len(got.repos) != 1 || got.repos[0] != "billing" {
		t.Errorf("repos = %v", got.repos)
	}
}

func TestClampOffset(t *testing.T) {
	tests := []struct {
		cursor, offset, visible, want int
	}{
		{0, 0, 10, 0},
		{5, 0, 10, 0},   // cursor inside window
		{12, 0, 10, 3},  // scrolled past bottom
		{2, 5, 10, 2},   // scrolled above top
		{20, 15, 5, 16}, // large jump down
	}
	for _, tc := range tests {
		if got := clampOffset(tc.cursor, tc.offset, tc.visible); got != tc.want {
			t.Errorf("clampOffset(%d, %d, %d) = %d, want %d",
				tc.cursor, tc.offset, tc.visible, got, tc.want)
		}
	}
}

func TestPadAndTruncate(t *testing.T) {
	if got := pad("ab", 5); got != "ab   " {
		t.Errorf("pad = %q", got)
	}
	if got := pad("abcdef", 4); got != "abcd" {
		t.Errorf("pad overflow = %q", got)
	}
	if got := truncate("hello world", 7); got != "hello.." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate noop = %q", got)
	}
}
