package main

import (
	"fmt"
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

func TestFormatDuration(t *testing.T) {
	ms := func(v int64) *int64 { return &v }
	tests := []struct {
		in   *int64
		want string
	}{
		{nil, "-"},
		{ms(250), "250ms"},
		{ms(1500), "1.5s"},
		{ms(61000), "1m1s"},
		{ms(125300), "2m5s"},
	}
	for _, tc := range tests {
		if got := formatDuration(tc.in); got != tc.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestGatherCandidates_DedupesAndOrders(t *testing.T) {
	s := newTestStore(t)
	if err := s.PutSession(&store.Session{ID: "s1", StartTime: 1000}); err != nil {
		t.Fatal(err)
	}
	// "docker" matches both the word search and the recent scan.
	for i := int64(0); i < 5; i++ {
		if _, err := s.PutCommand(&store.Command{
			SessionID:   "s1",
			CommandText: fmt.Sprintf("docker run step%d", i),
			Timestamp:   1000 + i,
		}); err != nil {
			t.Fatal(err)
		}
	}

	got := gatherCandidates(s, "what docker runs happened")
	if len(got) != 5 {
		t.Fatalf("candidates = %d, want 5 after dedupe", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Timestamp < got[i].Timestamp {
			t.Fatalf("candidates not newest first: %v then %v", got[i-1].Timestamp, got[i].Timestamp)
		}
	}
	seen := map[int64]bool{}
	for _, c := range got {
		if seen[c.ID] {
			t.Fatalf("duplicate candidate id %d", c.ID)
		}
		seen[c.ID] = true
	}
}

func TestGatherCandidates_SkipsShortWords(t *testing.T) {
	s := newTestStore(t)
	// No data at all; short-word-only question should still return the
	// (empty) recent set without error.
	got := gatherCandidates(s, "a an of")
	if len(got) != 0 {
		t.Errorf("candidates = %v, want none", got)
	}
}
