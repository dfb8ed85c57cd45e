package store_test

import (
	"strings"
	"testing"

	"github.com/recall-sh/recall/internal/store"
)

func TestSearchCommands_RankedAndLimited(t *testing.T) {
	s := newTestStore(t)
	ensureSession(t, s, "s1", 100)

	for i := 0; i < 8; i++ {
		putCommand(t, s, &store.Command{
			SessionID:   "s1",
			CommandText: "echo SECRET value",
			Timestamp:   int64(100 + i),
		})
	}
	putCommand(t, s, &store.Command{SessionID: "s1", CommandText: "git status", Timestamp: 900})

	results, err := s.SearchCommands("SECRET", 5)
	if err != nil {
		t.Fatalf("SearchCommands: %v", err)
	}
	if len(results) == 0 || len(results) > 5 {
		t.Fatalf("len = %d, want 1..5", len(results))
	}
	prev := results[0].Rank
	for _, r := range results {
		if !strings.Contains(strings.ToUpper(r.CommandText), "SECRET") {
			t.Errorf("result %q does not contain query term", r.CommandText)
		}
		if r.Rank < prev {
			t.Errorf("ranks not non-decreasing: %f after %f", r.Rank, prev)
		}
		prev = r.Rank
	}
}

func TestSearchCommands_IndexedContextColumns(t *testing.T) {
	s := newTestStore(t)
	ensureSession(t, s, "s1", 100)

	putCommand(t, s, &store.Command{
		SessionID:   "s1",
		CommandText: "make deploy",
		Timestamp:   100,
		Cwd:         strPtr("/home/dev/billing"),
		GitRepo:     strPtr("billing"),
		GitBranch:   strPtr("hotfix-tax"),
	})

	// Context columns (cwd, repo, branch) are part of the index.
	for _, q := range []string{"billing", "hotfix-tax", "deploy"} {
		results, err := s.SearchCommands(q, 10)
		if err != nil {
			t.Fatalf("SearchCommands(%q): %v", q, err)
		}
		if len(results) != 1 {
			t.Errorf("query %q: len = %d, want 1", q, len(results))
		}
	}
}

func TestSearchCommands_EmptyQuery(t *testing.T) {
	s := newTestStore(t)
	ensureSession(t, s, "s1", 100)
	putCommand(t, s, &store.Command{SessionID: "s1", CommandText: "ls", Timestamp: 100})

	results, err := s.SearchCommands("   ", 10)
	if err != nil {
		t.Fatalf("SearchCommands: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("empty query returned %d results, want 0", len(results))
	}
}

func TestSearchCommands_MalformedQueryMatchesNothing(t *testing.T) {
	s := newTestStore(t)
	ensureSession(t, s, "s1", 100)
	putCommand(t, s, &store.Command{SessionID: "s1", CommandText: "ls", Timestamp: 100})

	// Unbalanced quote is an FTS5 syntax error; treated as zero matches.
	results, err := s.SearchCommands(`"unterminated`, 10)
	if err != nil {
		t.Fatalf("malformed query returned error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("len = %d, want 0", len(results))
	}
}

func TestSearchSummaries_MatchesTags(t *testing.T) {
	s := newTestStore(t)
	ensureSession(t, s, "s1", 100)

	if _, err := s.PutSummary(&store.Summary{
		SessionID:   "s1",
		SummaryText: "Worked on the parser",
		Tags:        strPtr(`["compiler", "testing"]`),
		Intent:      strPtr("development"),
		CreatedAt:   100,
	}); err != nil {
		t.Fatalf("PutSummary: %v", err)
	}

	results, err := s.SearchSummaries("compiler", 10)
	if err != nil {
		t.Fatalf("SearchSummaries: %v", err)
	}
	if len(results) != 1 || results[0].SessionID != "s1" {
		t.Errorf("results = %+v, want the tagged summary", results)
	}
}
