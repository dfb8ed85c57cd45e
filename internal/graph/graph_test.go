package graph_test

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/recall-sh/recall/internal/graph"
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

func strPtr(v string) *string { return &v }
func intPtr(v int64) *int64   { return &v }

func ensureSession(t *testing.T, s *store.Store, id string, startTime int64) {
	t.Helper()
	if err := s.PutSession(&store.Session{ID: id, StartTime: startTime}); err != nil {
		t.Fatalf("PutSession: %v", err)
	}
}

func putCommand(t *testing.T, s *store.Store, cmd store.Command) {
	t.Helper()
	if _, err := s.PutCommand(&cmd); err != nil {
		t.Fatalf("PutCommand(%q): %v", cmd.CommandText, err)
	}
}

func repoNode(t *testing.T, g *graph.Graph, name string) *graph.RepoNode {
	t.Helper()
	for _, n := range g.Nodes {
		if rn, ok := n.(*graph.RepoNode); ok && rn.Name == name {
			return rn
		}
	}
	t.Fatalf("repo node %q not found", name)
	return nil
}

func toolNode(g *graph.Graph, name string) *graph.ToolNode {
	for _, n := range g.Nodes {
		if tn, ok := n.(*graph.ToolNode); ok && tn.Name == name {
			return tn
		}
	}
	return nil
}

func repoRepoEdges(g *graph.Graph) []*graph.RepoRepoEdge {
	var out []*graph.RepoRepoEdge
	for _, e := range g.Edges {
		if rr, ok := e.(*graph.RepoRepoEdge); ok {
			out = append(out, rr)
		}
	}
	return out
}

// ─── Repo aggregation ───────────────────────────────────────────────────────

func TestBuild_RepoAggregates(t *testing.T) {
	s := newTestStore(t)
	ensureSession(t, s, "s1", 1000)
	ensureSession(t, s, "s2", 2000)

	putCommand(t, s, store.Command{SessionID: "s1", CommandText: "go test", Timestamp: 1000,
		GitRepo: strPtr("/home/dev/api"), GitBranch: strPtr("main"), ExitCode: intPtr(1)})
	putCommand(t, s, store.Command{SessionID: "s1", CommandText: "go build", Timestamp: 1001,
		GitRepo: strPtr("/home/dev/api"), GitBranch: strPtr("main"), ExitCode: intPtr(0)})
	putCommand(t, s, store.Command{SessionID: "s2", CommandText: "go vet", Timestamp: 2000,
		GitRepo: strPtr("/home/dev/api"), GitBranch: strPtr("hotfix"), ExitCode: intPtr(0)})

	g, err := graph.Build(s)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	node := repoNode(t, g, "api")
	if node.Commands != 3 {
		t.Errorf("commands = %d, want 3", node.Commands)
	}
	if node.Sessions != 2 {
		t.Errorf("sessions = %d, want 2", node.Sessions)
	}
	if node.Failures != 1 {
		t.Errorf("failures = %d, want 1", node.Failures)
	}
	if node.LastActive != 2000 {
		t.Errorf("last_active = %d, want 2000", node.LastActive)
	}
	if len(node.Branches) != 2 {
		t.Errorf("branches = %v, want [hotfix main]", node.Branches)
	}
}

// ─── Co-occurrence edges ────────────────────────────────────────────────────

func TestBuild_CoOccurrenceEdgeWeight(t *testing.T) {
	s := newTestStore(t)
	ensureSession(t, s, "s1", 1000)

	putCommand(t, s, store.Command{SessionID: "s1", CommandText: "make", Timestamp: 1000, GitRepo: strPtr("beta")})
	putCommand(t, s, store.Command{SessionID: "s1", CommandText: "make", Timestamp: 1001, GitRepo: strPtr("alpha")})

	g, err := graph.Build(s)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	edges := repoRepoEdges(g)
	if len(edges) != 1 {
		t.Fatalf("edges = %d, want 1", len(edges))
	}
	if edges[0].Source != "alpha" || edges[0].Target != "beta" {
		t.Errorf("edge = %s->%s, want canonical alpha->beta", edges[0].Source, edges[0].Target)
	}
	if edges[0].SharedSessions != 1 {
		t.Errorf("shared_sessions = %d, want 1", edges[0].SharedSessions)
	}

	// The same pair in a second session bumps the weight; no duplicate edge.
	ensureSession(t, s, "s2", 2000)
	putCommand(t, s, store.Command{SessionID: "s2", CommandText: "make", Timestamp: 2000, GitRepo: strPtr("alpha")})
	putCommand(t, s, store.Command{SessionID: "s2", CommandText: "make", Timestamp: 2001, GitRepo: strPtr("beta")})
	putCommand(t, s, store.Command{SessionID: "s2", CommandText: "make", Timestamp: 2002, GitRepo: strPtr("beta")})

	g, err = graph.Build(s)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	edges = repoRepoEdges(g)
	if len(edges) != 1 {
		t.Fatalf("edges = %d, want still 1", len(edges))
	}
	if edges[0].SharedSessions != 2 {
		t.Errorf("shared_sessions = %d, want 2 (one increment per session, not per command pair)", edges[0].SharedSessions)
	}
}

// ─── Tool thresholds ────────────────────────────────────────────────────────

func TestBuild_KnownToolThreshold(t *testing.T) {
	s := newTestStore(t)
	ensureSession(t, s, "s1", 1000)

	putCommand(t, s, store.Command{SessionID: "s1", CommandText: "git status", Timestamp: 1000})
	putCommand(t, s, store.Command{SessionID: "s1", CommandText: "git diff", Timestamp: 1001})

	g, err := graph.Build(s)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if toolNode(g, "git") != nil {
		t.Error("git with 2 uses should be below the recognized-tool threshold")
	}

	putCommand(t, s, store.Command{SessionID: "s1", CommandText: "git push", Timestamp: 1002})

	g, err = graph.Build(s)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	node := toolNode(g, "git")
	if node == nil {
		t.Fatal("git with 3 uses should be present")
	}
	if node.Commands != 3 {
		t.Errorf("commands = %d, want 3", node.Commands)
	}
}

func TestBuild_UnknownToolThreshold(t *testing.T) {
	s := newTestStore(t)
	ensureSession(t, s, "s1", 1000)

	for i := 0; i < 4; i++ {
		putCommand(t, s, store.Command{SessionID: "s1", CommandText: "frobnicate --all", Timestamp: int64(1000 + i)})
	}

	g, err := graph.Build(s)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if toolNode(g, "frobnicate") != nil {
		t.Error("unrecognized tool with 4 uses should be filtered")
	}

	putCommand(t, s, store.Command{SessionID: "s1", CommandText: "frobnicate --all", Timestamp: 1004})

	g, err = graph.Build(s)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if toolNode(g, "frobnicate") == nil {
		t.Error("unrecognized tool with 5 uses should be present")
	}
}

func TestBuild_ToolBasenameAndCase(t *testing.T) {
	s := newTestStore(t)
	ensureSession(t, s, "s1", 1000)

	putCommand(t, s, store.Command{SessionID: "s1", CommandText: "/usr/bin/GIT status", Timestamp: 1000, GitRepo: strPtr("api")})
	putCommand(t, s, store.Command{SessionID: "s1", CommandText: "git log", Timestamp: 1001, GitRepo: strPtr("api")})
	putCommand(t, s, store.Command{SessionID: "s1", CommandText: "git pull", Timestamp: 1002, GitRepo: strPtr("api")})

	g, err := graph.Build(s)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	node := toolNode(g, "git")
	if node == nil {
		t.Fatal("path-prefixed and mixed-case invocations should fold into one tool")
	}
	if node.Commands != 3 {
		t.Errorf("commands = %d, want 3", node.Commands)
	}
	if len(node.Repos) != 1 || node.Repos[0] != "api" {
		t.Errorf("repos = %v, want [api]", node.Repos)
	}
}

func TestBuild_RepoToolEdgeRestrictedToSurvivors(t *testing.T) {
	s := newTestStore(t)
	ensureSession(t, s, "s1", 1000)

	for i := 0; i < 3; i++ {
		putCommand(t, s, store.Command{SessionID: "s1", CommandText: "git commit", Timestamp: int64(1000 + i), GitRepo: strPtr("api")})
	}
	// One-off unrecognized token in the same repo must not produce an edge.
	putCommand(t, s, store.Command{SessionID: "s1", CommandText: "mystery-script", Timestamp: 1010, GitRepo: strPtr("api")})

	g, err := graph.Build(s)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	var repoTool []*graph.RepoToolEdge
	for _, e := range g.Edges {
		if rt, ok := e.(*graph.RepoToolEdge); ok {
			repoTool = append(repoTool, rt)
		}
	}
	if len(repoTool) != 1 {
		t.Fatalf("repo-tool edges = %d, want 1", len(repoTool))
	}
	if repoTool[0].Tool != "git" || repoTool[0].Repo != "api" || repoTool[0].Weight != 3 {
		t.Errorf("edge = %+v, want api-git weight 3", repoTool[0])
	}
}

// ─── Wire shape ─────────────────────────────────────────────────────────────

func TestGraph_JSONShape(t *testing.T) {
	s := newTestStore(t)
	ensureSession(t, s, "s1", 1000)
	for i := 0; i < 3; i++ {
		putCommand(t, s, store.Command{SessionID: "s1", CommandText: "git pull", Timestamp: int64(1000 + i), GitRepo: strPtr("api")})
	}

	g, err := graph.Build(s)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(data)

	for _, want := range []string{
		`"type":"repo"`, `"type":"tool"`, `"type":"repo-tool"`,
		`"id":"tool:git"`, `"label":"git"`, `"target":"tool:git"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("marshaled graph missing %s:\n%s", want, body)
		}
	}
}
