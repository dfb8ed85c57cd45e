package graph

import "encoding/json"

// Node is a vertex in the relationship graph: a repository or a tool.
type Node interface {
	NodeID() string
	isNode()
}

// Edge connects two nodes: repo-repo co-occurrence or repo-tool usage.
type Edge interface {
	isEdge()
}

// Graph is the derived relationship graph. It is recomputed on each
// request and never persisted.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// RepoNode aggregates activity for one repository (display name, last
// path segment of the observed repo string).
type RepoNode struct {
	Name       string
	Commands   int
	Sessions   int
	Failures   int
	LastActive int64
	Branches   []string
}

func (n *RepoNode) NodeID() string { return n.Name }
func (n *RepoNode) isNode()        {}

// MarshalJSON is the single mapping from RepoNode to its wire shape.
func (n *RepoNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         string   `json:"id"`
		Label      string   `json:"label"`
		Type       string   `json:"type"`
		Commands   int      `json:"commands"`
		Sessions   int      `json:"sessions"`
		Failures   int      `json:"failures"`
		LastActive int64    `json:"last_active"`
		Branches   []string `json:"branches"`
	}{
		ID:         n.Name,
		Label:      n.Name,
		Type:       "repo",
		Commands:   n.Commands,
		Sessions:   n.Sessions,
		Failures:   n.Failures,
		LastActive: n.LastActive,
		Branches:   n.Branches,
	})
}

// ToolNode aggregates usage of one CLI program extracted from command
// lines. Its id carries a "tool:" prefix so it never collides with a
// repo of the same name.
type ToolNode struct {
	Name     string
	Commands int
	Failures int
	Sessions int
	Repos    []string
}

func (n *ToolNode) NodeID() string { return "tool:" + n.Name }
func (n *ToolNode) isNode()        {}

// MarshalJSON is the single mapping from ToolNode to its wire shape.
func (n *ToolNode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       string   `json:"id"`
		Label    string   `json:"label"`
		Type     string   `json:"type"`
		Commands int      `json:"commands"`
		Failures int      `json:"failures"`
		Sessions int      `json:"sessions"`
		Repos    []string `json:"repos"`
	}{
		ID:       n.NodeID(),
		Label:    n.Name,
		Type:     "tool",
		Commands: n.Commands,
		Failures: n.Failures,
		Sessions: n.Sessions,
		Repos:    n.Repos,
	})
}

// RepoRepoEdge links two repositories that were both active in the same
// session. Source/Target are kept in lexicographic order so each
// unordered pair produces exactly one edge.
type RepoRepoEdge struct {
	Source         string
	Target         string
	SharedSessions int
}

func (e *RepoRepoEdge) isEdge() {}

func (e *RepoRepoEdge) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Source         string `json:"source"`
		Target         string `json:"target"`
		Type           string `json:"type"`
		SharedSessions int    `json:"shared_sessions"`
	}{
		Source:         e.Source,
		Target:         e.Target,
		Type:           "repo-repo",
		SharedSessions: e.SharedSessions,
	})
}

// RepoToolEdge links a repository to a tool, weighted by how many times
// the tool ran while that repo was the active git context.
type RepoToolEdge struct {
	Repo   string
	Tool   string
	Weight int
}

func (e *RepoToolEdge) isEdge() {}

func (e *RepoToolEdge) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Source string `json:"source"`
		Target string `json:"target"`
		Type   string `json:"type"`
		Weight int    `json:"weight"`
	}{
		Source: e.Repo,
		Target: "tool:" + e.Tool,
		Type:   "repo-tool",
		Weight: e.Weight,
	})
}
