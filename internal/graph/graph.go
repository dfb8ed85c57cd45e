// Package graph derives a repository/tool relationship graph from the
// flat event history: which repos share sessions, which tools run where,
// and how much activity (and failure) each has seen.
package graph

import (
	"fmt"
	"sort"

	"github.com/recall-sh/recall/internal/store"
)

// sessionWindow bounds the computation to the most recent sessions for
// cost control.
const sessionWindow = 500

type repoStats struct {
	commands   int
	sessions   int
	failures   int
	lastActive int64
	branches   map[string]struct{}
}

type toolStats struct {
	commands int
	failures int
	sessions map[string]struct{}
	repos    map[string]struct{}
}

type repoPair struct{ a, b string }

// Build computes the relationship graph fresh from the current event
// history. Weights and set memberships are exactly reproducible for a
// fixed history; node/edge order is sorted only for stable output.
func Build(s *store.Store) (*Graph, error) {
	sessions, err := s.SessionsPage(sessionWindow, 0)
	if err != nil {
		return nil, fmt.Errorf("graph: list sessions: %w", err)
	}

	repos := map[string]*repoStats{}
	tools := map[string]*toolStats{}
	pairWeights := map[repoPair]int{}
	repoToolCounts := map[repoPair]int{} // a=repo display name, b=tool

	for _, sess := range sessions {
		cmds, err := s.CommandsInSession(sess.ID)
		if err != nil {
			return nil, fmt.Errorf("graph: commands for session %s: %w", sess.ID, err)
		}

		// Distinct repos referenced in this session, keyed by the exact
		// repo string; display names trim to the last path segment.
		distinct := map[string]struct{}{}
		for i := range cmds {
			if cmds[i].GitRepo != nil {
				distinct[*cmds[i].GitRepo] = struct{}{}
			}
		}

		var names []string
		for repo := range distinct {
			name := displayName(repo)
			names = append(names, name)

			st := repos[name]
			if st == nil {
				st = &repoStats{branches: map[string]struct{}{}}
				repos[name] = st
			}
			st.sessions++
			if sess.StartTime > st.lastActive {
				st.lastActive = sess.StartTime
			}
			for i := range cmds {
				c := &cmds[i]
				if c.GitRepo == nil || *c.GitRepo != repo {
					continue
				}
				st.commands++
				if c.Failed() {
					st.failures++
				}
				if c.GitBranch != nil {
					st.branches[*c.GitBranch] = struct{}{}
				}
			}
		}

		// One co-occurrence increment per session the pair shares,
		// keyed by the lexicographically ordered pair. Display names are
		// deduped first so two repo strings trimming to the same name
		// cannot double-count a session.
		sort.Strings(names)
		names = dedupSorted(names)
		for i := 0; i < len(names); i++ {
			for j := i + 1; j < len(names); j++ {
				pairWeights[repoPair{names[i], names[j]}]++
			}
		}

		// Tool extraction over every command in the session.
		for i := range cmds {
			c := &cmds[i]
			tool := extractTool(c.CommandText)
			if tool == "" {
				continue
			}

			st := tools[tool]
			if st == nil {
				st = &toolStats{sessions: map[string]struct{}{}, repos: map[string]struct{}{}}
				tools[tool] = st
			}
			st.commands++
			if c.Failed() {
				st.failures++
			}
			st.sessions[sess.ID] = struct{}{}

			if c.GitRepo != nil {
				name := displayName(*c.GitRepo)
				st.repos[name] = struct{}{}
				repoToolCounts[repoPair{name, tool}]++
			}
		}
	}

	g := &Graph{}

	for _, name := range sortedKeys(repos) {
		st := repos[name]
		g.Nodes = append(g.Nodes, &RepoNode{
			Name:       name,
			Commands:   st.commands,
			Sessions:   st.sessions,
			Failures:   st.failures,
			LastActive: st.lastActive,
			Branches:   sortedSet(st.branches),
		})
	}

	surviving := map[string]struct{}{}
	for _, name := range sortedKeys(tools) {
		st := tools[name]
		if !keepTool(name, st.commands) {
			continue
		}
		surviving[name] = struct{}{}
		g.Nodes = append(g.Nodes, &ToolNode{
			Name:     name,
			Commands: st.commands,
			Failures: st.failures,
			Sessions: len(st.sessions),
			Repos:    sortedSet(st.repos),
		})
	}

	for _, pair := range sortedPairs(pairWeights) {
		g.Edges = append(g.Edges, &RepoRepoEdge{
			Source:         pair.a,
			Target:         pair.b,
			SharedSessions: pairWeights[pair],
		})
	}

	for _, pair := range sortedPairs(repoToolCounts) {
		if _, ok := surviving[pair.b]; !ok {
			continue
		}
		g.Edges = append(g.Edges, &RepoToolEdge{
			Repo:   pair.a,
			Tool:   pair.b,
			Weight: repoToolCounts[pair],
		})
	}

	return g, nil
}

// displayName trims a repo identifier to its last path segment.
func displayName(repo string) string {
	for i := len(repo) - 1; i >= 0; i-- {
		if repo[i] == '/' {
			return repo[i+1:]
		}
	}
	return repo
}

func dedupSorted(names []string) []string {
	out := names[:0]
	for i, n := range names {
		if i == 0 || n != names[i-1] {
			out = append(out, n)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func sortedPairs[V any](m map[repoPair]V) []repoPair {
	pairs := make([]repoPair, 0, len(m))
	for p := range m {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].a != pairs[j].a {
			return pairs[i].a < pairs[j].a
		}
		return pairs[i].b < pairs[j].b
	})
	return pairs
}
