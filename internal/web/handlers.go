package web

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/recall-sh/recall/internal/graph"
	"github.com/recall-sh/recall/internal/logging"
	"github.com/recall-sh/recall/internal/store"
)

// sessionView is a session row enriched with per-session aggregates the
// timeline needs in one round trip.
type sessionView struct {
	ID           string   `json:"id"`
	StartTime    int64    `json:"start_time"`
	EndTime      *int64   `json:"end_time"`
	TerminalApp  *string  `json:"terminal_app"`
	InitialDir   *string  `json:"initial_dir"`
	CommandCount int      `json:"command_count"`
	HasFailures  bool     `json:"has_failures"`
	FailureCount int      `json:"failure_count"`
	Repos        []string `json:"repos"`
	Branches     []string `json:"branches"`
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 200)
	offset := queryInt(r, "offset", 0)

	sessions, err := s.store.SessionsPage(limit, offset)
	if err != nil {
		s.internalError(w, "list sessions", err)
		return
	}

	enriched := make([]sessionView, 0, len(sessions))
	for _, sess := range sessions {
		cmds, err := s.store.CommandsInSession(sess.ID)
		if err != nil {
			s.internalError(w, "load session commands", err)
			return
		}

		view := sessionView{
			ID:          sess.ID,
			StartTime:   sess.StartTime,
			EndTime:     sess.EndTime,
			TerminalApp: sess.TerminalApp,
			InitialDir:  sess.InitialDir,
			Repos:       []string{},
			Branches:    []string{},
		}
		view.CommandCount = len(cmds)
		for i := range cmds {
			if cmds[i].Failed() {
				view.FailureCount++
			}
		}
		view.HasFailures = view.FailureCount > 0
		view.Repos = distinctValues(cmds, func(c *store.Command) *string { return c.GitRepo })
		view.Branches = distinctValues(cmds, func(c *store.Command) *string { return c.GitBranch })

		enriched = append(enriched, view)
	}

	writeJSON(w, map[string]any{"sessions": enriched})
}

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	var (
		commands []store.Command
		err      error
	)
	if sessionID := r.URL.Query().Get("session_id"); sessionID != "" {
		commands, err = s.store.CommandsInSession(sessionID)
	} else {
		commands, err = s.store.RecentCommands(queryInt(r, "limit", 100))
	}
	if err != nil {
		s.internalError(w, "list commands", err)
		return
	}
	if commands == nil {
		commands = []store.Command{}
	}
	writeJSON(w, map[string]any{"commands": commands})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", 50)

	results, err := s.store.SearchCommands(query, limit)
	if err != nil {
		s.internalError(w, "search commands", err)
		return
	}
	if results == nil {
		results = []store.SearchResult{}
	}
	writeJSON(w, map[string]any{"results": results})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		s.internalError(w, "load stats", err)
		return
	}
	writeJSON(w, stats)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	g, err := graph.Build(s.store)
	if err != nil {
		s.internalError(w, "build graph", err)
		return
	}
	writeJSON(w, g)
}

// internalError hides the failure detail from the client and logs it.
func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	logging.Logger.Error("request failed", "op", op, "error", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger.Error("response encode failed", "error", err)
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// distinctValues collects the sorted distinct non-nil values of one
// command field.
func distinctValues(cmds []store.Command, field func(*store.Command) *string) []string {
	seen := make(map[string]struct{})
	for i := range cmds {
		if v := field(&cmds[i]); v != nil && *v != "" {
			seen[*v] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
