package store

import (
	"database/sql"
	"fmt"
)

// GetSession retrieves a session by id. Returns sql.ErrNoRows when absent.
func (s *Store) GetSession(id string) (*Session, error) {
	row := s.db.QueryRow(
		`SELECT id, start_time, end_time, terminal_app, initial_dir FROM sessions WHERE id = ?`, id,
	)
	var sess Session
	if err := row.Scan(&sess.ID, &sess.StartTime, &sess.EndTime, &sess.TerminalApp, &sess.InitialDir); err != nil {
		return nil, err
	}
	return &sess, nil
}

// SessionsPage returns sessions ordered by start_time descending.
func (s *Store) SessionsPage(limit, offset int) ([]Session, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := s.db.Query(
		`SELECT id, start_time, end_time, terminal_app, initial_dir
		 FROM sessions
		 ORDER BY start_time DESC
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.StartTime, &sess.EndTime, &sess.TerminalApp, &sess.InitialDir); err != nil {
			return nil, err
		}
		results = append(results, sess)
	}
	return results, rows.Err()
}

// CommandsInSession returns a session's commands ordered by timestamp
// ascending. An unknown session id yields an empty slice, not an error.
func (s *Store) CommandsInSession(sessionID string) ([]Command, error) {
	cmds, err := s.queryCommands(
		`SELECT `+commandColumns+`
		 FROM commands
		 WHERE session_id = ?
		 ORDER BY timestamp ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("store: session commands: %w", err)
	}
	return cmds, nil
}

// CommandsBetween returns commands with start <= timestamp < end,
// ordered by timestamp ascending.
func (s *Store) CommandsBetween(start, end int64) ([]Command, error) {
	cmds, err := s.queryCommands(
		`SELECT `+commandColumns+`
		 FROM commands
		 WHERE timestamp >= ? AND timestamp < ?
		 ORDER BY timestamp ASC`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("store: commands between: %w", err)
	}
	return cmds, nil
}

// RecentCommands returns the most recent commands, newest first.
func (s *Store) RecentCommands(limit int) ([]Command, error) {
	if limit <= 0 {
		limit = 100
	}
	cmds, err := s.queryCommands(
		`SELECT `+commandColumns+`
		 FROM commands
		 ORDER BY timestamp DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("store: recent commands: %w", err)
	}
	return cmds, nil
}

// UnsummarizedSessions returns ids of sessions that have no summary yet
// and at least minCommands recorded commands.
func (s *Store) UnsummarizedSessions(minCommands int) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT s.id
		 FROM sessions s
		 LEFT JOIN summaries su ON su.session_id = s.id
		 WHERE su.id IS NULL
		 GROUP BY s.id
		 HAVING (SELECT COUNT(*) FROM commands c WHERE c.session_id = s.id) >= ?`,
		minCommands,
	)
	if err != nil {
		return nil, fmt.Errorf("store: unsummarized sessions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SummaryForSession returns the session's summary, or nil when none exists.
func (s *Store) SummaryForSession(sessionID string) (*Summary, error) {
	row := s.db.QueryRow(
		`SELECT id, session_id, summary_text, tags, intent, created_at
		 FROM summaries WHERE session_id = ?`,
		sessionID,
	)
	var sum Summary
	err := row.Scan(&sum.ID, &sum.SessionID, &sum.SummaryText, &sum.Tags, &sum.Intent, &sum.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: session summary: %w", err)
	}
	return &sum, nil
}

// Stats returns aggregate history statistics.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&stats.Sessions); err != nil {
		return nil, fmt.Errorf("store: count sessions: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM commands`).Scan(&stats.Commands); err != nil {
		return nil, fmt.Errorf("store: count commands: %w", err)
	}
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM commands WHERE exit_code IS NOT NULL AND exit_code != 0`,
	).Scan(&stats.Failures); err != nil {
		return nil, fmt.Errorf("store: count failures: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT DISTINCT git_repo FROM commands WHERE git_repo IS NOT NULL ORDER BY git_repo`,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list repos: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var repo string
		if err := rows.Scan(&repo); err != nil {
			return nil, err
		}
		stats.RepoNames = append(stats.RepoNames, repo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	stats.Repos = len(stats.RepoNames)

	return stats, nil
}
