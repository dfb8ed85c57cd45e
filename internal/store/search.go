package store

import (
	"fmt"
	"strings"
)

// SearchCommands runs a ranked FTS5 query over the command index
// (command_text, cwd, git_repo, git_branch). The query is passed through
// as a raw MATCH expression; a syntactically invalid query matches
// nothing rather than failing. Results arrive in ascending rank order
// (most relevant first).
func (s *Store) SearchCommands(query string, limit int) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(
		`SELECT c.id, c.session_id, c.command_text, c.timestamp, c.duration_ms,
		        c.cwd, c.git_repo, c.git_branch, c.exit_code, c.output, rank
		 FROM commands_fts f
		 JOIN commands c ON c.id = f.rowid
		 WHERE commands_fts MATCH ?
		 ORDER BY rank
		 LIMIT ?`,
		query, limit,
	)
	if err != nil {
		if isFTSSyntaxError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: search commands: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(
			&r.ID, &r.SessionID, &r.CommandText, &r.Timestamp, &r.DurationMS,
			&r.Cwd, &r.GitRepo, &r.GitBranch, &r.ExitCode, &r.Output, &r.Rank,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		if isFTSSyntaxError(err) {
			return nil, nil
		}
		return nil, err
	}
	return results, nil
}

// SearchSummaries runs a ranked FTS5 query over the summary index
// (summary_text, tags).
func (s *Store) SearchSummaries(query string, limit int) ([]SummarySearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT s.id, s.session_id, s.summary_text, s.tags, s.intent, s.created_at, rank
		 FROM summaries_fts f
		 JOIN summaries s ON s.id = f.rowid
		 WHERE summaries_fts MATCH ?
		 ORDER BY rank
		 LIMIT ?`,
		query, limit,
	)
	if err != nil {
		if isFTSSyntaxError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: search summaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []SummarySearchResult
	for rows.Next() {
		var r SummarySearchResult
		if err := rows.Scan(
			&r.ID, &r.SessionID, &r.SummaryText, &r.Tags, &r.Intent, &r.CreatedAt, &r.Rank,
		); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		if isFTSSyntaxError(err) {
			return nil, nil
		}
		return nil, err
	}
	return results, nil
}
