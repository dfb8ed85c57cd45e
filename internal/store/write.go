package store

import (
	"fmt"
)

// PutSession inserts a session if absent. Duplicate ids are silently
// ignored; the first write's field values win. Sessions are never
// updated or deleted afterwards.
func (s *Store) PutSession(sess *Session) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO sessions (id, start_time, end_time, terminal_app, initial_dir)
		 VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.StartTime, sess.EndTime, sess.TerminalApp, sess.InitialDir,
	)
	if err != nil {
		return fmt.Errorf("store: insert session: %w", err)
	}
	return nil
}

// PutCommand appends a command and its FTS index row in one transaction,
// returning the assigned id. The referenced session must already exist;
// a dangling session_id is rejected by the foreign key, not stored.
func (s *Store) PutCommand(cmd *Command) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("store: begin command insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(
		`INSERT INTO commands (session_id, command_text, timestamp, duration_ms, cwd, git_repo, git_branch, exit_code, output)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		cmd.SessionID, cmd.CommandText, cmd.Timestamp, cmd.DurationMS,
		cmd.Cwd, cmd.GitRepo, cmd.GitBranch, cmd.ExitCode, cmd.Output,
	)
	if err != nil {
		return 0, fmt.Errorf("store: insert command: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: command id: %w", err)
	}

	// Shadow index row. If this fails the whole insert fails — the
	// index must never drift from the base table.
	if _, err := tx.Exec(
		`INSERT INTO commands_fts (rowid, command_text, cwd, git_repo, git_branch)
		 VALUES (?, ?, ?, ?, ?)`,
		id, cmd.CommandText, cmd.Cwd, cmd.GitRepo, cmd.GitBranch,
	); err != nil {
		return 0, fmt.Errorf("store: index command: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit command insert: %w", err)
	}
	return id, nil
}

// PutSummary stores a session summary and its FTS index row in one
// transaction. At most one summary exists per session: re-summarizing
// replaces the previous summary (and its index entry).
func (s *Store) PutSummary(sum *Summary) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("store: begin summary insert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Replace policy: drop any previous summary row and its index entry
	// before inserting, so the unique session_id index never fires.
	rows, err := tx.Query(
		`SELECT id, summary_text, tags FROM summaries WHERE session_id = ?`, sum.SessionID,
	)
	if err != nil {
		return 0, fmt.Errorf("store: lookup previous summary: %w", err)
	}
	type prior struct {
		id   int64
		text string
		tags *string
	}
	var stale []prior
	for rows.Next() {
		var p prior
		if err := rows.Scan(&p.id, &p.text, &p.tags); err != nil {
			_ = rows.Close()
			return 0, fmt.Errorf("store: scan previous summary: %w", err)
		}
		stale = append(stale, p)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, err
	}
	_ = rows.Close()

	for _, p := range stale {
		if _, err := tx.Exec(
			`INSERT INTO summaries_fts (summaries_fts, rowid, summary_text, tags)
			 VALUES ('delete', ?, ?, ?)`,
			p.id, p.text, p.tags,
		); err != nil {
			return 0, fmt.Errorf("store: deindex previous summary: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM summaries WHERE id = ?`, p.id); err != nil {
			return 0, fmt.Errorf("store: delete previous summary: %w", err)
		}
	}

	res, err := tx.Exec(
		`INSERT INTO summaries (session_id, summary_text, tags, intent, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sum.SessionID, sum.SummaryText, sum.Tags, sum.Intent, sum.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("store: insert summary: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("store: summary id: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO summaries_fts (rowid, summary_text, tags)
		 VALUES (?, ?, ?)`,
		id, sum.SummaryText, sum.Tags,
	); err != nil {
		return 0, fmt.Errorf("store: index summary: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("store: commit summary insert: %w", err)
	}
	return id, nil
}
