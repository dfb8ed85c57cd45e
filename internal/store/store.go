// Package store implements the durable event store for recall.
//
// It uses SQLite with FTS5 full-text search to persist terminal sessions,
// executed commands, and LLM-derived session summaries. Each text-bearing
// table has a shadow FTS index that is written in the same transaction as
// the base row, so search never drifts from the event history.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Store is the event store backed by SQLite + FTS5. It supports one
// concurrent writer and multiple concurrent readers (WAL mode).
type Store struct {
	db *sql.DB
}

// connPragmas are carried in the DSN so they apply to every pooled
// connection, not just the one a plain Exec would land on. Foreign keys
// in particular are off by default on each new SQLite connection.
const connPragmas = "?_pragma=journal_mode(WAL)" +
	"&_pragma=busy_timeout(5000)" +
	"&_pragma=synchronous(NORMAL)" +
	"&_pragma=foreign_keys(1)"

// Open opens (or creates) the database at dbPath, applies the connection
// pragmas, and initializes the schema idempotently.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	db, err := openDB("sqlite", "file:"+dbPath+connPragmas)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("store: migration: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id           TEXT PRIMARY KEY,
			start_time   INTEGER NOT NULL,
			end_time     INTEGER,
			terminal_app TEXT,
			initial_dir  TEXT
		);

		CREATE TABLE IF NOT EXISTS commands (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id   TEXT    NOT NULL,
			command_text TEXT    NOT NULL,
			timestamp    INTEGER NOT NULL,
			duration_ms  INTEGER,
			cwd          TEXT,
			git_repo     TEXT,
			git_branch   TEXT,
			exit_code    INTEGER,
			output       TEXT,
			FOREIGN KEY (session_id) REFERENCES sessions(id)
		);

		CREATE TABLE IF NOT EXISTS summaries (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id   TEXT    NOT NULL,
			summary_text TEXT    NOT NULL,
			tags         TEXT,
			intent       TEXT,
			created_at   INTEGER NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(id)
		);

		CREATE INDEX IF NOT EXISTS idx_commands_session   ON commands(session_id);
		CREATE INDEX IF NOT EXISTS idx_commands_timestamp ON commands(timestamp);
		CREATE INDEX IF NOT EXISTS idx_commands_exit_code ON commands(exit_code);
		CREATE INDEX IF NOT EXISTS idx_commands_git_repo  ON commands(git_repo);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_summaries_session ON summaries(session_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// FTS5 virtual tables don't support IF NOT EXISTS, so check first.
	// The shadow rows are written explicitly by PutCommand/PutSummary
	// inside the same transaction as the base row — no triggers.
	hasCommandsFTS, err := s.tableExists("commands_fts")
	if err != nil {
		return err
	}
	if !hasCommandsFTS {
		if _, err := s.db.Exec(`
			CREATE VIRTUAL TABLE commands_fts USING fts5(
				command_text, cwd, git_repo, git_branch,
				content='commands', content_rowid='id'
			);
		`); err != nil {
			return err
		}
	}

	hasSummariesFTS, err := s.tableExists("summaries_fts")
	if err != nil {
		return err
	}
	if !hasSummariesFTS {
		if _, err := s.db.Exec(`
			CREATE VIRTUAL TABLE summaries_fts USING fts5(
				summary_text, tags,
				content='summaries', content_rowid='id'
			);
		`); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) tableExists(name string) (bool, error) {
	var found string
	err := s.db.QueryRow(
		`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, name,
	).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

const commandColumns = `id, session_id, command_text, timestamp, duration_ms,
	cwd, git_repo, git_branch, exit_code, output`

func scanCommand(row interface{ Scan(...any) error }) (Command, error) {
	var c Command
	err := row.Scan(
		&c.ID, &c.SessionID, &c.CommandText, &c.Timestamp, &c.DurationMS,
		&c.Cwd, &c.GitRepo, &c.GitBranch, &c.ExitCode, &c.Output,
	)
	return c, err
}

func (s *Store) queryCommands(query string, args ...any) ([]Command, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []Command
	for rows.Next() {
		c, err := scanCommand(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// isFTSSyntaxError reports whether an error came from a malformed FTS5
// MATCH expression. Such queries are treated as matching nothing.
func isFTSSyntaxError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "fts5: syntax error") ||
		strings.Contains(msg, "unknown special query") ||
		strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "unterminated string")
}
