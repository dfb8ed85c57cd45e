package store

import "database/sql"

// DB exposes the underlying handle to package tests.
func (s *Store) DB() *sql.DB { return s.db }
