package store

import "fmt"

// schema holds one entry per schema version; schema[i] upgrades version i to i+1.
// Append only.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS rounds (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		ended_at DATETIME NOT NULL,
		outcome TEXT NOT NULL CHECK(outcome IN ('win', 'lose')),
		spawned INTEGER NOT NULL DEFAULT 0,
		hits INTEGER NOT NULL DEFAULT 0,
		remaining_blossom INTEGER NOT NULL DEFAULT 0,
		remaining_snowflake INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rounds_ended_at ON rounds(ended_at)`,
}

// version reports the schema version recorded in the database.
func (s *Store) version() (int, error) {
	var v int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&v)
	return v, err
}

// migrate applies every schema step past the recorded version, each in its
// own transaction.
func (s *Store) migrate() error {
	current, err := s.version()
	if err != nil {
		return err
	}
	for v := current; v < len(schema); v++ {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(schema[v]); err != nil {
			tx.Rollback()
			return fmt.Errorf("step %d: %w", v+1, err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("step %d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}
