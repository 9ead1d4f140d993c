package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS timelines (
		id          TEXT PRIMARY KEY,
		owner_id    TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS timeline_rows (
		id          TEXT PRIMARY KEY,
		timeline_id TEXT NOT NULL REFERENCES timelines(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		order_index INTEGER NOT NULL DEFAULT 0,
		position    INTEGER NOT NULL DEFAULT 0
	)`,

	// row_id is not a foreign key: an item may reference a deleted row and
	// is then skipped on render.
	`CREATE TABLE IF NOT EXISTS timeline_items (
		id          TEXT PRIMARY KEY,
		timeline_id TEXT NOT NULL REFERENCES timelines(id) ON DELETE CASCADE,
		row_id      TEXT,
		title       TEXT NOT NULL DEFAULT 'Untitled',
		subtitle    TEXT NOT NULL DEFAULT '',
		color       TEXT NOT NULL DEFAULT '',
		start_date  TEXT,
		end_date    TEXT,
		position    INTEGER NOT NULL DEFAULT 0,
		CHECK((start_date IS NULL) = (end_date IS NULL)),
		CHECK((row_id IS NULL) = (start_date IS NULL)),
		CHECK(start_date IS NULL OR start_date <= end_date)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_timelines_owner ON timelines(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_timeline_rows_timeline ON timeline_rows(timeline_id)`,
	`CREATE INDEX IF NOT EXISTS idx_timeline_items_timeline ON timeline_items(timeline_id)`,
	`CREATE INDEX IF NOT EXISTS idx_timeline_items_row ON timeline_items(row_id)`,

	// Revision counter used by subscribers to detect writes from other processes.
	`ALTER TABLE timelines ADD COLUMN revision INTEGER NOT NULL DEFAULT 0`,
}
