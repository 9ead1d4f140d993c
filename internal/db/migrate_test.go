package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Run migrations a second time; should succeed without error.
	err := Migrate(db)
	require.NoError(t, err)

	// Third time for good measure.
	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"timelines", "timeline_rows", "timeline_items"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_timelines_owner",
		"idx_timeline_rows_timeline",
		"idx_timeline_items_timeline",
		"idx_timeline_items_row",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk)
	require.NoError(t, err)
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_RevisionColumn(t *testing.T) {
	db := openTestDB(t)

	rows, err := db.Query(`PRAGMA table_info(timelines)`)
	require.NoError(t, err)
	defer rows.Close()

	found := false
	for rows.Next() {
		var cid int
		var name, typ string
		var notNull, pk int
		var dflt sql.NullString
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		if name == "revision" {
			found = true
		}
	}
	assert.True(t, found, "timelines table should have revision column")
}

func TestMigrate_ItemScheduleCheckConstraints(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO timelines (id, created_at, updated_at) VALUES ('t1', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO timeline_items (id, timeline_id, row_id, start_date, end_date)
		VALUES ('i1', 't1', 'r1', '2024-06-01', NULL)`)
	assert.Error(t, err, "half-scheduled item should be rejected")

	_, err = db.Exec(`INSERT INTO timeline_items (id, timeline_id, row_id, start_date, end_date)
		VALUES ('i1', 't1', NULL, '2024-06-01', '2024-06-02')`)
	assert.Error(t, err, "scheduled item without a row should be rejected")

	_, err = db.Exec(`INSERT INTO timeline_items (id, timeline_id, row_id, start_date, end_date)
		VALUES ('i1', 't1', 'r1', '2024-06-09', '2024-06-02')`)
	assert.Error(t, err, "inverted dates should be rejected")

	_, err = db.Exec(`INSERT INTO timeline_items (id, timeline_id) VALUES ('i1', 't1')`)
	require.NoError(t, err, "backlog item is valid")

	_, err = db.Exec(`INSERT INTO timeline_items (id, timeline_id, row_id, start_date, end_date)
		VALUES ('i2', 't1', 'gone', '2024-06-01', '2024-06-01')`)
	assert.NoError(t, err, "row_id is not a foreign key")
}

func TestMigrate_CascadeOnTimelineDelete(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO timelines (id, created_at, updated_at) VALUES ('t1', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO timeline_rows (id, timeline_id, name) VALUES ('r1', 't1', 'Row 1')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO timeline_items (id, timeline_id) VALUES ('i1', 't1')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM timelines WHERE id = 't1'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM timeline_rows`).Scan(&n))
	assert.Equal(t, 0, n)
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM timeline_items`).Scan(&n))
	assert.Equal(t, 0, n)
}
