package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/spanplan/internal/db"
	"github.com/alexanderramin/spanplan/internal/domain"
)

// itemColumns is the canonical SELECT column list for timeline_items.
const itemColumns = `id, row_id, title, subtitle, color, start_date, end_date`

// SQLiteItemRepo implements ItemRepo using a SQLite database.
type SQLiteItemRepo struct {
	db db.DBTX
}

// NewSQLiteItemRepo creates a new SQLiteItemRepo.
func NewSQLiteItemRepo(db db.DBTX) *SQLiteItemRepo {
	return &SQLiteItemRepo{db: db}
}

// ListByTimeline returns items in stored (slice) order.
func (r *SQLiteItemRepo) ListByTimeline(ctx context.Context, timelineID string) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM timeline_items WHERE timeline_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, timelineID)
	if err != nil {
		return nil, fmt.Errorf("listing items by timeline: %w", err)
	}
	defer rows.Close()
	return r.scanItems(rows)
}

func (r *SQLiteItemRepo) CountByTimeline(ctx context.Context, timelineID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM timeline_items WHERE timeline_id = ?`, timelineID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return n, nil
}

func (r *SQLiteItemRepo) ReplaceAll(ctx context.Context, timelineID string, items []domain.Item) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM timeline_items WHERE timeline_id = ?`, timelineID); err != nil {
		return fmt.Errorf("clearing timeline items: %w", err)
	}
	query := `INSERT INTO timeline_items (id, timeline_id, row_id, title, subtitle, color,
		start_date, end_date, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i, it := range items {
		_, err := r.db.ExecContext(ctx, query,
			it.ID,
			timelineID,
			nullableString(it.RowID),
			domain.CoalesceStr(it.Title, domain.UntitledTitle),
			it.Subtitle,
			it.Color,
			nullableTimeToString(it.StartDate, dateLayout),
			nullableTimeToString(it.EndDate, dateLayout),
			i,
		)
		if err != nil {
			return fmt.Errorf("inserting timeline item %s: %w", it.ID, err)
		}
	}
	return nil
}

// scanItems scans multiple items from *sql.Rows.
func (r *SQLiteItemRepo) scanItems(rows *sql.Rows) ([]domain.Item, error) {
	out := []domain.Item{}
	for rows.Next() {
		var it domain.Item
		var rowID, startStr, endStr sql.NullString
		if err := rows.Scan(&it.ID, &rowID, &it.Title, &it.Subtitle, &it.Color, &startStr, &endStr); err != nil {
			return nil, fmt.Errorf("scanning timeline item: %w", err)
		}
		it.RowID = stringPtr(rowID)
		it.StartDate = parseNullableTime(startStr, dateLayout)
		it.EndDate = parseNullableTime(endStr, dateLayout)
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timeline items: %w", err)
	}
	return out, nil
}
