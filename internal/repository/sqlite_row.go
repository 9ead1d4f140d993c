package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/spanplan/internal/db"
	"github.com/alexanderramin/spanplan/internal/domain"
)

// SQLiteRowRepo implements RowRepo using a SQLite database.
type SQLiteRowRepo struct {
	db db.DBTX
}

// NewSQLiteRowRepo creates a new SQLiteRowRepo.
func NewSQLiteRowRepo(db db.DBTX) *SQLiteRowRepo {
	return &SQLiteRowRepo{db: db}
}

// ListByTimeline returns rows in stored (slice) order, not display order.
func (r *SQLiteRowRepo) ListByTimeline(ctx context.Context, timelineID string) ([]domain.Row, error) {
	query := `SELECT id, name, order_index FROM timeline_rows WHERE timeline_id = ? ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query, timelineID)
	if err != nil {
		return nil, fmt.Errorf("listing rows by timeline: %w", err)
	}
	defer rows.Close()

	out := []domain.Row{}
	for rows.Next() {
		var row domain.Row
		if err := rows.Scan(&row.ID, &row.Name, &row.Order); err != nil {
			return nil, fmt.Errorf("scanning timeline row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timeline rows: %w", err)
	}
	return out, nil
}

func (r *SQLiteRowRepo) ReplaceAll(ctx context.Context, timelineID string, rows []domain.Row) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM timeline_rows WHERE timeline_id = ?`, timelineID); err != nil {
		return fmt.Errorf("clearing timeline rows: %w", err)
	}
	query := `INSERT INTO timeline_rows (id, timeline_id, name, order_index, position)
		VALUES (?, ?, ?, ?, ?)`
	for i, row := range rows {
		if _, err := r.db.ExecContext(ctx, query, row.ID, timelineID, row.Name, row.Order, i); err != nil {
			return fmt.Errorf("inserting timeline row %s: %w", row.ID, err)
		}
	}
	return nil
}
