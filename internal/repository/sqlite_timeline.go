package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/spanplan/internal/db"
	"github.com/alexanderramin/spanplan/internal/domain"
)

// timelineColumns is the canonical SELECT column list for timelines.
const timelineColumns = `id, owner_id, revision, created_at`

// SQLiteTimelineRepo implements TimelineRepo using a SQLite database.
type SQLiteTimelineRepo struct {
	db db.DBTX
}

// NewSQLiteTimelineRepo creates a new SQLiteTimelineRepo.
func NewSQLiteTimelineRepo(db db.DBTX) *SQLiteTimelineRepo {
	return &SQLiteTimelineRepo{db: db}
}

func (r *SQLiteTimelineRepo) Create(ctx context.Context, t *domain.Timeline) error {
	query := `INSERT INTO timelines (id, owner_id, revision, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		nullableString(t.OwnerID),
		t.Revision,
		t.CreatedAt.UTC().Format(time.RFC3339),
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting timeline: %w", err)
	}
	return nil
}

func (r *SQLiteTimelineRepo) GetByID(ctx context.Context, id string) (*domain.Timeline, error) {
	query := `SELECT ` + timelineColumns + ` FROM timelines WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var t domain.Timeline
	var ownerID sql.NullString
	var createdAtStr string
	if err := row.Scan(&t.ID, &ownerID, &t.Revision, &createdAtStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("timeline: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning timeline: %w", err)
	}
	return populateTimeline(&t, ownerID, createdAtStr)
}

func (r *SQLiteTimelineRepo) List(ctx context.Context) ([]*domain.Timeline, error) {
	query := `SELECT ` + timelineColumns + ` FROM timelines ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing timelines: %w", err)
	}
	defer rows.Close()
	return scanTimelines(rows)
}

func (r *SQLiteTimelineRepo) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Timeline, error) {
	query := `SELECT ` + timelineColumns + ` FROM timelines WHERE owner_id = ? ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing timelines by owner: %w", err)
	}
	defer rows.Close()
	return scanTimelines(rows)
}

func (r *SQLiteTimelineRepo) BumpRevision(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE timelines SET revision = revision + 1, updated_at = ? WHERE id = ?`, nowUTC(), id)
	if err != nil {
		return 0, fmt.Errorf("bumping timeline revision: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return 0, fmt.Errorf("timeline: %w", ErrNotFound)
	}
	return r.Revision(ctx, id)
}

func (r *SQLiteTimelineRepo) Revision(ctx context.Context, id string) (int64, error) {
	var rev int64
	err := r.db.QueryRowContext(ctx, `SELECT revision FROM timelines WHERE id = ?`, id).Scan(&rev)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("timeline: %w", ErrNotFound)
		}
		return 0, fmt.Errorf("reading timeline revision: %w", err)
	}
	return rev, nil
}

func (r *SQLiteTimelineRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM timelines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting timeline: %w", err)
	}
	return nil
}

// scanTimelines scans multiple timeline headers from *sql.Rows.
func scanTimelines(rows *sql.Rows) ([]*domain.Timeline, error) {
	var out []*domain.Timeline
	for rows.Next() {
		var t domain.Timeline
		var ownerID sql.NullString
		var createdAtStr string
		if err := rows.Scan(&t.ID, &ownerID, &t.Revision, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning timeline row: %w", err)
		}
		tl, err := populateTimeline(&t, ownerID, createdAtStr)
		if err != nil {
			return nil, err
		}
		out = append(out, tl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating timelines: %w", err)
	}
	return out, nil
}

// populateTimeline fills in parsed fields on a Timeline after scanning raw strings.
func populateTimeline(t *domain.Timeline, ownerID sql.NullString, createdAtStr string) (*domain.Timeline, error) {
	t.OwnerID = stringPtr(ownerID)
	createdAt, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing timeline created_at: %w", err)
	}
	t.CreatedAt = createdAt
	return t, nil
}
