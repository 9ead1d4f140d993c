package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/spanplan/internal/db"
	"github.com/alexanderramin/spanplan/internal/domain"
)

// LoadTimeline reads the full aggregate (header, rows, items) through q.
// Pass a transaction to get a consistent snapshot.
func LoadTimeline(ctx context.Context, q db.DBTX, id string) (*domain.Timeline, error) {
	t, err := NewSQLiteTimelineRepo(q).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.Rows, err = NewSQLiteRowRepo(q).ListByTimeline(ctx, id); err != nil {
		return nil, fmt.Errorf("loading rows of %s: %w", id, err)
	}
	if t.Items, err = NewSQLiteItemRepo(q).ListByTimeline(ctx, id); err != nil {
		return nil, fmt.Errorf("loading items of %s: %w", id, err)
	}
	return t, nil
}

// InsertTimeline writes a new aggregate through q.
func InsertTimeline(ctx context.Context, q db.DBTX, t *domain.Timeline) error {
	if err := NewSQLiteTimelineRepo(q).Create(ctx, t); err != nil {
		return err
	}
	if err := NewSQLiteRowRepo(q).ReplaceAll(ctx, t.ID, t.Rows); err != nil {
		return err
	}
	return NewSQLiteItemRepo(q).ReplaceAll(ctx, t.ID, t.Items)
}
