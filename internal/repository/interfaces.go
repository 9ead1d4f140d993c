package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/spanplan/internal/domain"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("not found")

// TimelineRepo persists timeline headers. Rows and items live in their own
// tables and are loaded separately.
type TimelineRepo interface {
	Create(ctx context.Context, t *domain.Timeline) error
	GetByID(ctx context.Context, id string) (*domain.Timeline, error)
	List(ctx context.Context) ([]*domain.Timeline, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Timeline, error)
	// BumpRevision increments and returns the revision counter.
	BumpRevision(ctx context.Context, id string) (int64, error)
	Revision(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type RowRepo interface {
	ListByTimeline(ctx context.Context, timelineID string) ([]domain.Row, error)
	// ReplaceAll overwrites the timeline's row collection, keeping slice order.
	ReplaceAll(ctx context.Context, timelineID string, rows []domain.Row) error
}

type ItemRepo interface {
	ListByTimeline(ctx context.Context, timelineID string) ([]domain.Item, error)
	// ReplaceAll overwrites the timeline's item collection, keeping slice order.
	ReplaceAll(ctx context.Context, timelineID string, items []domain.Item) error
	CountByTimeline(ctx context.Context, timelineID string) (int, error)
}
