package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/spanplan/internal/domain"
)

var (
	ErrItemNotFound = errors.New("item not found")
	ErrRowNotFound  = errors.New("row not found")
)

// TimelineService manages whole timelines. Per-item editing goes through
// an Editor opened on one timeline.
type TimelineService interface {
	// Create makes a timeline seeded with the default rows and, when
	// withSample is set, one example item in the first row.
	Create(ctx context.Context, ownerID *string, withSample bool) (*domain.Timeline, error)
	Get(ctx context.Context, id string) (*domain.Timeline, error)
	List(ctx context.Context) ([]*domain.Timeline, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Timeline, error)
	Import(ctx context.Context, t *domain.Timeline) error
	Delete(ctx context.Context, id string) error
}
