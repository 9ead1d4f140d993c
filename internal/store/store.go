// Package store persists timelines and pushes snapshots to subscribers.
// Updates are last-write-wins per field set: a patch that carries rows
// replaces the whole row collection, one that carries items replaces all
// items.
package store

import (
	"context"
	"errors"

	"github.com/alexanderramin/spanplan/internal/domain"
)

// ErrNotFound is returned for unknown timeline ids.
var ErrNotFound = errors.New("timeline not found")

// TimelineStore is the document store the editor and surfaces talk to.
type TimelineStore interface {
	// Subscribe delivers the current snapshot, then one per change, until
	// ctx is done. Slow readers see coalesced snapshots, never stale ones.
	Subscribe(ctx context.Context, timelineID string) (<-chan domain.Timeline, error)
	// CreateTimeline seeds a new timeline with the default rows.
	CreateTimeline(ctx context.Context, ownerID *string) (*domain.Timeline, error)
	UpdateTimeline(ctx context.Context, timelineID string, patch domain.TimelinePatch) error
	Get(ctx context.Context, timelineID string) (*domain.Timeline, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Timeline, error)
}

// Catalog adds whole-timeline administration to TimelineStore.
type Catalog interface {
	TimelineStore
	List(ctx context.Context) ([]*domain.Timeline, error)
	// Import writes a complete timeline, keeping its ids.
	Import(ctx context.Context, t *domain.Timeline) error
	Delete(ctx context.Context, timelineID string) error
}
