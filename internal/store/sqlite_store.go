package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/spanplan/internal/db"
	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/repository"
)

// SQLiteStore implements TimelineStore over the SQLite repositories.
type SQLiteStore struct {
	uow db.UnitOfWork
	hub *Hub
	now func() time.Time
}

type Option func(*SQLiteStore)

// WithUnitOfWork overrides the transaction runner, mainly for fault
// injection in tests.
func WithUnitOfWork(uow db.UnitOfWork) Option {
	return func(s *SQLiteStore) { s.uow = uow }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStore) { s.now = now }
}

func NewSQLiteStore(database *sql.DB, opts ...Option) *SQLiteStore {
	s := &SQLiteStore{
		uow: db.NewSQLiteUnitOfWork(database),
		hub: NewHub(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hub exposes the fan-out so other transports can observe subscriptions.
func (s *SQLiteStore) Hub() *Hub { return s.hub }

func (s *SQLiteStore) CreateTimeline(ctx context.Context, ownerID *string) (*domain.Timeline, error) {
	t := &domain.Timeline{
		ID:        domain.NewID(),
		OwnerID:   ownerID,
		CreatedAt: s.now().UTC().Truncate(time.Second),
		Rows:      domain.DefaultRows(),
		Items:     []domain.Item{},
	}
	if err := s.Import(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Import writes a complete timeline, keeping its ids. It fails if the id
// is already taken.
func (s *SQLiteStore) Import(ctx context.Context, t *domain.Timeline) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("importing timeline %s: %w", t.ID, err)
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.InsertTimeline(ctx, tx, t)
	})
	if err != nil {
		return fmt.Errorf("creating timeline: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateTimeline(ctx context.Context, timelineID string, patch domain.TimelinePatch) error {
	if patch.Items != nil {
		for _, it := range *patch.Items {
			if err := it.Validate(); err != nil {
				return fmt.Errorf("updating timeline %s: %w", timelineID, err)
			}
		}
	}
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteTimelineRepo(tx).BumpRevision(ctx, timelineID); err != nil {
			return err
		}
		if patch.Rows != nil {
			if err := repository.NewSQLiteRowRepo(tx).ReplaceAll(ctx, timelineID, *patch.Rows); err != nil {
				return err
			}
		}
		if patch.Items != nil {
			if err := repository.NewSQLiteItemRepo(tx).ReplaceAll(ctx, timelineID, *patch.Items); err != nil {
				return err
			}
		}
		snapshot, err := repository.LoadTimeline(ctx, tx, timelineID)
		if err != nil {
			return err
		}
		db.AfterCommit(ctx, func() { s.hub.Publish(*snapshot) })
		return nil
	})
	if err != nil {
		return fmt.Errorf("updating timeline %s: %w", timelineID, mapNotFound(err))
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, timelineID string) (*domain.Timeline, error) {
	var out *domain.Timeline
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		t, err := repository.LoadTimeline(ctx, tx, timelineID)
		out = t
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("loading timeline %s: %w", timelineID, mapNotFound(err))
	}
	return out, nil
}

// ListByOwner returns full aggregates owned by ownerID, newest first.
func (s *SQLiteStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Timeline, error) {
	return s.list(ctx, func(ctx context.Context, repo *repository.SQLiteTimelineRepo) ([]*domain.Timeline, error) {
		return repo.ListByOwner(ctx, ownerID)
	})
}

// List returns every timeline, newest first.
func (s *SQLiteStore) List(ctx context.Context) ([]*domain.Timeline, error) {
	return s.list(ctx, func(ctx context.Context, repo *repository.SQLiteTimelineRepo) ([]*domain.Timeline, error) {
		return repo.List(ctx)
	})
}

func (s *SQLiteStore) list(ctx context.Context, headers func(context.Context, *repository.SQLiteTimelineRepo) ([]*domain.Timeline, error)) ([]*domain.Timeline, error) {
	var out []*domain.Timeline
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		hs, err := headers(ctx, repository.NewSQLiteTimelineRepo(tx))
		if err != nil {
			return err
		}
		for _, h := range hs {
			t, err := repository.LoadTimeline(ctx, tx, h.ID)
			if err != nil {
				return err
			}
			out = append(out, t)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing timelines: %w", err)
	}
	return out, nil
}

// Delete removes a timeline with its rows and items. Open subscriptions
// stay open but receive nothing further.
func (s *SQLiteStore) Delete(ctx context.Context, timelineID string) error {
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteTimelineRepo(tx)
		if _, err := repo.GetByID(ctx, timelineID); err != nil {
			return err
		}
		return repo.Delete(ctx, timelineID)
	})
	if err != nil {
		return fmt.Errorf("deleting timeline %s: %w", timelineID, mapNotFound(err))
	}
	return nil
}

func (s *SQLiteStore) Subscribe(ctx context.Context, timelineID string) (<-chan domain.Timeline, error) {
	subID, sub := s.hub.add(timelineID)
	current, err := s.Get(ctx, timelineID)
	if err != nil {
		s.hub.remove(timelineID, subID)
		return nil, err
	}
	sub.offer(*current)

	go func() {
		<-ctx.Done()
		s.hub.remove(timelineID, subID)
	}()
	return sub.ch, nil
}

// Refresh reloads a timeline and publishes it when its revision is ahead
// of what subscribers have seen, which happens after writes by another
// process sharing the database file.
func (s *SQLiteStore) Refresh(ctx context.Context, timelineID string) error {
	t, err := s.Get(ctx, timelineID)
	if err != nil {
		return err
	}
	if t.Revision > s.hub.Published(timelineID) {
		s.hub.Publish(*t)
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

var _ Catalog = (*SQLiteStore)(nil)
