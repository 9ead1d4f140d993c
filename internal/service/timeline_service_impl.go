package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/store"
	"github.com/alexanderramin/spanplan/internal/timeline"
)

// SampleItemTitle is the title of the example item added on request.
const SampleItemTitle = "Welcome to SpanPlan"

type timelineService struct {
	store    store.Catalog
	observer UseCaseObserver
	today    func() time.Time
}

func NewTimelineService(st store.Catalog, observers ...UseCaseObserver) TimelineService {
	return &timelineService{
		store:    st,
		observer: useCaseObserverOrNoop(observers),
		today:    domain.Today,
	}
}

func (s *timelineService) Create(ctx context.Context, ownerID *string, withSample bool) (t *domain.Timeline, err error) {
	startedAt := time.Now()
	fields := map[string]any{"sample": withSample}
	defer func() { observe(ctx, s.observer, "create-timeline", startedAt, fields, err) }()

	t, err = s.store.CreateTimeline(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	fields["timeline_id"] = t.ID
	if !withSample {
		return t, nil
	}

	sorted := timeline.SortRows(t.Rows)
	start := s.today()
	end := start.AddDate(0, 0, timeline.DefaultSpanDays)
	sample := domain.Item{
		ID:        domain.NewID(),
		RowID:     domain.StrPtr(sorted[0].ID),
		Title:     SampleItemTitle,
		Subtitle:  "Drag me, or pull my edges",
		Color:     domain.DefaultColors[0],
		StartDate: &start,
		EndDate:   &end,
	}
	if err = s.store.UpdateTimeline(ctx, t.ID, domain.PatchItems([]domain.Item{sample})); err != nil {
		return nil, fmt.Errorf("adding sample item: %w", err)
	}
	return s.store.Get(ctx, t.ID)
}

func (s *timelineService) Get(ctx context.Context, id string) (*domain.Timeline, error) {
	return s.store.Get(ctx, id)
}

func (s *timelineService) List(ctx context.Context) ([]*domain.Timeline, error) {
	return s.store.List(ctx)
}

func (s *timelineService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Timeline, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

func (s *timelineService) Import(ctx context.Context, t *domain.Timeline) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"timeline_id": t.ID, "rows": len(t.Rows), "items": len(t.Items)}
	defer func() { observe(ctx, s.observer, "import-timeline", startedAt, fields, err) }()

	if t.ID == "" {
		t.ID = domain.NewID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}
	for i := range t.Items {
		t.Items[i].Title = domain.CoalesceStr(t.Items[i].Title, domain.UntitledTitle)
	}
	return s.store.Import(ctx, t)
}

func (s *timelineService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "delete-timeline", startedAt, map[string]any{"timeline_id": id}, err) }()
	return s.store.Delete(ctx, id)
}
