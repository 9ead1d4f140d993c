package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/store"
	"github.com/alexanderramin/spanplan/internal/timeline"
	"github.com/google/uuid"
)

// Editor holds the presented state of one open timeline. Mutations apply
// to the local snapshot immediately and are written to the store in the
// background; incoming snapshots replace the local state except for
// field sets with writes still outstanding, and items while a gesture is
// running.
type Editor struct {
	id       string
	session  string
	writer   *Writer
	observer UseCaseObserver

	mu      sync.Mutex
	current domain.Timeline
	gesture bool
	held    *domain.Timeline

	changes chan domain.Timeline
	cancel  context.CancelFunc
	done    chan struct{}
}

type EditorOption func(*editorConfig)

type editorConfig struct {
	observer UseCaseObserver
	onError  func(error)
}

// WithEditorObserver reports editor use cases and background writes.
func WithEditorObserver(obs UseCaseObserver) EditorOption {
	return func(c *editorConfig) { c.observer = obs }
}

// WithWriteErrorHandler is called from the writer goroutine when a
// background write fails.
func WithWriteErrorHandler(fn func(error)) EditorOption {
	return func(c *editorConfig) { c.onError = fn }
}

// OpenEditor subscribes to a timeline and waits for its first snapshot.
func OpenEditor(ctx context.Context, st store.TimelineStore, timelineID string, opts ...EditorOption) (*Editor, error) {
	cfg := editorConfig{observer: NoopUseCaseObserver{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	subCtx, cancel := context.WithCancel(ctx)
	ch, err := st.Subscribe(subCtx, timelineID)
	if err != nil {
		cancel()
		return nil, err
	}

	var first domain.Timeline
	select {
	case snap, ok := <-ch:
		if !ok {
			cancel()
			return nil, fmt.Errorf("opening timeline %s: subscription closed", timelineID)
		}
		first = snap
	case <-ctx.Done():
		cancel()
		return nil, ctx.Err()
	}

	e := &Editor{
		id:       timelineID,
		session:  uuid.NewString(),
		observer: cfg.observer,
		current:  first,
		changes:  make(chan domain.Timeline, 1),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	e.writer = newWriter(ctx, st, timelineID, e.session, cfg.observer, cfg.onError)
	go e.listen(ch)
	return e, nil
}

func (e *Editor) ID() string { return e.id }

// Snapshot returns a copy of the presented state.
func (e *Editor) Snapshot() domain.Timeline {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current.Clone()
}

// Changes delivers the presented state after remote snapshots arrive.
// Local mutations are not echoed here; callers already know about them.
func (e *Editor) Changes() <-chan domain.Timeline {
	return e.changes
}

func (e *Editor) listen(ch <-chan domain.Timeline) {
	defer close(e.done)
	for snap := range ch {
		e.receive(snap)
	}
}

func (e *Editor) receive(snap domain.Timeline) {
	e.mu.Lock()
	rowsOut, itemsOut := e.writer.Outstanding()
	next := snap
	if rowsOut {
		next.Rows = e.current.Rows
	}
	if e.gesture {
		held := snap
		e.held = &held
	}
	if itemsOut || e.gesture {
		next.Items = e.current.Items
	}
	e.current = next
	presented := next.Clone()
	e.mu.Unlock()

	e.publish(presented)
}

// publish replaces any undelivered state on changes with t.
func (e *Editor) publish(t domain.Timeline) {
	select {
	case <-e.changes:
	default:
	}
	e.changes <- t
}

// BeginGesture keeps local items authoritative until EndGesture.
func (e *Editor) BeginGesture() {
	e.mu.Lock()
	e.gesture = true
	e.mu.Unlock()
}

// EndGesture resumes accepting remote items. Items from the last snapshot
// held back during the gesture are applied unless a local items write is
// still pending, in which case that write wins. The caller writes the
// final gesture state with UpdateItem before or after calling it.
func (e *Editor) EndGesture() {
	e.mu.Lock()
	e.gesture = false
	held := e.held
	e.held = nil
	if held == nil {
		e.mu.Unlock()
		return
	}
	if _, itemsOut := e.writer.Outstanding(); !itemsOut {
		e.current.Items = held.Items
	}
	presented := e.current.Clone()
	e.mu.Unlock()

	e.publish(presented)
}

// mutate runs fn on a copy of the current state under the lock, installs
// the result, and submits the patch fn returns.
func (e *Editor) mutate(name string, fields map[string]any, fn func(t *domain.Timeline) (domain.TimelinePatch, error)) (err error) {
	startedAt := time.Now()
	fields["timeline_id"] = e.id
	fields["session_id"] = e.session
	defer func() { observe(context.Background(), e.observer, name, startedAt, fields, err) }()

	e.mu.Lock()
	next := e.current.Clone()
	patch, err := fn(&next)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	e.current = patch.ApplyTo(next)
	if patch.Items != nil {
		// The local write replaces the stored items.
		e.held = nil
	}
	e.writer.Submit(patch)
	e.mu.Unlock()
	return nil
}

// AddScheduledItem places a new untitled item in rowID starting at start,
// lasting DefaultSpanDays, with a random palette color.
func (e *Editor) AddScheduledItem(rowID string, start time.Time) (domain.Item, error) {
	var created domain.Item
	err := e.mutate("add-item", map[string]any{"row_id": rowID}, func(t *domain.Timeline) (domain.TimelinePatch, error) {
		if _, ok := t.FindRow(rowID); !ok {
			return domain.TimelinePatch{}, fmt.Errorf("adding item to row %s: %w", rowID, ErrRowNotFound)
		}
		begin := domain.Midnight(start)
		end := begin.AddDate(0, 0, timeline.DefaultSpanDays)
		created = domain.Item{
			ID:        domain.NewID(),
			RowID:     domain.StrPtr(rowID),
			Title:     domain.UntitledTitle,
			Color:     domain.RandomColor(),
			StartDate: &begin,
			EndDate:   &end,
		}
		return domain.PatchItems(append(t.Items, created)), nil
	})
	return created, err
}

// AddBacklogItem appends an unscheduled item. The title is trimmed; a
// blank title adds nothing and reports false.
func (e *Editor) AddBacklogItem(title string) (domain.Item, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Item{}, false
	}
	var created domain.Item
	err := e.mutate("add-backlog-item", map[string]any{}, func(t *domain.Timeline) (domain.TimelinePatch, error) {
		created = domain.Item{ID: domain.NewID(), Title: title, Color: domain.RandomColor()}
		return domain.PatchItems(append(t.Items, created)), nil
	})
	return created, err == nil
}

// UpdateItem merges patch into the item and writes all items.
func (e *Editor) UpdateItem(itemID string, patch domain.ItemPatch) error {
	return e.mutate("update-item", map[string]any{"item_id": itemID}, func(t *domain.Timeline) (domain.TimelinePatch, error) {
		items, err := patchedItems(t.Items, itemID, patch)
		if err != nil {
			return domain.TimelinePatch{}, err
		}
		return domain.PatchItems(items), nil
	})
}

// PreviewItem applies patch to the local state only, for gestures that
// commit on release.
func (e *Editor) PreviewItem(itemID string, patch domain.ItemPatch) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	items, err := patchedItems(e.current.Items, itemID, patch)
	if err != nil {
		return err
	}
	e.current.Items = items
	return nil
}

func patchedItems(items []domain.Item, itemID string, patch domain.ItemPatch) ([]domain.Item, error) {
	for i, it := range items {
		if it.ID != itemID {
			continue
		}
		updated, err := patch.Apply(it)
		if err != nil {
			return nil, err
		}
		out := append([]domain.Item(nil), items...)
		out[i] = updated
		return out, nil
	}
	return nil, fmt.Errorf("item %s: %w", itemID, ErrItemNotFound)
}

func (e *Editor) DeleteItem(itemID string) error {
	return e.mutate("delete-item", map[string]any{"item_id": itemID}, func(t *domain.Timeline) (domain.TimelinePatch, error) {
		items, ok := timeline.RemoveItem(t.Items, itemID)
		if !ok {
			return domain.TimelinePatch{}, fmt.Errorf("item %s: %w", itemID, ErrItemNotFound)
		}
		return domain.PatchItems(items), nil
	})
}

// ScheduleFromBacklog drops a backlog item onto rowID at grid x dropX.
func (e *Editor) ScheduleFromBacklog(itemID, rowID string, dropX float64, v timeline.Viewport) error {
	return e.mutate("schedule-backlog-item", map[string]any{"item_id": itemID, "row_id": rowID}, func(t *domain.Timeline) (domain.TimelinePatch, error) {
		it, ok := t.FindItem(itemID)
		if !ok {
			return domain.TimelinePatch{}, fmt.Errorf("item %s: %w", itemID, ErrItemNotFound)
		}
		if _, ok := t.FindRow(rowID); !ok {
			return domain.TimelinePatch{}, fmt.Errorf("row %s: %w", rowID, ErrRowNotFound)
		}
		patch, err := timeline.ScheduleDrop(it, rowID, dropX, v)
		if err != nil {
			return domain.TimelinePatch{}, err
		}
		items, err := patchedItems(t.Items, itemID, patch)
		if err != nil {
			return domain.TimelinePatch{}, err
		}
		return domain.PatchItems(items), nil
	})
}

// MoveToBacklog clears the item's row and dates together.
func (e *Editor) MoveToBacklog(itemID string) error {
	return e.UpdateItem(itemID, timeline.Unschedule())
}

// AddRow appends "Row N" at the end of the display order.
func (e *Editor) AddRow() domain.Row {
	var created domain.Row
	_ = e.mutate("add-row", map[string]any{}, func(t *domain.Timeline) (domain.TimelinePatch, error) {
		created = timeline.NewRow(t.Rows)
		return domain.PatchRows(append(t.Rows, created)), nil
	})
	return created
}

// UpdateRow renames a row. A blank name keeps the previous one and
// reports false.
func (e *Editor) UpdateRow(rowID, name string) (bool, error) {
	renamed := false
	err := e.mutate("rename-row", map[string]any{"row_id": rowID}, func(t *domain.Timeline) (domain.TimelinePatch, error) {
		if _, ok := t.FindRow(rowID); !ok {
			return domain.TimelinePatch{}, fmt.Errorf("row %s: %w", rowID, ErrRowNotFound)
		}
		rows, ok := timeline.RenameRow(t.Rows, rowID, name)
		if !ok {
			return domain.TimelinePatch{}, nil
		}
		renamed = true
		return domain.PatchRows(rows), nil
	})
	return renamed, err
}

// DeleteRow removes the row and its items in a single write.
func (e *Editor) DeleteRow(rowID string) error {
	return e.mutate("delete-row", map[string]any{"row_id": rowID}, func(t *domain.Timeline) (domain.TimelinePatch, error) {
		if _, ok := t.FindRow(rowID); !ok {
			return domain.TimelinePatch{}, fmt.Errorf("row %s: %w", rowID, ErrRowNotFound)
		}
		rows, items := timeline.RemoveRow(t.Rows, t.Items, rowID)
		return domain.TimelinePatch{Rows: &rows, Items: &items}, nil
	})
}

// Flush waits for outstanding writes and returns the last write error.
func (e *Editor) Flush(ctx context.Context) error {
	return e.writer.Flush(ctx)
}

// Close flushes pending writes and ends the subscription.
func (e *Editor) Close() {
	e.writer.Close()
	e.cancel()
	<-e.done
}
