package service

import (
	"context"
	"sync"
	"time"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/store"
)

// Writer sends timeline patches to the store from a single background
// goroutine. Submit never blocks on I/O. Patches submitted while a write
// is in flight are merged, so intermediate states may be skipped but the
// last submitted state is always written.
type Writer struct {
	store      store.TimelineStore
	timelineID string
	session    string
	observer   UseCaseObserver
	onError    func(error)

	mu      sync.Mutex
	pending domain.TimelinePatch
	dirty   bool
	// inflight holds the field sets of the write currently running.
	inflight domain.TimelinePatch
	busy     bool
	idle     chan struct{}
	lastErr  error
	closed   bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
	ctx  context.Context
}

func newWriter(ctx context.Context, st store.TimelineStore, timelineID, session string, observer UseCaseObserver, onError func(error)) *Writer {
	idle := make(chan struct{})
	close(idle)
	w := &Writer{
		store:      st,
		timelineID: timelineID,
		session:    session,
		observer:   observer,
		onError:    onError,
		idle:       idle,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		ctx:        context.WithoutCancel(ctx),
	}
	go w.loop()
	return w
}

// Submit queues a patch. Fields set in p replace any pending value.
func (w *Writer) Submit(p domain.TimelinePatch) {
	if p.IsZero() {
		return
	}
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.pending = w.pending.Merge(p)
	w.dirty = true
	if !w.busy {
		w.busy = true
		w.idle = make(chan struct{})
	}
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Outstanding reports which field sets are queued or being written.
func (w *Writer) Outstanding() (rows, items bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	rows = w.pending.Rows != nil || w.inflight.Rows != nil
	items = w.pending.Items != nil || w.inflight.Items != nil
	return rows, items
}

// Flush waits until everything submitted so far has been written and
// returns the most recent write error, if any.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	idle := w.idle
	w.mu.Unlock()

	select {
	case <-idle:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	err := w.lastErr
	w.lastErr = nil
	return err
}

// Close drains pending writes and stops the goroutine.
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()
	close(w.stop)
	<-w.done
}

func (w *Writer) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.stop:
			w.drain()
			return
		}
	}
}

func (w *Writer) drain() {
	for {
		w.mu.Lock()
		if !w.dirty {
			w.inflight = domain.TimelinePatch{}
			if w.busy {
				w.busy = false
				close(w.idle)
			}
			w.mu.Unlock()
			return
		}
		patch := w.pending
		w.pending = domain.TimelinePatch{}
		w.dirty = false
		w.inflight = patch
		w.mu.Unlock()

		w.write(patch)
	}
}

func (w *Writer) write(patch domain.TimelinePatch) {
	startedAt := time.Now()
	err := w.store.UpdateTimeline(w.ctx, w.timelineID, patch)
	observe(w.ctx, w.observer, "write-timeline", startedAt, map[string]any{
		"timeline_id": w.timelineID,
		"session_id":  w.session,
		"rows":        patch.Rows != nil,
		"items":       patch.Items != nil,
	}, err)
	if err == nil {
		return
	}
	w.mu.Lock()
	w.lastErr = err
	w.mu.Unlock()
	if w.onError != nil {
		w.onError(err)
	}
}
