package cli

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/service"
	"github.com/alexanderramin/spanplan/internal/teatest"
	"github.com/stretchr/testify/require"
)

// TestDriver wraps teatest.Driver with spanplan-specific inspection methods.
// It provides access to appModel internals (view stack, shared state,
// the grid view) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
	App    *App
	Editor *service.Editor
}

// NewTestDriver opens the timeline in an editor, builds the appModel at
// 120x40 and drains Init().
func NewTestDriver(t *testing.T, app *App, timelineID string) *TestDriver {
	t.Helper()

	ed, err := service.OpenEditor(context.Background(), app.Store, timelineID)
	require.NoError(t, err)
	t.Cleanup(ed.Close)

	m := newAppModel(app, ed)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d, App: app, Editor: ed}
}

// ── Grid coordinates ─────────────────────────────────────────────────────────

// RowLine is the screen line of the first line of row i (header included).
func RowLine(i int) int {
	return headerLines + markerLines + i*rowLines
}

// DayColumn is the screen column where date sits in the unscrolled day view
// anchored at testToday.
func DayColumn(date string) int {
	d, err := domain.ParseDate(date)
	if err != nil {
		panic(err)
	}
	days := int(d.Sub(domain.Midnight(testToday)).Hours() / 24)
	return labelCells + days*6
}

// BacklogChipLine is the screen line of the backlog chips with n rows shown.
func BacklogChipLine(rows int) int {
	return headerLines + markerLines + rows*rowLines + 1
}

// ── spanplan-specific inspection ─────────────────────────────────────────────

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// Grid returns the timeline view at the bottom of the stack.
func (d *TestDriver) Grid() *timelineView {
	return d.appModel().viewStack[0].(*timelineView)
}

// IsQuitting returns whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// Item returns the presented item with the given title.
func (d *TestDriver) Item(title string) (domain.Item, bool) {
	for _, it := range d.Editor.Snapshot().Items {
		if it.Title == title {
			return it, true
		}
	}
	return domain.Item{}, false
}

// Stored flushes the editor and reads the timeline back from the store.
func (d *TestDriver) Stored() *domain.Timeline {
	d.T.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(d.T, d.Editor.Flush(ctx))
	got, err := d.App.Store.Get(ctx, d.Editor.ID())
	require.NoError(d.T, err)
	return got
}
