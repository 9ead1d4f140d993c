package cli

import (
	"testing"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/testutil"
	"github.com/alexanderramin/spanplan/internal/timeline"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSeeded(t *testing.T) (*TestDriver, *domain.Timeline) {
	t.Helper()
	app := testApp(t)
	tl := seedTimeline(t, app)
	return NewTestDriver(t, app, tl.ID), tl
}

func launchDates(t *testing.T, it domain.Item) (string, string) {
	t.Helper()
	require.NotNil(t, it.StartDate)
	require.NotNil(t, it.EndDate)
	return domain.FormatDate(*it.StartDate), domain.FormatDate(*it.EndDate)
}

func TestTUI_RendersGrid(t *testing.T) {
	d, _ := openSeeded(t)

	assert.Equal(t, ViewTimeline, d.ActiveViewID())
	view := d.View()
	assert.Contains(t, view, "spanplan")
	assert.Contains(t, view, "DAY")
	assert.Contains(t, view, "Row 1")
	assert.Contains(t, view, "Row 4")
	assert.Contains(t, view, "Launch")
	assert.Contains(t, view, "marketing")
	assert.Contains(t, view, "Backlog (1)")
	assert.Contains(t, view, "Later")
	assert.Contains(t, view, "Jun 3")
}

func TestTUI_QuitWithQ(t *testing.T) {
	d, _ := openSeeded(t)
	d.PressKey('q')
	assert.True(t, d.IsQuitting())
}

func TestTUI_QuitWithCtrlC(t *testing.T) {
	d, _ := openSeeded(t)
	d.PressCtrlC()
	assert.True(t, d.IsQuitting())
}

func withoutItem(tl domain.Timeline, title string) domain.Timeline {
	kept := make([]domain.Item, 0, len(tl.Items))
	for _, it := range tl.Items {
		if it.Title != title {
			kept = append(kept, it)
		}
	}
	tl.Items = kept
	return tl
}

// ── gestures ─────────────────────────────────────────────────────────────────

func TestTUI_DragMovesItem(t *testing.T) {
	d, _ := openSeeded(t)
	x := DayColumn("2024-06-04") + 9

	d.Drag(x, RowLine(0), [2]int{x + 3, RowLine(0)}, [2]int{x + 6, RowLine(0)})

	it, ok := d.Item("Launch")
	require.True(t, ok)
	start, end := launchDates(t, it)
	assert.Equal(t, "2024-06-05", start)
	assert.Equal(t, "2024-06-12", end)
	assert.False(t, d.Grid().gesture.Active())
	assert.Empty(t, d.Grid().selected, "a drag does not select")

	stored := findByTitle(t, d.Stored(), "Launch")
	start, _ = launchDates(t, stored)
	assert.Equal(t, "2024-06-05", start)
}

func TestTUI_DragAcrossRows(t *testing.T) {
	d, tl := openSeeded(t)
	x := DayColumn("2024-06-04") + 9

	d.Drag(x, RowLine(0), [2]int{x, RowLine(1)})

	it := findByTitle(t, d.Stored(), "Launch")
	assert.Equal(t, tl.Rows[1].ID, *it.RowID)
	start, end := launchDates(t, it)
	assert.Equal(t, "2024-06-04", start, "a vertical move keeps the dates")
	assert.Equal(t, "2024-06-11", end)
}

func TestTUI_ResizeHandles(t *testing.T) {
	d, _ := openSeeded(t)
	left := DayColumn("2024-06-04")
	right := DayColumn("2024-06-11") - 1

	d.Drag(right, RowLine(0), [2]int{right + 12, RowLine(0)})
	it, _ := d.Item("Launch")
	start, end := launchDates(t, it)
	assert.Equal(t, "2024-06-04", start)
	assert.Equal(t, "2024-06-13", end)

	d.Drag(left, RowLine(0), [2]int{left + 12, RowLine(0)})
	it, _ = d.Item("Launch")
	start, end = launchDates(t, it)
	assert.Equal(t, "2024-06-06", start)
	assert.Equal(t, "2024-06-13", end)
}

func TestTUI_ResizeNeverInverts(t *testing.T) {
	d, _ := openSeeded(t)
	left := DayColumn("2024-06-04")

	// Seven days right would put the start on the end; the last valid tick wins.
	d.Drag(left, RowLine(0), [2]int{left + 36, RowLine(0)}, [2]int{left + 42, RowLine(0)}, [2]int{left + 60, RowLine(0)})

	it, _ := d.Item("Launch")
	start, end := launchDates(t, it)
	assert.Equal(t, "2024-06-10", start)
	assert.Equal(t, "2024-06-11", end)
}

func TestTUI_CommitOnRelease(t *testing.T) {
	d, _ := openSeeded(t)
	d.State().Commit = domain.CommitOnRelease
	x := DayColumn("2024-06-04") + 9

	d.MousePress(x, RowLine(0))
	d.MouseMotion(x+6, RowLine(0))

	it, _ := d.Item("Launch")
	start, _ := launchDates(t, it)
	assert.Equal(t, "2024-06-05", start, "previewed locally")

	stored := findByTitle(t, d.Stored(), "Launch")
	start, _ = launchDates(t, stored)
	assert.Equal(t, "2024-06-04", start, "nothing written before release")

	d.MouseRelease(x+6, RowLine(0))
	stored = findByTitle(t, d.Stored(), "Launch")
	start, _ = launchDates(t, stored)
	assert.Equal(t, "2024-06-05", start)
}

func TestTUI_ClickSelectsAndEnterOpensDetails(t *testing.T) {
	d, _ := openSeeded(t)
	x := DayColumn("2024-06-04") + 9

	d.Click(x, RowLine(0))
	it, _ := d.Item("Launch")
	assert.Equal(t, it.ID, d.Grid().selected)

	d.PressEnter()
	assert.Equal(t, ViewForm, d.ActiveViewID())
	assert.Equal(t, 2, d.ViewStackLen())

	d.PressEsc()
	assert.Equal(t, ViewTimeline, d.ActiveViewID())
	assert.Contains(t, d.State().Status, "Cancelled.")
}

func TestTUI_DoubleClickAddsItem(t *testing.T) {
	d, tl := openSeeded(t)

	d.Click(90, RowLine(1))
	d.Click(90, RowLine(1))

	got := d.Stored()
	require.Len(t, got.Items, 3)
	it := findByTitle(t, got, domain.UntitledTitle)
	assert.Equal(t, tl.Rows[1].ID, *it.RowID)
	start, end := launchDates(t, it)
	assert.Equal(t, "2024-06-16", start, "snaps to the nearest unit")
	assert.Equal(t, "2024-06-23", end)
	assert.Equal(t, it.ID, d.Grid().selected)
}

func TestTUI_DragFromBacklog(t *testing.T) {
	d, tl := openSeeded(t)

	d.Drag(2, BacklogChipLine(4), [2]int{45, RowLine(1)})

	it := findByTitle(t, d.Stored(), "Later")
	require.False(t, it.IsBacklog())
	assert.Equal(t, tl.Rows[1].ID, *it.RowID)
	start, end := launchDates(t, it)
	assert.Equal(t, "2024-06-08", start)
	assert.Equal(t, "2024-06-15", end)
	assert.Empty(t, d.Grid().backlogDrag)
}

func TestTUI_BacklogDropOutsideRowsIsIgnored(t *testing.T) {
	d, _ := openSeeded(t)

	d.Drag(2, BacklogChipLine(4), [2]int{5, RowLine(1)})

	it := findByTitle(t, d.Stored(), "Later")
	assert.True(t, it.IsBacklog(), "the label column is not a drop target")
}

func TestTUI_HoverShowsTooltipForNarrowItems(t *testing.T) {
	app := testApp(t)
	tl := testutil.NewTestTimeline()
	tl.Items = []domain.Item{
		testutil.NewTestItem("Kickoff", testutil.WithDates(tl.Rows[0].ID, "2024-06-04", "2024-06-05"), testutil.WithSubtitle("all hands")),
	}
	require.NoError(t, app.Store.Import(t.Context(), tl))
	d := NewTestDriver(t, app, tl.ID)

	d.MouseHover(DayColumn("2024-06-04")+2, RowLine(0))
	assert.Contains(t, d.State().Status, "Kickoff · all hands")
}

// ── wheel and keys ───────────────────────────────────────────────────────────

func TestTUI_WheelZoomsAndPans(t *testing.T) {
	d, _ := openSeeded(t)

	d.Wheel(50, RowLine(0), tea.MouseButtonWheelUp)
	assert.InDelta(t, 1.01, d.State().Zoom.Scale(), 1e-9)
	d.Wheel(50, RowLine(0), tea.MouseButtonWheelDown)
	assert.InDelta(t, 1.01*0.99, d.State().Zoom.Scale(), 1e-9)

	d.Wheel(50, RowLine(0), tea.MouseButtonWheelRight)
	assert.InDelta(t, panCells*cellPx, d.Grid().scrollX, 1e-9)
	d.Wheel(50, RowLine(0), tea.MouseButtonWheelLeft)
	d.Wheel(50, RowLine(0), tea.MouseButtonWheelLeft)
	assert.Zero(t, d.Grid().scrollX, "panning stops at the origin")
}

func TestTUI_ZoomKeysStayInBounds(t *testing.T) {
	d, _ := openSeeded(t)
	for i := 0; i < 200; i++ {
		d.PressKey('-')
	}
	assert.Equal(t, timeline.MinZoom, d.State().Zoom.Scale())
	d.PressKey('0')
	assert.Equal(t, 1.0, d.State().Zoom.Scale())
}

func TestTUI_ViewModeKeys(t *testing.T) {
	d, _ := openSeeded(t)

	d.PressKey('w')
	assert.Equal(t, domain.ViewWeek, d.State().Mode)
	assert.Contains(t, d.View(), "WEEK")

	d.PressKey('m')
	assert.Equal(t, domain.ViewMonth, d.State().Mode)
	assert.Contains(t, d.View(), "Jun 2024")

	d.PressKey('d')
	assert.Equal(t, domain.ViewDay, d.State().Mode)
}

func TestTUI_AddRowKey(t *testing.T) {
	d, _ := openSeeded(t)
	d.PressKey('a')

	assert.Contains(t, d.State().Status, "Row 5")
	assert.Len(t, d.Stored().Rows, 5)
	assert.Contains(t, d.View(), "Row 5")
}

func TestTUI_DeleteAndUnscheduleKeys(t *testing.T) {
	d, _ := openSeeded(t)
	x := DayColumn("2024-06-04") + 9

	d.Click(x, RowLine(0))
	d.PressKey('u')
	it := findByTitle(t, d.Stored(), "Launch")
	assert.True(t, it.IsBacklog())
	assert.Contains(t, d.View(), "Backlog (2)")

	d.PressKey('x')
	got := d.Stored()
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Later", got.Items[0].Title)
	assert.Empty(t, d.Grid().selected)
}

func TestTUI_CopyTimelineID(t *testing.T) {
	app := testApp(t)
	var copied string
	app.CopyToClipboard = func(s string) error { copied = s; return nil }
	tl := seedTimeline(t, app)
	d := NewTestDriver(t, app, tl.ID)

	d.PressKey('y')
	assert.Equal(t, tl.ID, copied)
	assert.Contains(t, d.State().Status, tl.ID)
}

func TestTUI_ToggleBacklogAndCommitMode(t *testing.T) {
	d, _ := openSeeded(t)

	d.SendKey(tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.NotContains(t, d.View(), "Backlog (1)")
	d.SendKey(tea.KeyMsg{Type: tea.KeyCtrlB})
	assert.Contains(t, d.View(), "Backlog (1)")

	d.PressKey('c')
	assert.Equal(t, domain.CommitOnRelease, d.State().Commit)
}

// ── palette ──────────────────────────────────────────────────────────────────

func TestTUI_PaletteJumpsToItem(t *testing.T) {
	d, _ := openSeeded(t)

	d.SendKey(tea.KeyMsg{Type: tea.KeyCtrlK})
	require.True(t, d.Grid().palette.IsOpen())
	assert.Len(t, d.Grid().palette.Results(), 2)

	d.Type("LAT")
	assert.Len(t, d.Grid().palette.Results(), 1)
	assert.Contains(t, d.View(), "Jump to item")

	d.PressEnter()
	assert.False(t, d.Grid().palette.IsOpen())
	later, _ := d.Item("Later")
	assert.Equal(t, later.ID, d.Grid().selected)
	assert.False(t, d.IsQuitting())
}

func TestTUI_PaletteCapturesQAndEsc(t *testing.T) {
	d, _ := openSeeded(t)

	d.SendKey(tea.KeyMsg{Type: tea.KeyCtrlK})
	d.PressKey('q')
	assert.False(t, d.IsQuitting(), "q is typed into the query")
	assert.Equal(t, "q", d.Grid().palette.Query())

	d.PressDown()
	d.PressEsc()
	assert.False(t, d.Grid().palette.IsOpen())
	assert.Empty(t, d.Grid().selected)
}

// ── remote changes ───────────────────────────────────────────────────────────

func TestTUI_RemoteSnapshotDropsVanishedSelection(t *testing.T) {
	d, _ := openSeeded(t)
	x := DayColumn("2024-06-04") + 9
	d.Click(x, RowLine(0))
	require.NotEmpty(t, d.Grid().selected)

	d.Send(remoteSnapshotMsg{timeline: withoutItem(d.Editor.Snapshot(), "Launch")})

	assert.Empty(t, d.Grid().selected)
}

func TestTUI_RemoteDeleteAbortsGesture(t *testing.T) {
	d, _ := openSeeded(t)
	x := DayColumn("2024-06-04") + 9
	d.MousePress(x, RowLine(0))
	require.True(t, d.Grid().gesture.Active())

	d.Send(remoteSnapshotMsg{timeline: withoutItem(d.Editor.Snapshot(), "Launch")})

	assert.False(t, d.Grid().gesture.Active())
}

func TestTUI_WriteErrorShowsInStatus(t *testing.T) {
	d, _ := openSeeded(t)
	d.Send(writeErrorMsg{err: assert.AnError})
	assert.Contains(t, d.State().Status, "Save failed")
}
