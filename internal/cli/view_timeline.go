package cli

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/spanplan/internal/cli/formatter"
	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/service"
	"github.com/alexanderramin/spanplan/internal/timeline"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// The grid maps terminal cells onto the pixel geometry of the timeline
// package: one column is cellPx wide and one line is linePx tall.
const (
	cellPx      = 10.0
	linePx      = 20.0
	labelCells  = timeline.RowLabelWidth / 10
	rowLines    = timeline.RowHeight / 20
	markerLines = 1

	backlogLines = 2
	paletteLines = 7

	panCells          = 10
	zoomKeySteps      = 10
	doubleClickWindow = 400 * time.Millisecond
	defaultWidth      = 80
)

// remoteSnapshotMsg carries the editor state after a remote change.
type remoteSnapshotMsg struct {
	timeline domain.Timeline
}

type cellPos struct{ x, line int }

type timelineView struct {
	state *SharedState

	scrollX   float64
	scrollRow int
	selected  string

	gesture     timeline.Gesture
	backlogDrag string
	dragAt      cellPos
	dragging    bool

	showBacklog bool
	palette     timeline.CommandPalette
	query       textinput.Model

	lastClick   time.Time
	lastClickAt cellPos
}

func newTimelineView(state *SharedState) *timelineView {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Search items"
	ti.CharLimit = 120
	return &timelineView{state: state, query: ti, showBacklog: true}
}

func (v *timelineView) Init() tea.Cmd {
	return v.listen()
}

// listen waits for the next remote snapshot.
func (v *timelineView) listen() tea.Cmd {
	changes := v.state.Editor.Changes()
	return func() tea.Msg {
		t, ok := <-changes
		if !ok {
			return nil
		}
		return remoteSnapshotMsg{timeline: t}
	}
}

func (v *timelineView) ID() ViewID    { return ViewTimeline }
func (v *timelineView) Title() string { return formatter.TruncID(v.state.Editor.ID()) }

func (v *timelineView) CapturesInput() bool { return v.palette.IsOpen() }

func (v *timelineView) ShortHelp() []key.Binding {
	if v.palette.IsOpen() {
		return []key.Binding{
			key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "select")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "jump")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("d", "w", "m"), key.WithHelp("d/w/m", "view")),
		key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "zoom")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add row")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new backlog item")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "search")),
		key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "backlog")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (v *timelineView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case remoteSnapshotMsg:
		v.applyRemote(msg.timeline)
		return v, v.listen()
	case tea.KeyMsg:
		if v.palette.IsOpen() {
			return v, v.handlePaletteKey(msg)
		}
		return v, v.handleKey(msg)
	case tea.MouseMsg:
		return v, v.handleMouse(msg)
	}
	if v.palette.IsOpen() {
		var cmd tea.Cmd
		v.query, cmd = v.query.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *timelineView) snapshot() domain.Timeline {
	return v.state.Editor.Snapshot()
}

func (v *timelineView) applyRemote(t domain.Timeline) {
	if id := v.gesture.ItemID(); id != "" {
		if _, ok := t.FindItem(id); !ok {
			v.gesture.Abort()
			v.state.Editor.EndGesture()
		}
	}
	if v.selected != "" {
		if _, ok := t.FindItem(v.selected); !ok {
			v.selected = ""
		}
	}
	if v.backlogDrag != "" {
		if _, ok := t.FindItem(v.backlogDrag); !ok {
			v.backlogDrag = ""
		}
	}
	if v.palette.IsOpen() {
		v.palette.SetItems(t.Items)
	}
	v.clampScrollRow(len(t.Rows))
}

// ── keyboard ─────────────────────────────────────────────────────────────────

func (v *timelineView) handleKey(msg tea.KeyMsg) tea.Cmd {
	ed := v.state.Editor
	switch msg.String() {
	case "d":
		v.setMode(domain.ViewDay)
	case "w":
		v.setMode(domain.ViewWeek)
	case "m":
		v.setMode(domain.ViewMonth)
	case "+", "=":
		v.zoomSteps(-zoomKeySteps)
	case "-":
		v.zoomSteps(zoomKeySteps)
	case "0":
		v.rescale(func(z *timeline.Zoom) { z.Reset() })
	case "left", "h":
		v.pan(-panCells)
	case "right", "l":
		v.pan(panCells)
	case "up", "k":
		v.scrollRow--
		v.clampScrollRow(len(v.snapshot().Rows))
	case "down", "j":
		v.scrollRow++
		v.clampScrollRow(len(v.snapshot().Rows))
	case "a":
		row := ed.AddRow()
		return setStatus(fmt.Sprintf("Added %s", row.Name))
	case "n":
		return startWizardCmd(v.state, "New backlog item", newBacklogItemForm(v.state))
	case "r":
		return startWizardCmd(v.state, "Rename row", renameRowForm(v.state))
	case "D":
		return startWizardCmd(v.state, "Delete row", deleteRowForm(v.state))
	case "enter":
		if it, ok := v.snapshot().FindItem(v.selected); ok {
			return openDetail(v.state, it)
		}
	case "x":
		if v.selected == "" {
			return nil
		}
		if err := ed.DeleteItem(v.selected); err != nil {
			return setStatus(formatter.StyleRed.Render(err.Error()))
		}
		v.selected = ""
		return setStatus("Deleted item")
	case "u":
		if v.selected == "" {
			return nil
		}
		if err := ed.MoveToBacklog(v.selected); err != nil {
			return setStatus(formatter.StyleRed.Render(err.Error()))
		}
		v.showBacklog = true
		return setStatus("Moved to backlog")
	case "y":
		if err := v.state.App.copy(ed.ID()); err != nil {
			return setStatus(formatter.StyleRed.Render("Copy failed: " + err.Error()))
		}
		return setStatus("Copied timeline id " + ed.ID())
	case "c":
		if v.state.Commit == domain.CommitLive {
			v.state.Commit = domain.CommitOnRelease
		} else {
			v.state.Commit = domain.CommitLive
		}
		return setStatus("Drag commit mode: " + string(v.state.Commit))
	case "ctrl+b":
		v.showBacklog = !v.showBacklog
	case "ctrl+k":
		v.palette.Open(v.snapshot().Items)
		v.query.SetValue("")
		return v.query.Focus()
	}
	return nil
}

func (v *timelineView) handlePaletteKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		v.palette.Escape()
		v.query.Blur()
		return nil
	case tea.KeyUp:
		v.palette.Up()
		return nil
	case tea.KeyDown:
		v.palette.Down()
		return nil
	case tea.KeyEnter:
		it, ok := v.palette.Enter()
		if !ok {
			return nil
		}
		v.query.Blur()
		v.jumpTo(it)
		return setStatus("Selected " + it.Title)
	}
	var cmd tea.Cmd
	v.query, cmd = v.query.Update(msg)
	if v.query.Value() != v.palette.Query() {
		v.palette.SetQuery(v.query.Value())
	}
	return cmd
}

// jumpTo selects the item and scrolls it into view.
func (v *timelineView) jumpTo(it domain.Item) {
	v.selected = it.ID
	if it.IsBacklog() {
		v.showBacklog = true
		return
	}
	t := v.snapshot()
	vp := v.state.Viewport()
	if it.StartDate != nil {
		v.scrollX = math.Max(vp.X(*it.StartDate)-timeline.RowLabelWidth-panCells*cellPx, 0)
	}
	if idx := timeline.RowIndex(timeline.SortRows(t.Rows), it.RowID); idx >= 0 {
		v.scrollRow = idx
		v.clampScrollRow(len(t.Rows))
	}
}

func (v *timelineView) setMode(mode domain.ViewMode) {
	v.state.Mode = mode
	v.scrollX = 0
}

func (v *timelineView) zoomSteps(n int) {
	dy := 1.0
	if n < 0 {
		dy, n = -1, -n
	}
	v.rescale(func(z *timeline.Zoom) {
		for i := 0; i < n; i++ {
			z.Wheel(0, dy)
		}
	})
}

// rescale changes the zoom and keeps the left edge on the same date.
func (v *timelineView) rescale(fn func(z *timeline.Zoom)) {
	before := v.state.Zoom.Scale()
	fn(v.state.Zoom)
	if after := v.state.Zoom.Scale(); after != before {
		v.scrollX = v.scrollX * after / before
	}
}

func (v *timelineView) pan(cells int) {
	vp := v.state.Viewport()
	limit := vp.TotalWidth() - timeline.RowLabelWidth
	v.scrollX = math.Min(math.Max(v.scrollX+float64(cells)*cellPx, 0), math.Max(limit, 0))
}

func (v *timelineView) clampScrollRow(rows int) {
	v.scrollRow = min(v.scrollRow, rows-1)
	v.scrollRow = max(v.scrollRow, 0)
}

// ── mouse ────────────────────────────────────────────────────────────────────

func (v *timelineView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return v.wheel(msg, 0, -1)
	case tea.MouseButtonWheelDown:
		return v.wheel(msg, 0, 1)
	case tea.MouseButtonWheelLeft:
		return v.wheel(msg, -1, 0)
	case tea.MouseButtonWheelRight:
		return v.wheel(msg, 1, 0)
	}

	at := cellPos{x: msg.X, line: msg.Y}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			return v.press(at)
		}
	case tea.MouseActionMotion:
		return v.motion(at)
	case tea.MouseActionRelease:
		return v.release(at)
	}
	return nil
}

func (v *timelineView) wheel(msg tea.MouseMsg, dx, dy float64) tea.Cmd {
	if msg.Shift {
		dx, dy = dy, 0
	}
	zoomed := false
	v.rescale(func(z *timeline.Zoom) { zoomed = z.Wheel(dx, dy) })
	if !zoomed && dx != 0 {
		v.pan(int(dx) * panCells)
	}
	return nil
}

func (v *timelineView) press(at cellPos) tea.Cmd {
	if v.palette.IsOpen() || v.gesture.Active() {
		return nil
	}
	now := v.state.App.now()
	double := at == v.lastClickAt && now.Sub(v.lastClick) <= doubleClickWindow
	v.lastClick, v.lastClickAt = now, at
	if double {
		// A third press starts a new pair.
		v.lastClick = time.Time{}
	}

	t := v.snapshot()
	g := v.layout(t)

	if id, ok := g.chipAt(at); ok {
		v.backlogDrag = id
		v.dragging = false
		v.selected = id
		if double {
			v.backlogDrag = ""
			if it, ok := t.FindItem(id); ok {
				return openDetail(v.state, it)
			}
		}
		return nil
	}

	rowIdx := g.rowAt(at)
	if rowIdx < 0 {
		return nil
	}
	if at.x < labelCells {
		if double {
			return startWizardCmd(v.state, "Rename row", renameRowFormFor(v.state, g.rows[rowIdx]))
		}
		return nil
	}

	if hit, ok := g.itemAt(at); ok {
		if double {
			return openDetail(v.state, hit.placement.Item)
		}
		frame := timeline.Frame{
			Mode:          v.state.Mode,
			PixelsPerUnit: v.state.Zoom.PixelsPerUnit(v.state.Mode),
			RowHeight:     timeline.RowHeight,
			RowIDs:        timeline.RowIDs(g.rows),
		}
		if v.gesture.Press(hit.placement.Item, hit.placement.RowIndex, hit.zone, v.gridX(at.x), v.gridY(at.line), frame) {
			v.state.Editor.BeginGesture()
		}
		return nil
	}

	v.selected = ""
	if double {
		row := g.rows[rowIdx]
		start := v.state.Viewport().DateAtX(v.gridX(at.x))
		it, err := v.state.Editor.AddScheduledItem(row.ID, start)
		if err != nil {
			return setStatus(formatter.StyleRed.Render(err.Error()))
		}
		v.selected = it.ID
		return setStatus(fmt.Sprintf("Added item in %s on %s", row.Name, domain.FormatDate(start)))
	}
	return nil
}

func (v *timelineView) motion(at cellPos) tea.Cmd {
	switch {
	case v.gesture.Active():
		patch, ok := v.gesture.Move(v.gridX(at.x), v.gridY(at.line))
		if !ok {
			return nil
		}
		return v.commitTick(v.gesture.ItemID(), patch)
	case v.backlogDrag != "":
		v.dragAt = at
		v.dragging = true
		return nil
	}
	return v.hover(at)
}

// commitTick writes or previews one gesture tick depending on commit mode.
func (v *timelineView) commitTick(itemID string, patch domain.ItemPatch) tea.Cmd {
	var err error
	if v.state.Commit == domain.CommitOnRelease {
		err = v.state.Editor.PreviewItem(itemID, patch)
	} else {
		err = v.state.Editor.UpdateItem(itemID, patch)
	}
	if errors.Is(err, service.ErrItemNotFound) {
		v.gesture.Abort()
		v.state.Editor.EndGesture()
		return setStatus("Item was removed")
	}
	return nil
}

func (v *timelineView) release(at cellPos) tea.Cmd {
	if v.gesture.Active() {
		itemID := v.gesture.ItemID()
		final, ok := v.gesture.Release()
		var cmd tea.Cmd
		if ok {
			if err := v.state.Editor.UpdateItem(itemID, final); err != nil {
				cmd = setStatus(formatter.StyleRed.Render(err.Error()))
			}
		}
		v.state.Editor.EndGesture()
		if v.gesture.ConsumeClick() {
			v.selected = itemID
		}
		return cmd
	}

	if v.backlogDrag == "" {
		return nil
	}
	id := v.backlogDrag
	v.backlogDrag, v.dragging = "", false

	g := v.layout(v.snapshot())
	rowIdx := g.rowAt(at)
	if rowIdx < 0 || at.x < labelCells {
		return nil
	}
	row := g.rows[rowIdx]
	if err := v.state.Editor.ScheduleFromBacklog(id, row.ID, v.gridX(at.x), v.state.Viewport()); err != nil {
		return setStatus(formatter.StyleRed.Render(err.Error()))
	}
	return setStatus("Scheduled in " + row.Name)
}

// hover shows the title of narrow items, which have no room for text.
func (v *timelineView) hover(at cellPos) tea.Cmd {
	hit, ok := v.layout(v.snapshot()).itemAt(at)
	if !ok || hit.placement.Rect.Width >= timeline.TooltipWidth {
		return nil
	}
	it := hit.placement.Item
	tip := it.Title
	if it.Subtitle != "" {
		tip += " · " + it.Subtitle
	}
	return setStatus(tip + "  " + formatter.Dim(formatter.DateSpan(it)))
}

// ── coordinates ──────────────────────────────────────────────────────────────

// gridX is the pixel x at the centre of column cx, label column included.
func (v *timelineView) gridX(cx int) float64 {
	return timeline.RowLabelWidth + v.scrollX + float64(cx-labelCells)*cellPx + cellPx/2
}

// gridY is the pixel y at the centre of content line.
func (v *timelineView) gridY(line int) float64 {
	return float64(line-markerLines)*linePx + linePx/2 + float64(v.scrollRow)*timeline.RowHeight
}

// column is the terminal column holding grid pixel x.
func (v *timelineView) column(x float64) int {
	return labelCells + int(math.Floor((x-timeline.RowLabelWidth-v.scrollX)/cellPx))
}

func (v *timelineView) width() int {
	if v.state.Width > 0 {
		return v.state.Width
	}
	return defaultWidth
}

// visibleRows is how many rows fit above the backlog and palette panels.
func (v *timelineView) visibleRows() int {
	h := v.state.ContentHeight() - markerLines
	if v.showBacklog {
		h -= backlogLines
	}
	if v.palette.IsOpen() {
		h -= paletteLines
	}
	return max(h/rowLines, 1)
}
