package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/spanplan/internal/cli/formatter"
	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/timeline"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	chipMaxCells   = 20
	paletteResults = paletteLines - 2
)

// gridLayout is the cell geometry of one frame. Update and View derive it
// from the same snapshot so hit testing matches what is drawn.
type gridLayout struct {
	v          *timelineView
	rows       []domain.Row
	first      int
	count      int
	placements []timeline.Placement
	backlog    []domain.Item
	chips      []chip
	backlogTop int
}

type chip struct {
	itemID string
	x0, x1 int
}

type hitResult struct {
	placement timeline.Placement
	zone      timeline.Zone
}

func (v *timelineView) layout(t domain.Timeline) gridLayout {
	g := gridLayout{
		v:          v,
		rows:       timeline.SortRows(t.Rows),
		first:      v.scrollRow,
		placements: v.state.Viewport().PlaceAll(t),
		backlog:    timeline.Backlog(t.Items),
		backlogTop: -1,
	}
	g.first = min(max(g.first, 0), max(len(g.rows)-1, 0))
	g.count = max(min(len(g.rows)-g.first, v.visibleRows()), 0)
	if v.showBacklog {
		g.backlogTop = markerLines + g.count*rowLines
		x := 1
		for _, it := range g.backlog {
			w := runewidth.StringWidth(chipLabel(it))
			g.chips = append(g.chips, chip{itemID: it.ID, x0: x, x1: x + w})
			x += w + 1
		}
	}
	return g
}

func chipLabel(it domain.Item) string {
	return " " + formatter.Truncate(it.Title, chipMaxCells-2) + " "
}

// rowAt returns the absolute row index under a content position, or -1.
func (g gridLayout) rowAt(at cellPos) int {
	if at.line < markerLines || at.line >= markerLines+g.count*rowLines {
		return -1
	}
	return g.first + (at.line-markerLines)/rowLines
}

// span is the half-open column range an item occupies.
func (g gridLayout) span(p timeline.Placement) (int, int) {
	c0 := g.v.column(p.Rect.X)
	c1 := g.v.column(p.Rect.X+p.Rect.Width-1e-6) + 1
	return c0, max(c1, c0+1)
}

// itemAt finds the topmost item under a position. Items occupy the first
// two lines of their row; the third is the row separator.
func (g gridLayout) itemAt(at cellPos) (hitResult, bool) {
	rowIdx := g.rowAt(at)
	if rowIdx < 0 || at.x < labelCells || (at.line-markerLines)%rowLines == rowLines-1 {
		return hitResult{}, false
	}
	for i := len(g.placements) - 1; i >= 0; i-- {
		p := g.placements[i]
		if p.RowIndex != rowIdx {
			continue
		}
		c0, c1 := g.span(p)
		if at.x < c0 || at.x >= c1 {
			continue
		}
		zone := timeline.ZoneBody
		if c1-c0 >= 3 {
			switch at.x {
			case c0:
				zone = timeline.ZoneLeftHandle
			case c1 - 1:
				zone = timeline.ZoneRightHandle
			}
		}
		return hitResult{placement: p, zone: zone}, true
	}
	return hitResult{}, false
}

func (g gridLayout) chipAt(at cellPos) (string, bool) {
	if g.backlogTop < 0 || at.line != g.backlogTop+1 {
		return "", false
	}
	for _, c := range g.chips {
		if at.x >= c.x0 && at.x < c.x1 {
			return c.itemID, true
		}
	}
	return "", false
}

// ── drawing ──────────────────────────────────────────────────────────────────

func (v *timelineView) View() string {
	t := v.snapshot()
	g := v.layout(t)
	w := v.width()

	height := markerLines + g.count*rowLines
	if v.showBacklog {
		height += backlogLines
	}
	c := newCanvas(w, height)
	dim := c.style(formatter.StyleDim)

	v.drawMarkers(c, dim)
	v.drawRows(c, g)
	v.drawItems(c, g)
	v.drawDropGhost(c, g, t)
	if v.showBacklog {
		v.drawBacklog(c, g, dim)
	}

	out := c.String()
	if v.palette.IsOpen() {
		out += "\n" + v.renderPalette(t, w)
	}
	return out
}

func (v *timelineView) drawMarkers(c *canvas, dim int) {
	c.text(0, 1, labelCells, string(v.state.Mode), dim)
	free := labelCells
	for _, m := range v.state.Viewport().Markers() {
		cx := v.column(m.X)
		if cx < free || cx >= c.width {
			continue
		}
		c.text(0, cx, c.width, "╎"+m.Label, dim)
		free = cx + runewidth.StringWidth(m.Label) + 2
	}
}

func (v *timelineView) drawRows(c *canvas, g gridLayout) {
	label := c.style(formatter.StyleLabel)
	sep := c.style(lipgloss.NewStyle().Foreground(formatter.ColorLabel))
	for i := 0; i < g.count; i++ {
		row := g.rows[g.first+i]
		top := markerLines + i*rowLines
		for l := 0; l < rowLines; l++ {
			c.fill(top+l, 0, labelCells, label)
		}
		c.text(top, 1, labelCells-1, formatter.Truncate(row.Name, labelCells-2), label)
		c.text(top+rowLines-1, labelCells, c.width, strings.Repeat("┈", c.width), sep)
	}
}

func (v *timelineView) drawItems(c *canvas, g gridLayout) {
	for _, p := range g.placements {
		i := p.RowIndex - g.first
		if i < 0 || i >= g.count {
			continue
		}
		c0, c1 := g.span(p)
		left, right := max(c0, labelCells), min(c1, c.width)
		if left >= right {
			continue
		}

		st := formatter.ItemStyle(p.Item.Color)
		if p.Item.ID == v.selected {
			st = st.Bold(true).Underline(true)
		}
		s := c.style(st)
		top := markerLines + i*rowLines
		c.fill(top, left, right, s)
		c.fill(top+1, left, right, s)
		if c1-c0 >= 3 {
			if c0 >= labelCells {
				c.text(top, c0, c0+1, "▏", s)
				c.text(top+1, c0, c0+1, "▏", s)
			}
			if c1-1 < c.width {
				c.text(top, c1-1, c1, "▕", s)
				c.text(top+1, c1-1, c1, "▕", s)
			}
		}
		if p.Rect.Width < timeline.TooltipWidth {
			continue
		}
		x := max(c0+1, labelCells)
		room := min(c1-1, c.width) - x
		if room <= 0 {
			continue
		}
		c.text(top, x, x+room, formatter.Truncate(p.Item.Title, room), s)
		c.text(top+1, x, x+room, formatter.Truncate(p.Item.Subtitle, room), s)
	}
}

// drawDropGhost previews where a dragged backlog item would land.
func (v *timelineView) drawDropGhost(c *canvas, g gridLayout, t domain.Timeline) {
	if v.backlogDrag == "" || !v.dragging {
		return
	}
	rowIdx := g.rowAt(v.dragAt)
	if rowIdx < 0 || v.dragAt.x < labelCells {
		return
	}
	it, ok := t.FindItem(v.backlogDrag)
	if !ok {
		return
	}
	vp := v.state.Viewport()
	patch, err := timeline.ScheduleDrop(it, g.rows[rowIdx].ID, v.gridX(v.dragAt.x), vp)
	if err != nil {
		return
	}
	placed, err := patch.Apply(it)
	if err != nil {
		return
	}
	rect, ok := vp.Layout(placed, rowIdx)
	if !ok {
		return
	}
	c0, c1 := g.span(timeline.Placement{Item: placed, RowIndex: rowIdx, Rect: rect})
	left, right := max(c0, labelCells), min(c1, c.width)
	if left >= right {
		return
	}
	ghost := c.style(lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorDim))
	top := markerLines + (rowIdx-g.first)*rowLines
	c.fill(top, left, right, ghost)
	c.text(top, left, right, formatter.Truncate(it.Title, right-left), ghost)
}

func (v *timelineView) drawBacklog(c *canvas, g gridLayout, dim int) {
	head := fmt.Sprintf("─ Backlog (%d) ", len(g.backlog))
	if v.backlogDrag != "" && v.dragging {
		head += "drop on a row to schedule "
	}
	c.text(g.backlogTop, 0, c.width, head+strings.Repeat("─", c.width), dim)

	if len(g.chips) == 0 {
		c.text(g.backlogTop+1, 1, c.width, "empty, press n to add an item", dim)
		return
	}
	for i, ch := range g.chips {
		st := formatter.ItemStyle(g.backlog[i].Color)
		if ch.itemID == v.selected {
			st = st.Bold(true).Underline(true)
		}
		c.text(g.backlogTop+1, ch.x0, c.width, chipLabel(g.backlog[i]), c.style(st))
	}
}

func (v *timelineView) renderPalette(t domain.Timeline, width int) string {
	lines := []string{
		formatter.Dim("─ Jump to item " + strings.Repeat("─", max(width-15, 0))),
		v.query.View(),
	}
	results := v.palette.Results()
	sel := v.palette.Selected()
	first := max(0, sel-paletteResults+1)
	for i := first; i < len(results) && i < first+paletteResults; i++ {
		it := results[i]
		where := "backlog"
		if row, ok := t.FindRow(derefStr(it.RowID)); ok {
			where = row.Name
		}
		line := fmt.Sprintf("%s %s  %s", formatter.Swatch(it.Color), it.Title, formatter.Dim(where+" · "+formatter.DateSpan(it)))
		if i == sel {
			line = formatter.StyleHeader.Render("›") + " " + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	if len(results) == 0 {
		lines = append(lines, formatter.Dim("  no matching items"))
	}
	return strings.Join(lines, "\n")
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ── canvas ───────────────────────────────────────────────────────────────────

type cell struct {
	text  string // "" marks the right half of a wide rune
	style int
}

// canvas is a fixed grid of styled cells rendered line by line, so items
// can overlap without breaking ANSI sequences.
type canvas struct {
	width  int
	lines  [][]cell
	styles []lipgloss.Style
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, styles: []lipgloss.Style{lipgloss.NewStyle()}}
	c.lines = make([][]cell, height)
	for i := range c.lines {
		row := make([]cell, width)
		for x := range row {
			row[x] = cell{text: " "}
		}
		c.lines[i] = row
	}
	return c
}

func (c *canvas) style(s lipgloss.Style) int {
	c.styles = append(c.styles, s)
	return len(c.styles) - 1
}

func (c *canvas) fill(line, x0, x1, style int) {
	if line < 0 || line >= len(c.lines) {
		return
	}
	for x := max(x0, 0); x < min(x1, c.width); x++ {
		c.lines[line][x] = cell{text: " ", style: style}
	}
}

// text writes s from column x, stopping before maxX.
func (c *canvas) text(line, x, maxX int, s string, style int) {
	if line < 0 || line >= len(c.lines) {
		return
	}
	maxX = min(maxX, c.width)
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > maxX {
			return
		}
		if x >= 0 {
			c.lines[line][x] = cell{text: string(r), style: style}
			if rw == 2 {
				c.lines[line][x+1] = cell{style: style}
			}
		}
		x += rw
	}
}

func (c *canvas) String() string {
	out := make([]string, len(c.lines))
	for i, row := range c.lines {
		var b strings.Builder
		for x := 0; x < len(row); {
			style := row[x].style
			var run strings.Builder
			for x < len(row) && row[x].style == style {
				run.WriteString(row[x].text)
				x++
			}
			if style == 0 {
				b.WriteString(run.String())
			} else {
				b.WriteString(c.styles[style].Render(run.String()))
			}
		}
		out[i] = strings.TrimRight(b.String(), " ")
	}
	return strings.Join(out, "\n")
}
