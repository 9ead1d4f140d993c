package timeline

import (
	"time"

	"github.com/alexanderramin/spanplan/internal/domain"
)

const (
	RowHeight       = 60
	RowLabelWidth   = 150
	VerticalPadding = 4
	MinItemWidth    = 30
	HandleWidth     = 8
	DragThreshold   = 3
	// TooltipWidth is the width below which the title is shown on hover
	// rather than inside the item.
	TooltipWidth = 100
	// DefaultSpanDays is the duration given to new and dropped items.
	DefaultSpanDays = 7
)

// Rect is an item's box in grid pixels. X includes the row label column.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point lies inside r.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Viewport is everything geometry needs to know about the current view.
type Viewport struct {
	BaseDate        time.Time
	Mode            domain.ViewMode
	PixelsPerUnit   float64
	RowHeight       float64
	RowLabelWidth   float64
	VerticalPadding float64
}

// NewViewport builds a viewport with the default row metrics.
func NewViewport(base time.Time, mode domain.ViewMode, zoom *Zoom) Viewport {
	return Viewport{
		BaseDate:        domain.Midnight(base),
		Mode:            mode,
		PixelsPerUnit:   zoom.PixelsPerUnit(mode),
		RowHeight:       RowHeight,
		RowLabelWidth:   RowLabelWidth,
		VerticalPadding: VerticalPadding,
	}
}

// X maps a date to a grid x coordinate (label column included).
func (v Viewport) X(d time.Time) float64 {
	return Position(d, v.BaseDate, v.Mode, v.PixelsPerUnit) + v.RowLabelWidth
}

// DateAtX is the rounded date under a grid x coordinate.
func (v Viewport) DateAtX(x float64) time.Time {
	return DateAt(x-v.RowLabelWidth, v.BaseDate, v.Mode, v.PixelsPerUnit)
}

// Layout computes the item's box in the row at rowIndex. Backlog items and
// items whose row is gone (rowIndex < 0) are not rendered.
func (v Viewport) Layout(item domain.Item, rowIndex int) (Rect, bool) {
	if item.StartDate == nil || item.EndDate == nil || rowIndex < 0 {
		return Rect{}, false
	}
	return Rect{
		X:      v.X(*item.StartDate),
		Y:      float64(rowIndex)*v.RowHeight + v.VerticalPadding,
		Width:  Width(*item.StartDate, *item.EndDate, v.Mode, v.PixelsPerUnit),
		Height: v.RowHeight - 2*v.VerticalPadding,
	}, true
}

// Placement is a renderable item with its computed box.
type Placement struct {
	Item     domain.Item
	RowIndex int
	Rect     Rect
}

// PlaceAll lays out every renderable item of t, in stored item order.
func (v Viewport) PlaceAll(t domain.Timeline) []Placement {
	sorted := SortRows(t.Rows)
	out := make([]Placement, 0, len(t.Items))
	for _, it := range t.Items {
		idx := RowIndex(sorted, it.RowID)
		rect, ok := v.Layout(it, idx)
		if !ok {
			continue
		}
		out = append(out, Placement{Item: it, RowIndex: idx, Rect: rect})
	}
	return out
}

// ItemAt returns the topmost placement under the point. Later items are
// drawn over earlier ones.
func ItemAt(placements []Placement, x, y float64) (Placement, bool) {
	for i := len(placements) - 1; i >= 0; i-- {
		if placements[i].Rect.Contains(x, y) {
			return placements[i], true
		}
	}
	return Placement{}, false
}

// RowAt maps a y coordinate to a row index, or -1 outside [0, rowCount).
func (v Viewport) RowAt(y float64, rowCount int) int {
	if y < 0 {
		return -1
	}
	idx := int(y / v.RowHeight)
	if idx >= rowCount {
		return -1
	}
	return idx
}

// TotalUnits is the number of header units drawn for a mode.
func TotalUnits(mode domain.ViewMode) int {
	switch mode {
	case domain.ViewWeek:
		return 52
	case domain.ViewMonth:
		return 24
	default:
		return 365
	}
}

// TotalWidth is the full grid width including the label column.
func (v Viewport) TotalWidth() float64 {
	return float64(TotalUnits(v.Mode))*v.PixelsPerUnit + v.RowLabelWidth
}

// Marker is a header tick.
type Marker struct {
	Date  time.Time
	X     float64
	Label string
}

// Markers returns the header ticks, one per unit from the origin.
func (v Viewport) Markers() []Marker {
	origin := Origin(v.BaseDate, v.Mode)
	layout := "Jan 2"
	if v.Mode == domain.ViewMonth {
		layout = "Jan 2006"
	}
	n := TotalUnits(v.Mode)
	out := make([]Marker, n)
	for i := 0; i < n; i++ {
		d := AddViewUnits(origin, i, v.Mode)
		out[i] = Marker{Date: d, X: float64(i)*v.PixelsPerUnit + v.RowLabelWidth, Label: d.Format(layout)}
	}
	return out
}
