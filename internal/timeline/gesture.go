package timeline

import (
	"math"
	"time"

	"github.com/alexanderramin/spanplan/internal/domain"
)

type GestureState int

const (
	Idle GestureState = iota
	Dragging
	ResizingLeft
	ResizingRight
)

func (s GestureState) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case ResizingLeft:
		return "resizing-left"
	case ResizingRight:
		return "resizing-right"
	default:
		return "idle"
	}
}

// Zone is the part of an item a pointer press landed on.
type Zone int

const (
	ZoneNone Zone = iota
	ZoneBody
	ZoneLeftHandle
	ZoneRightHandle
)

// HitZone classifies a point against an item box. The outermost
// HandleWidth pixels on either side are resize handles.
func HitZone(r Rect, x, y float64) Zone {
	switch {
	case !r.Contains(x, y):
		return ZoneNone
	case x < r.X+HandleWidth:
		return ZoneLeftHandle
	case x >= r.X+r.Width-HandleWidth:
		return ZoneRightHandle
	default:
		return ZoneBody
	}
}

// Frame is the view state captured when a gesture starts. Later view
// changes do not affect a running gesture.
type Frame struct {
	Mode          domain.ViewMode
	PixelsPerUnit float64
	RowHeight     float64
	// RowIDs are the row ids in display order.
	RowIDs []string
}

type gestureSnapshot struct {
	x, y     float64
	itemID   string
	start    time.Time
	end      time.Time
	rowIndex int
}

// Gesture is the pointer state machine for dragging and resizing a single
// item. All deltas are computed against the snapshot taken on Press, never
// against intermediate ticks.
type Gesture struct {
	state   GestureState
	snap    gestureSnapshot
	frame   Frame
	moved   bool
	last    domain.ItemPatch
	hasLast bool
}

func (g *Gesture) State() GestureState { return g.state }

// Active reports whether a drag or resize is in progress.
func (g *Gesture) Active() bool { return g.state != Idle }

// ItemID is the item being manipulated, empty when idle.
func (g *Gesture) ItemID() string {
	if g.state == Idle {
		return ""
	}
	return g.snap.itemID
}

// Moved reports whether the pointer travelled past DragThreshold since the
// last press.
func (g *Gesture) Moved() bool { return g.moved }

// Press starts a gesture on a scheduled item. It returns false, leaving
// the machine untouched, for backlog items, misses, or while another
// gesture is running.
func (g *Gesture) Press(item domain.Item, rowIndex int, zone Zone, x, y float64, frame Frame) bool {
	if g.state != Idle || item.StartDate == nil || item.EndDate == nil {
		return false
	}
	var next GestureState
	switch zone {
	case ZoneBody:
		next = Dragging
	case ZoneLeftHandle:
		next = ResizingLeft
	case ZoneRightHandle:
		next = ResizingRight
	default:
		return false
	}
	g.state = next
	g.frame = frame
	g.snap = gestureSnapshot{
		x:        x,
		y:        y,
		itemID:   item.ID,
		start:    *item.StartDate,
		end:      *item.EndDate,
		rowIndex: rowIndex,
	}
	g.moved = false
	g.last = domain.ItemPatch{}
	g.hasLast = false
	return true
}

// Move processes a pointer move. It returns the patch to commit for this
// tick, or false when idle, when a resize would invert the span, or when
// the result equals the previous tick.
func (g *Gesture) Move(x, y float64) (domain.ItemPatch, bool) {
	if g.state == Idle {
		return domain.ItemPatch{}, false
	}
	dx, dy := x-g.snap.x, y-g.snap.y
	if math.Abs(dx) > DragThreshold || math.Abs(dy) > DragThreshold {
		g.moved = true
	}
	days := DeltaDays(dx, g.frame.Mode, g.frame.PixelsPerUnit)

	var patch domain.ItemPatch
	switch g.state {
	case Dragging:
		start := g.snap.start.AddDate(0, 0, days)
		end := g.snap.end.AddDate(0, 0, days)
		patch.StartDate, patch.EndDate = &start, &end
		if n := len(g.frame.RowIDs); n > 0 && g.frame.RowHeight > 0 {
			idx := g.snap.rowIndex + RoundHalfUp(dy/g.frame.RowHeight)
			idx = min(max(idx, 0), n-1)
			patch.RowID = domain.StrPtr(g.frame.RowIDs[idx])
		}
	case ResizingLeft:
		start := g.snap.start.AddDate(0, 0, days)
		if !start.Before(g.snap.end) {
			return domain.ItemPatch{}, false
		}
		patch.StartDate = &start
	case ResizingRight:
		end := g.snap.end.AddDate(0, 0, days)
		if !end.After(g.snap.start) {
			return domain.ItemPatch{}, false
		}
		patch.EndDate = &end
	}

	if g.hasLast && samePatch(g.last, patch) {
		return domain.ItemPatch{}, false
	}
	g.last, g.hasLast = patch, true
	return patch, true
}

// Release ends the gesture and returns the last valid patch, which must be
// written even when intermediate ticks were coalesced or deferred.
func (g *Gesture) Release() (domain.ItemPatch, bool) {
	if g.state == Idle {
		return domain.ItemPatch{}, false
	}
	g.state = Idle
	patch, ok := g.last, g.hasLast
	g.last, g.hasLast = domain.ItemPatch{}, false
	return patch, ok
}

// Abort drops the gesture without producing a patch, used when the item
// disappears mid-gesture.
func (g *Gesture) Abort() {
	g.state = Idle
	g.last, g.hasLast = domain.ItemPatch{}, false
}

// ConsumeClick reports whether the click following a release should be
// delivered as a selection. A gesture that moved suppresses it.
func (g *Gesture) ConsumeClick() bool {
	moved := g.moved
	g.moved = false
	return !moved
}

func samePatch(a, b domain.ItemPatch) bool {
	return sameDate(a.StartDate, b.StartDate) && sameDate(a.EndDate, b.EndDate) && sameStr(a.RowID, b.RowID)
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func sameStr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
