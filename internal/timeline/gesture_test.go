package timeline

import (
	"testing"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayFrame(rows ...string) Frame {
	return Frame{Mode: domain.ViewDay, PixelsPerUnit: 60, RowHeight: RowHeight, RowIDs: rows}
}

func TestGesture_DragShiftsDatesAndRow(t *testing.T) {
	var g Gesture
	it := item("a", "r0", "2024-06-01", "2024-06-08")
	require.True(t, g.Press(it, 0, ZoneBody, 300, 30, dayFrame("r0", "r1", "r2")))
	assert.Equal(t, Dragging, g.State())
	assert.Equal(t, "a", g.ItemID())

	patch, ok := g.Move(425, 95)
	require.True(t, ok)
	assert.Equal(t, d(2024, 6, 3), *patch.StartDate)
	assert.Equal(t, d(2024, 6, 10), *patch.EndDate)
	assert.Equal(t, "r1", *patch.RowID)

	patch, ok = g.Move(425, -500)
	require.True(t, ok)
	assert.Equal(t, "r0", *patch.RowID, "row index clamps at the top")

	patch, ok = g.Move(425, 5000)
	require.True(t, ok)
	assert.Equal(t, "r2", *patch.RowID, "row index clamps at the bottom")

	final, ok := g.Release()
	require.True(t, ok)
	assert.Equal(t, patch, final)
	assert.Equal(t, Idle, g.State())
	assert.False(t, g.ConsumeClick(), "moved gestures suppress the click")
	assert.True(t, g.ConsumeClick())
}

func TestGesture_DragPreservesDuration(t *testing.T) {
	var g Gesture
	it := item("a", "r0", "2024-06-01", "2024-06-08")
	require.True(t, g.Press(it, 0, ZoneBody, 0, 0, Frame{Mode: domain.ViewWeek, PixelsPerUnit: 120, RowHeight: RowHeight}))
	for _, dx := range []float64{-250, -17, 3, 100, 999} {
		patch, ok := g.Move(dx, 0)
		if !ok {
			continue
		}
		assert.Equal(t, 7, DaysBetween(*patch.StartDate, *patch.EndDate))
		assert.Nil(t, patch.RowID, "no rows means no row change")
	}
}

func TestGesture_SmallMoveIsAClick(t *testing.T) {
	var g Gesture
	it := item("a", "r0", "2024-06-01", "2024-06-08")
	require.True(t, g.Press(it, 0, ZoneBody, 300, 30, dayFrame("r0")))
	patch, ok := g.Move(302, 32)
	require.True(t, ok)
	assert.Equal(t, d(2024, 6, 1), *patch.StartDate)

	_, ok = g.Move(303, 33)
	assert.False(t, ok, "identical consecutive ticks are dropped")

	g.Release()
	assert.False(t, g.Moved())
	assert.True(t, g.ConsumeClick())
}

func TestGesture_ResizeLeftNeverCrossesEnd(t *testing.T) {
	var g Gesture
	it := item("a", "r0", "2024-06-01", "2024-06-08")
	require.True(t, g.Press(it, 0, ZoneLeftHandle, 150, 30, dayFrame("r0")))
	assert.Equal(t, ResizingLeft, g.State())

	for k := 1; k <= 10; k++ {
		patch, ok := g.Move(150+float64(k)*60, 30)
		if k <= 6 {
			require.True(t, ok, "k=%d", k)
			assert.Equal(t, d(2024, 6, 1+k), *patch.StartDate)
			assert.Nil(t, patch.EndDate)
			assert.Nil(t, patch.RowID)
		} else {
			assert.False(t, ok, "k=%d would invert the span", k)
		}
	}
	final, ok := g.Release()
	require.True(t, ok)
	assert.Equal(t, d(2024, 6, 7), *final.StartDate)
}

func TestGesture_ResizeRightNeverCrossesStart(t *testing.T) {
	var g Gesture
	it := item("a", "r0", "2024-06-01", "2024-06-08")
	require.True(t, g.Press(it, 0, ZoneRightHandle, 600, 30, dayFrame("r0")))

	patch, ok := g.Move(600-6*60, 30)
	require.True(t, ok)
	assert.Equal(t, d(2024, 6, 2), *patch.EndDate)

	_, ok = g.Move(600-7*60, 30)
	assert.False(t, ok)

	patch, ok = g.Move(600+3*60, 30)
	require.True(t, ok)
	assert.Equal(t, d(2024, 6, 11), *patch.EndDate)
	assert.Nil(t, patch.StartDate)
}

func TestGesture_PressRejections(t *testing.T) {
	var g Gesture
	assert.False(t, g.Press(item("b", "", "", ""), -1, ZoneBody, 0, 0, dayFrame()))
	assert.False(t, g.Press(item("a", "r0", "2024-06-01", "2024-06-02"), 0, ZoneNone, 0, 0, dayFrame()))

	require.True(t, g.Press(item("a", "r0", "2024-06-01", "2024-06-02"), 0, ZoneBody, 0, 0, dayFrame()))
	assert.False(t, g.Press(item("c", "r0", "2024-06-01", "2024-06-02"), 0, ZoneBody, 0, 0, dayFrame()))
	assert.Equal(t, "a", g.ItemID())

	g.Abort()
	assert.False(t, g.Active())
	_, ok := g.Release()
	assert.False(t, ok)
	_, ok = g.Move(10, 10)
	assert.False(t, ok)
}

func TestGesture_DeltasAreAgainstSnapshot(t *testing.T) {
	var g Gesture
	it := item("a", "r0", "2024-06-01", "2024-06-08")
	require.True(t, g.Press(it, 0, ZoneBody, 0, 0, dayFrame("r0")))
	g.Move(600, 0)
	patch, ok := g.Move(60, 0)
	require.True(t, ok)
	assert.Equal(t, d(2024, 6, 2), *patch.StartDate)
}
