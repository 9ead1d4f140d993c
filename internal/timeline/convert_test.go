package timeline

import (
	"testing"
	"time"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestOrigin(t *testing.T) {
	base := d(2024, 6, 5) // Wednesday
	assert.Equal(t, base, Origin(base, domain.ViewDay))
	assert.Equal(t, d(2024, 6, 2), Origin(base, domain.ViewWeek))
	assert.Equal(t, d(2024, 6, 1), Origin(base, domain.ViewMonth))
	assert.Equal(t, d(2024, 6, 2), Origin(d(2024, 6, 2), domain.ViewWeek), "sunday is its own week start")
}

func TestPosition_Day(t *testing.T) {
	base := d(2024, 6, 1)
	assert.Equal(t, 0.0, Position(base, base, domain.ViewDay, 60))
	assert.Equal(t, 180.0, Position(d(2024, 6, 4), base, domain.ViewDay, 60))
	assert.Equal(t, -60.0, Position(d(2024, 5, 31), base, domain.ViewDay, 60))
}

func TestPosition_Week(t *testing.T) {
	base := d(2024, 6, 5)
	assert.Equal(t, 120.0, Position(d(2024, 6, 9), base, domain.ViewWeek, 120))
	assert.InDelta(t, 3.0/7*120, Position(base, base, domain.ViewWeek, 120), 1e-9)
}

func TestPosition_Month(t *testing.T) {
	base := d(2024, 6, 15)
	assert.Equal(t, 0.0, Position(d(2024, 6, 1), base, domain.ViewMonth, 150))
	assert.InDelta(t, (1+15.0/31)*150, Position(d(2024, 7, 16), base, domain.ViewMonth, 150), 1e-9)

	// Within-month offset uses the target month's own length.
	feb := Position(d(2024, 2, 15), d(2024, 1, 10), domain.ViewMonth, 150)
	assert.InDelta(t, (1+14.0/29)*150, feb, 1e-9)

	before := Position(d(2024, 5, 16), base, domain.ViewMonth, 150)
	assert.InDelta(t, (-1+15.0/31)*150, before, 1e-9)
}

func TestDateAt_RoundsToNearestUnit(t *testing.T) {
	base := d(2024, 6, 1)
	assert.Equal(t, d(2024, 6, 2), DateAt(89, base, domain.ViewDay, 60))
	assert.Equal(t, d(2024, 6, 3), DateAt(90, base, domain.ViewDay, 60))
	assert.Equal(t, d(2024, 5, 31), DateAt(-40, base, domain.ViewDay, 60))

	assert.Equal(t, d(2024, 6, 9), DateAt(130, d(2024, 6, 5), domain.ViewWeek, 120))
	assert.Equal(t, d(2024, 7, 1), DateAt(160, d(2024, 6, 20), domain.ViewMonth, 150))
}

func TestDateAt_RoundTrip(t *testing.T) {
	base := d(2024, 6, 5)
	for _, mode := range []domain.ViewMode{domain.ViewDay, domain.ViewWeek} {
		ppu := BasePixelsPerUnit(mode)
		for k := -5; k <= 20; k++ {
			x := float64(k) * ppu
			assert.InDelta(t, x, Position(DateAt(x, base, mode, ppu), base, mode, ppu), 1e-9, "mode=%s k=%d", mode, k)
		}
	}
	for k := 0; k < 24; k++ {
		x := float64(k) * 150
		assert.InDelta(t, x, Position(DateAt(x, base, domain.ViewMonth, 150), base, domain.ViewMonth, 150), 1e-9)
	}
}

func TestDateAt_RoundTripArbitraryDates(t *testing.T) {
	base := d(2024, 6, 5)
	dates := []time.Time{
		d(2024, 1, 31), d(2024, 2, 28), d(2024, 2, 29), d(2023, 2, 28),
		d(2024, 4, 30), d(2024, 6, 5), d(2024, 6, 19), d(2024, 8, 31),
		d(2024, 11, 30), d(2024, 12, 31), d(2025, 3, 17),
	}
	for _, mode := range []domain.ViewMode{domain.ViewDay, domain.ViewWeek, domain.ViewMonth} {
		ppu := BasePixelsPerUnit(mode)
		limit := UnitDays(mode)
		if mode == domain.ViewMonth {
			limit = 31
		}
		for _, date := range dates {
			got := DateAt(Position(date, base, mode, ppu), base, mode, ppu)
			off := DaysBetween(date, got)
			if off < 0 {
				off = -off
			}
			assert.LessOrEqual(t, float64(off), limit, "mode=%s date=%s got=%s", mode, domain.FormatDate(date), domain.FormatDate(got))
			if mode == domain.ViewDay {
				assert.Equal(t, date, got)
			}
		}
	}
}

func TestWidth(t *testing.T) {
	start, end := d(2024, 6, 1), d(2024, 6, 8)
	assert.Equal(t, 420.0, Width(start, end, domain.ViewDay, 60))
	assert.Equal(t, 120.0, Width(start, end, domain.ViewWeek, 120))
	assert.Equal(t, 35.0, Width(start, end, domain.ViewMonth, 150))
	assert.Equal(t, float64(MinItemWidth), Width(start, start, domain.ViewDay, 60))
	assert.Equal(t, float64(MinItemWidth), Width(start, end, domain.ViewMonth, 30))
}

func TestDeltaDays(t *testing.T) {
	assert.Equal(t, 2, DeltaDays(125, domain.ViewDay, 60))
	assert.Equal(t, 6, DeltaDays(100, domain.ViewWeek, 120))
	assert.Equal(t, 20, DeltaDays(100, domain.ViewMonth, 150))
	assert.Equal(t, -1, DeltaDays(-40, domain.ViewDay, 60))
	assert.Equal(t, 0, DeltaDays(-30, domain.ViewDay, 60), "halves round up")
}

func TestUnitsBetween(t *testing.T) {
	assert.Equal(t, 10, UnitsBetween(d(2024, 6, 1), d(2024, 6, 11), domain.ViewDay))
	assert.Equal(t, 1, UnitsBetween(d(2024, 6, 1), d(2024, 6, 13), domain.ViewWeek))
	assert.Equal(t, 0, UnitsBetween(d(2024, 6, 15), d(2024, 7, 10), domain.ViewMonth))
	assert.Equal(t, 1, UnitsBetween(d(2024, 6, 15), d(2024, 7, 15), domain.ViewMonth))
}

func TestViewStartEnd(t *testing.T) {
	base := d(2024, 2, 14)
	assert.Equal(t, d(2024, 2, 11), ViewStart(base, domain.ViewWeek))
	assert.Equal(t, d(2024, 2, 17), ViewEnd(base, domain.ViewWeek))
	assert.Equal(t, d(2024, 2, 29), ViewEnd(base, domain.ViewMonth))
	assert.Equal(t, base, ViewEnd(base, domain.ViewDay))
}

func TestDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)
	b := time.Date(2024, 3, 11, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, DaysBetween(a, b))
}
