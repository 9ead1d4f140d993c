// Package timeline holds the coordinate-space algebra of the planner: the
// conversions between calendar dates and horizontal pixels, zoom, item
// geometry, the drag/resize gesture machine, backlog scheduling, row
// ordering and the search index. Everything here is pure and synchronous.
package timeline

import (
	"math"
	"time"

	"github.com/alexanderramin/spanplan/internal/domain"
)

// BasePixelsPerUnit is the unzoomed width of one view unit.
func BasePixelsPerUnit(mode domain.ViewMode) float64 {
	switch mode {
	case domain.ViewWeek:
		return 120
	case domain.ViewMonth:
		return 150
	default:
		return 60
	}
}

// UnitDays is the fixed day count of one view unit, used for widths and
// gesture deltas. Months are approximated as 30 days.
func UnitDays(mode domain.ViewMode) float64 {
	switch mode {
	case domain.ViewWeek:
		return 7
	case domain.ViewMonth:
		return 30
	default:
		return 1
	}
}

// Origin is the date at x = 0 for the given base date: the base date
// itself, the Sunday starting its week, or the first of its month.
func Origin(base time.Time, mode domain.ViewMode) time.Time {
	d := domain.Midnight(base)
	switch mode {
	case domain.ViewWeek:
		return d.AddDate(0, 0, -int(d.Weekday()))
	case domain.ViewMonth:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}

// Position maps a date to its x offset, in pixels, from the origin.
func Position(date, base time.Time, mode domain.ViewMode, ppu float64) float64 {
	d := domain.Midnight(date)
	origin := Origin(base, mode)
	switch mode {
	case domain.ViewWeek:
		return float64(DaysBetween(origin, d)) / 7 * ppu
	case domain.ViewMonth:
		within := float64(d.Day()-1) / float64(DaysIn(d.Year(), d.Month()))
		return (float64(MonthsBetween(origin, d)) + within) * ppu
	default:
		return float64(DaysBetween(origin, d)) * ppu
	}
}

// DateAt is the inverse of Position for discrete placement: px is rounded
// to the nearest whole unit and that many units are added to the origin.
func DateAt(px float64, base time.Time, mode domain.ViewMode, ppu float64) time.Time {
	units := RoundHalfUp(px / ppu)
	return AddViewUnits(Origin(base, mode), units, mode)
}

// DeltaDays converts a horizontal pointer delta into whole days.
func DeltaDays(dx float64, mode domain.ViewMode, ppu float64) int {
	return RoundHalfUp(dx / ppu * UnitDays(mode))
}

// Width is the rendered width of a span, never narrower than MinItemWidth.
func Width(start, end time.Time, mode domain.ViewMode, ppu float64) float64 {
	days := float64(DaysBetween(domain.Midnight(start), domain.Midnight(end)))
	return math.Max(days*ppu/UnitDays(mode), MinItemWidth)
}

// AddViewUnits adds n days, weeks or months to d.
func AddViewUnits(d time.Time, n int, mode domain.ViewMode) time.Time {
	switch mode {
	case domain.ViewWeek:
		return d.AddDate(0, 0, 7*n)
	case domain.ViewMonth:
		return d.AddDate(0, n, 0)
	default:
		return d.AddDate(0, 0, n)
	}
}

// UnitsBetween counts whole view units from start to end, truncating
// toward zero.
func UnitsBetween(start, end time.Time, mode domain.ViewMode) int {
	switch mode {
	case domain.ViewWeek:
		return DaysBetween(start, end) / 7
	case domain.ViewMonth:
		m := MonthsBetween(start, end)
		if m > 0 && end.Day() < start.Day() {
			m--
		} else if m < 0 && end.Day() > start.Day() {
			m++
		}
		return m
	default:
		return DaysBetween(start, end)
	}
}

// ViewStart is the first day of the unit containing d.
func ViewStart(d time.Time, mode domain.ViewMode) time.Time {
	return Origin(d, mode)
}

// ViewEnd is the last day of the unit containing d.
func ViewEnd(d time.Time, mode domain.ViewMode) time.Time {
	return AddViewUnits(Origin(d, mode), 1, mode).AddDate(0, 0, -1)
}

// DaysBetween counts calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(domain.Midnight(b).Sub(domain.Midnight(a)).Hours() / 24))
}

// MonthsBetween counts calendar month boundaries from a to b.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// RoundHalfUp rounds to the nearest integer, halves toward positive infinity.
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
