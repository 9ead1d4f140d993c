package timeline

import (
	"errors"

	"github.com/alexanderramin/spanplan/internal/domain"
)

var ErrAlreadyScheduled = errors.New("item is already scheduled")

// ScheduleDrop converts a backlog item dropped at grid x dropX over rowID
// into one patch that sets the row and both dates. The item gets
// DefaultSpanDays of duration starting at the rounded drop date.
func ScheduleDrop(item domain.Item, rowID string, dropX float64, v Viewport) (domain.ItemPatch, error) {
	if !item.IsBacklog() {
		return domain.ItemPatch{}, ErrAlreadyScheduled
	}
	start := v.DateAtX(dropX)
	end := start.AddDate(0, 0, DefaultSpanDays)
	return domain.ItemPatch{
		RowID:     domain.StrPtr(rowID),
		StartDate: &start,
		EndDate:   &end,
	}, nil
}

// Unschedule is the patch that returns an item to the backlog.
func Unschedule() domain.ItemPatch {
	return domain.ItemPatch{ClearSchedule: true}
}
