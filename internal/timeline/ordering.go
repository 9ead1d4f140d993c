package timeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/spanplan/internal/domain"
)

// SortRows returns rows ordered by Order ascending. Rows with equal Order
// keep their stored order.
func SortRows(rows []domain.Row) []domain.Row {
	out := append([]domain.Row(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// RowIDs returns the ids of sorted rows, in display order.
func RowIDs(sorted []domain.Row) []string {
	ids := make([]string, len(sorted))
	for i, r := range sorted {
		ids[i] = r.ID
	}
	return ids
}

// RowIndex is the display index of rowID within sorted, or -1 when the
// id is nil or refers to a row that no longer exists.
func RowIndex(sorted []domain.Row, rowID *string) int {
	if rowID == nil {
		return -1
	}
	for i, r := range sorted {
		if r.ID == *rowID {
			return i
		}
	}
	return -1
}

// NewRow builds the row appended by "add row": it goes last and is named
// after the resulting row count.
func NewRow(rows []domain.Row) domain.Row {
	return domain.Row{
		ID:    domain.NewID(),
		Name:  fmt.Sprintf("Row %d", len(rows)+1),
		Order: len(rows),
	}
}

// RemoveRow drops the row and every item placed in it. Both collections
// must be written together.
func RemoveRow(rows []domain.Row, items []domain.Item, rowID string) ([]domain.Row, []domain.Item) {
	keptRows := make([]domain.Row, 0, len(rows))
	for _, r := range rows {
		if r.ID != rowID {
			keptRows = append(keptRows, r)
		}
	}
	keptItems := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if !it.InRow(rowID) {
			keptItems = append(keptItems, it)
		}
	}
	return keptRows, keptItems
}

// RenameRow trims name and applies it. A blank name leaves the row as it
// was and reports false.
func RenameRow(rows []domain.Row, rowID, name string) ([]domain.Row, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return rows, false
	}
	out := append([]domain.Row(nil), rows...)
	for i := range out {
		if out[i].ID == rowID {
			out[i].Name = name
			return out, true
		}
	}
	return rows, false
}

// ItemsInRow returns the items placed in rowID, in stored order.
func ItemsInRow(items []domain.Item, rowID string) []domain.Item {
	var out []domain.Item
	for _, it := range items {
		if it.InRow(rowID) {
			out = append(out, it)
		}
	}
	return out
}

// Backlog returns the unscheduled items, in stored order.
func Backlog(items []domain.Item) []domain.Item {
	var out []domain.Item
	for _, it := range items {
		if it.IsBacklog() {
			out = append(out, it)
		}
	}
	return out
}

// Orphans returns scheduled items whose row no longer exists.
func Orphans(t domain.Timeline) []domain.Item {
	known := make(map[string]bool, len(t.Rows))
	for _, r := range t.Rows {
		known[r.ID] = true
	}
	var out []domain.Item
	for _, it := range t.Items {
		if it.RowID != nil && !known[*it.RowID] {
			out = append(out, it)
		}
	}
	return out
}

// ReplaceItem returns items with the entry sharing item's id swapped out.
func ReplaceItem(items []domain.Item, item domain.Item) ([]domain.Item, bool) {
	out := make([]domain.Item, len(items))
	found := false
	for i, it := range items {
		if it.ID == item.ID {
			out[i] = item
			found = true
			continue
		}
		out[i] = it
	}
	return out, found
}

// RemoveItem returns items without the entry id.
func RemoveItem(items []domain.Item, id string) ([]domain.Item, bool) {
	out := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out, len(out) != len(items)
}
