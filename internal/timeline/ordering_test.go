package timeline

import (
	"testing"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortRows_StableOnTies(t *testing.T) {
	rows := []domain.Row{
		{ID: "c", Order: 2},
		{ID: "a1", Order: 0},
		{ID: "b", Order: 1},
		{ID: "a2", Order: 0},
	}
	sorted := SortRows(rows)
	assert.Equal(t, []string{"a1", "a2", "b", "c"}, RowIDs(sorted))
	assert.Equal(t, "c", rows[0].ID, "input is not reordered")
}

func TestRowIndex(t *testing.T) {
	sorted := SortRows([]domain.Row{{ID: "x", Order: 1}, {ID: "y", Order: 0}})
	assert.Equal(t, 1, RowIndex(sorted, domain.StrPtr("x")))
	assert.Equal(t, -1, RowIndex(sorted, domain.StrPtr("gone")))
	assert.Equal(t, -1, RowIndex(sorted, nil))
}

func TestNewRow(t *testing.T) {
	rows := domain.DefaultRows()
	r := NewRow(rows)
	assert.Equal(t, 4, r.Order)
	assert.Equal(t, "Row 5", r.Name)
	assert.Len(t, r.ID, domain.IDLength)

	// After a deletion the count drives both fields, even if it repeats.
	r = NewRow(rows[:3])
	assert.Equal(t, 3, r.Order)
	assert.Equal(t, "Row 4", r.Name)
}

func TestRemoveRow_Cascades(t *testing.T) {
	rows := []domain.Row{{ID: "r1"}, {ID: "r2"}}
	items := []domain.Item{
		item("a", "r1", "2024-06-01", "2024-06-02"),
		item("b", "r2", "2024-06-01", "2024-06-02"),
		item("c", "", "", ""),
		item("d", "r1", "2024-06-05", "2024-06-09"),
	}
	keptRows, keptItems := RemoveRow(rows, items, "r1")
	assert.Equal(t, []string{"r2"}, RowIDs(keptRows))
	require.Len(t, keptItems, 2)
	assert.Equal(t, "b", keptItems[0].ID)
	assert.Equal(t, "c", keptItems[1].ID)
	assert.Len(t, items, 4)
}

func TestRenameRow(t *testing.T) {
	rows := []domain.Row{{ID: "r1", Name: "Design"}}
	out, ok := RenameRow(rows, "r1", "   ")
	assert.False(t, ok)
	assert.Equal(t, "Design", out[0].Name)

	out, ok = RenameRow(rows, "r1", "  Build ")
	require.True(t, ok)
	assert.Equal(t, "Build", out[0].Name)
	assert.Equal(t, "Design", rows[0].Name)

	_, ok = RenameRow(rows, "missing", "x")
	assert.False(t, ok)
}

func TestOrphansAndBacklog(t *testing.T) {
	tl := domain.Timeline{
		Rows: []domain.Row{{ID: "r1"}},
		Items: []domain.Item{
			item("a", "r1", "2024-06-01", "2024-06-02"),
			item("b", "gone", "2024-06-01", "2024-06-02"),
			item("c", "", "", ""),
		},
	}
	orphans := Orphans(tl)
	require.Len(t, orphans, 1)
	assert.Equal(t, "b", orphans[0].ID)

	backlog := Backlog(tl.Items)
	require.Len(t, backlog, 1)
	assert.Equal(t, "c", backlog[0].ID)

	assert.Len(t, ItemsInRow(tl.Items, "r1"), 1)
}

func TestReplaceAndRemoveItem(t *testing.T) {
	items := []domain.Item{item("a", "", "", ""), item("b", "", "", "")}
	renamed := items[1]
	renamed.Title = "renamed"
	out, ok := ReplaceItem(items, renamed)
	require.True(t, ok)
	assert.Equal(t, "renamed", out[1].Title)
	assert.Equal(t, "b", items[1].Title)

	_, ok = ReplaceItem(items, domain.Item{ID: "zzz"})
	assert.False(t, ok)

	out, ok = RemoveItem(items, "a")
	require.True(t, ok)
	assert.Len(t, out, 1)
	_, ok = RemoveItem(items, "zzz")
	assert.False(t, ok)
}
