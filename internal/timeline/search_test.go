package timeline

import (
	"testing"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchItems() []domain.Item {
	return []domain.Item{
		{ID: "1", Title: "Design Review", Subtitle: "Q3"},
		{ID: "2", Title: "Launch", Subtitle: "marketing review"},
		{ID: "3", Title: "Hiring"},
	}
}

func ids(items []domain.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	items := searchItems()
	assert.Equal(t, []string{"1", "2"}, ids(Filter(items, "REVIEW")))
	assert.Equal(t, []string{"1", "2", "3"}, ids(Filter(items, "")))
	assert.Equal(t, []string{"1"}, ids(Filter(items, "q3")))
	assert.Empty(t, Filter(items, "nothing"))
}

func TestCommandPalette_Navigation(t *testing.T) {
	var p CommandPalette
	p.Open(searchItems())
	require.True(t, p.IsOpen())
	assert.Equal(t, 0, p.Selected())

	p.Down()
	p.Down()
	p.Down()
	assert.Equal(t, 2, p.Selected(), "down clamps at the last result")
	p.Up()
	p.Up()
	p.Up()
	assert.Equal(t, 0, p.Selected(), "up clamps at zero")

	p.Down()
	p.SetQuery("review")
	assert.Equal(t, 0, p.Selected(), "query change resets the selection")
	assert.Len(t, p.Results(), 2)

	p.Down()
	it, ok := p.Enter()
	require.True(t, ok)
	assert.Equal(t, "2", it.ID)
	assert.False(t, p.IsOpen())
}

func TestCommandPalette_OpenResets(t *testing.T) {
	var p CommandPalette
	p.Open(searchItems())
	p.SetQuery("hir")
	p.Escape()
	assert.False(t, p.IsOpen())

	p.Open(searchItems())
	assert.Equal(t, "", p.Query())
	assert.Equal(t, 0, p.Selected())
	assert.Len(t, p.Results(), 3)
}

func TestCommandPalette_EnterWithoutResults(t *testing.T) {
	var p CommandPalette
	p.Open(searchItems())
	p.SetQuery("zzz")
	_, ok := p.Enter()
	assert.False(t, ok)
	assert.True(t, p.IsOpen())
}

func TestCommandPalette_SetItemsClampsSelection(t *testing.T) {
	var p CommandPalette
	p.Open(searchItems())
	p.Down()
	p.Down()
	p.SetItems(searchItems()[:1])
	assert.Equal(t, 0, p.Selected())
}

func TestScheduleDrop(t *testing.T) {
	v := NewViewport(d(2024, 6, 5), domain.ViewWeek, NewZoom())
	patch, err := ScheduleDrop(domain.Item{ID: "b", Title: "Later"}, "r1", RowLabelWidth+130, v)
	require.NoError(t, err)
	assert.Equal(t, "r1", *patch.RowID)
	assert.Equal(t, d(2024, 6, 9), *patch.StartDate)
	assert.Equal(t, d(2024, 6, 16), *patch.EndDate)

	scheduledItem, err := patch.Apply(domain.Item{ID: "b", Title: "Later"})
	require.NoError(t, err)
	assert.False(t, scheduledItem.IsBacklog())

	_, err = ScheduleDrop(scheduledItem, "r1", 0, v)
	assert.ErrorIs(t, err, ErrAlreadyScheduled)

	back, err := Unschedule().Apply(scheduledItem)
	require.NoError(t, err)
	assert.True(t, back.IsBacklog())
}
