package cli

import (
	"testing"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduledItem() domain.Item {
	return testutil.NewTestItem("Launch",
		testutil.WithDates("row-1", "2024-06-04", "2024-06-11"),
		testutil.WithSubtitle("marketing"),
		testutil.WithColor(domain.DefaultColors[0]),
	)
}

func TestDetailPatch_Unchanged(t *testing.T) {
	it := scheduledItem()
	patch, dropped := detailPatch(it, detailInputFrom(it))
	assert.True(t, patch.IsZero())
	assert.False(t, dropped)
}

func TestDetailPatch_TextAndColor(t *testing.T) {
	it := scheduledItem()
	in := detailInputFrom(it)
	in.Title = "Launch v2"
	in.Color = domain.DefaultColors[3]

	patch, dropped := detailPatch(it, in)
	assert.False(t, dropped)
	require.NotNil(t, patch.Title)
	assert.Equal(t, "Launch v2", *patch.Title)
	require.NotNil(t, patch.Color)
	assert.Equal(t, domain.DefaultColors[3], *patch.Color)
	assert.Nil(t, patch.Subtitle)
	assert.Nil(t, patch.StartDate)
}

func TestDetailPatch_ClearedSubtitle(t *testing.T) {
	it := scheduledItem()
	in := detailInputFrom(it)
	in.Subtitle = ""

	patch, _ := detailPatch(it, in)
	require.NotNil(t, patch.Subtitle)
	assert.Empty(t, *patch.Subtitle)
}

func TestDetailPatch_Dates(t *testing.T) {
	it := scheduledItem()
	in := detailInputFrom(it)
	in.End = "2024-06-20"

	patch, dropped := detailPatch(it, in)
	assert.False(t, dropped)
	assert.Nil(t, patch.StartDate)
	require.NotNil(t, patch.EndDate)
	assert.Equal(t, "2024-06-20", domain.FormatDate(*patch.EndDate))
}

func TestDetailPatch_InvertedDatesAreDropped(t *testing.T) {
	it := scheduledItem()
	in := detailInputFrom(it)
	in.Title = "Renamed"
	in.Start = "2024-06-30"

	patch, dropped := detailPatch(it, in)
	assert.True(t, dropped)
	assert.Nil(t, patch.StartDate)
	assert.Nil(t, patch.EndDate)
	require.NotNil(t, patch.Title, "other edits still apply")
}

func TestDetailPatch_BlankOrInvalidDatesKeepOriginal(t *testing.T) {
	it := scheduledItem()
	in := detailInputFrom(it)
	in.Start = "  "
	in.End = "June 20th"

	patch, dropped := detailPatch(it, in)
	assert.False(t, dropped)
	assert.True(t, patch.IsZero())
}

func TestDetailPatch_BacklogIgnoresDates(t *testing.T) {
	it := testutil.NewTestItem("Later", testutil.InBacklog())
	in := detailInputFrom(it)
	assert.Empty(t, in.Start)
	in.Start = "2024-06-04"

	patch, dropped := detailPatch(it, in)
	assert.False(t, dropped)
	assert.True(t, patch.IsZero())
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, validateDate(""))
	assert.NoError(t, validateDate(" 2024-02-29 "))
	assert.Error(t, validateDate("2024-13-01"))
	assert.Error(t, validateDate("tomorrow"))
}

func TestColorOptions_KeepsCustomColor(t *testing.T) {
	assert.Len(t, colorOptions(domain.DefaultColors[1]), len(domain.DefaultColors))
	assert.Len(t, colorOptions("#123456"), len(domain.DefaultColors)+1)
}

func TestApplyDetail(t *testing.T) {
	app := testApp(t)
	tl := seedTimeline(t, app)
	d := NewTestDriver(t, app, tl.ID)
	it, ok := d.Item("Launch")
	require.True(t, ok)

	in := detailInputFrom(it)
	in.Title = "Launch day"
	in.Start = "2024-06-20"
	msg := runCmd(applyDetail(d.State(), it, in))
	assert.Contains(t, msg.(statusMsg).text, "start must not be after end")

	got := findByTitle(t, d.Stored(), "Launch day")
	start, _ := launchDates(t, got)
	assert.Equal(t, "2024-06-04", start)

	in = detailInputFrom(got)
	in.Delete = true
	msg = runCmd(applyDetail(d.State(), got, in))
	assert.Equal(t, "Deleted Launch day", msg.(statusMsg).text)
	assert.Len(t, d.Stored().Items, 1)
}

func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
