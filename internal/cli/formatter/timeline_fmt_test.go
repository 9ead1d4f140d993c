package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/testutil"
	"github.com/stretchr/testify/assert"
)

// ansiPattern matches ANSI escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

var now = time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC)

func sampleTimeline() domain.Timeline {
	design := testutil.NewTestRow("Design", 0)
	build := testutil.NewTestRow("Build", 1)
	tl := testutil.NewTestTimeline(
		testutil.WithOwner("u1"),
		testutil.WithRows(build, design),
		testutil.WithItems(
			testutil.NewTestItem("Wireframes", testutil.WithDates(design.ID, "2024-06-10", "2024-06-12")),
			testutil.NewTestItem("Research", testutil.WithDates(design.ID, "2024-06-01", "2024-06-08"), testutil.WithSubtitle("interviews")),
			testutil.NewTestItem("Someday", testutil.InBacklog()),
			testutil.NewTestItem("Lost", testutil.WithDates("deleted-row", "2024-06-01", "2024-06-02")),
		),
	)
	tl.CreatedAt = now.AddDate(0, 0, -3)
	return *tl
}

func TestFormatTimeline(t *testing.T) {
	out := stripANSI(FormatTimeline(sampleTimeline(), now))

	assert.Contains(t, out, "owner u1")
	assert.Contains(t, out, "3d ago")
	assert.Less(t, strings.Index(out, "Design"), strings.Index(out, "Build"), "rows follow their order")
	assert.Less(t, strings.Index(out, "Research"), strings.Index(out, "Wireframes"), "items sorted by start")
	assert.Contains(t, out, "Jun 1 → Jun 8, 2024 (7d)")
	assert.Contains(t, out, "interviews")
	assert.Contains(t, out, "(empty)")
	assert.Contains(t, out, "BACKLOG (1)")
	assert.Contains(t, out, "Someday  unscheduled")
	assert.Contains(t, out, "1 item(s) reference deleted rows")
}

func TestFormatTimelineList(t *testing.T) {
	tl := sampleTimeline()
	anon := testutil.NewTestTimeline()
	anon.CreatedAt = now
	out := stripANSI(FormatTimelineList([]*domain.Timeline{&tl, anon}, now))

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4, "header, rule and two rows")
	assert.Contains(t, lines[0], "BACKLOG")
	assert.Contains(t, out, tl.ID)
	assert.Contains(t, out, "Today")
	assert.Regexp(t, anon.ID+`\s+-\s+4\s+0\s+0`, out)
}

func TestFormatItems(t *testing.T) {
	tl := sampleTimeline()
	out := stripANSI(FormatItems(tl.Items, tl))
	assert.Contains(t, out, "Design")
	assert.Contains(t, out, "backlog")
	assert.Contains(t, out, "(deleted)")
}
