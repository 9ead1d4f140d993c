package formatter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/timeline"
)

// FormatTimelineList renders one line per timeline.
func FormatTimelineList(list []*domain.Timeline, now time.Time) string {
	headers := []string{"ID", "OWNER", "ROWS", "ITEMS", "BACKLOG", "CREATED"}
	rows := make([][]string, 0, len(list))
	for _, t := range list {
		rows = append(rows, []string{
			t.ID,
			domain.StrFromPtrWithDefault("-", t.OwnerID),
			strconv.Itoa(len(t.Rows)),
			strconv.Itoa(len(t.Items)),
			strconv.Itoa(len(timeline.Backlog(t.Items))),
			RelativeDateFrom(t.CreatedAt, now),
		})
	}
	return RenderTable(headers, rows)
}

// FormatTimeline renders rows in display order with their items sorted by
// start date, then the backlog and any orphaned items.
func FormatTimeline(t domain.Timeline, now time.Time) string {
	var b strings.Builder

	meta := []string{
		fmt.Sprintf("%s %s", Dim("id"), t.ID),
		fmt.Sprintf("%s %s", Dim("owner"), domain.StrFromPtrWithDefault("-", t.OwnerID)),
		fmt.Sprintf("%s %s", Dim("created"), RelativeDateFrom(t.CreatedAt, now)),
		fmt.Sprintf("%s %d", Dim("revision"), t.Revision),
	}
	b.WriteString(RenderBox("Timeline", strings.Join(meta, "\n")))
	b.WriteString("\n\n")

	for _, row := range timeline.SortRows(t.Rows) {
		b.WriteString(Bold(row.Name) + " " + TruncID(row.ID) + "\n")
		items := byStart(timeline.ItemsInRow(t.Items, row.ID))
		if len(items) == 0 {
			b.WriteString("  " + Dim("(empty)") + "\n")
		}
		for _, it := range items {
			b.WriteString("  " + formatItemLine(it) + "\n")
		}
		b.WriteString("\n")
	}

	backlog := timeline.Backlog(t.Items)
	b.WriteString(Header(fmt.Sprintf("Backlog (%d)", len(backlog))) + "\n")
	for _, it := range backlog {
		b.WriteString("  " + formatItemLine(it) + "\n")
	}

	if orphans := timeline.Orphans(t); len(orphans) > 0 {
		b.WriteString("\n" + StyleYellow.Render(fmt.Sprintf("%d item(s) reference deleted rows:", len(orphans))) + "\n")
		for _, it := range orphans {
			b.WriteString("  " + formatItemLine(it) + "\n")
		}
	}
	return b.String()
}

// FormatItems renders search results with the name of their row.
func FormatItems(items []domain.Item, t domain.Timeline) string {
	headers := []string{"", "TITLE", "SUBTITLE", "ROW", "DATES", "ID"}
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rowName := "backlog"
		if it.RowID != nil {
			rowName = "(deleted)"
			if r, ok := t.FindRow(*it.RowID); ok {
				rowName = r.Name
			}
		}
		rows = append(rows, []string{Swatch(it.Color), it.Title, it.Subtitle, rowName, DateSpan(it), it.ID})
	}
	return RenderTable(headers, rows)
}

func formatItemLine(it domain.Item) string {
	line := fmt.Sprintf("%s %s  %s", Swatch(it.Color), Truncate(it.Title, 40), Dim(DateSpan(it)))
	if it.Subtitle != "" {
		line += "  " + StyleFg.Render(Truncate(it.Subtitle, 30))
	}
	return line + "  " + TruncID(it.ID)
}

func byStart(items []domain.Item) []domain.Item {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartDate.Before(*items[j].StartDate)
	})
	return items
}
