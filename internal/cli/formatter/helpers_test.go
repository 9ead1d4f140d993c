package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 months future", now.Add(90 * 24 * time.Hour), "In 3mo"},
		{"3 months past", now.Add(-90 * 24 * time.Hour), "3mo ago"},
		{"10 weeks past", now.Add(-70 * 24 * time.Hour), "2mo ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestDateSpan(t *testing.T) {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)
	it := domain.Item{StartDate: &start, EndDate: &end}
	assert.Equal(t, "Jun 3 → Jun 10, 2024 (7d)", DateSpan(it))

	end = time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Jun 3, 2024 → Jan 2, 2025 (213d)", DateSpan(it))

	assert.Equal(t, "unscheduled", DateSpan(domain.Item{}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Launch", Truncate("Launch", 10))
	assert.Equal(t, "Lau…", Truncate("Launch", 4))
	assert.Equal(t, "", Truncate("Launch", 0))
	assert.Equal(t, "日本…", Truncate("日本語のタイトル", 5), "wide runes count as two cells")
	assert.Equal(t, "日…", Truncate("日本語", 4))
}

func TestTruncID(t *testing.T) {
	got := TruncID("V1StGXR8_Z5jdHi6B-myT")
	assert.Contains(t, got, "V1StGXR8")
	assert.NotContains(t, got, "_Z5j")

	assert.Contains(t, TruncID("short"), "short")
}

func TestRenderBox(t *testing.T) {
	result := RenderBox("TEST", "content here")
	assert.Contains(t, result, "TEST")
	assert.Contains(t, result, "content here")
	assert.Contains(t, result, "╭")
	assert.Contains(t, result, "╰")

	result = RenderBox("", "just content")
	assert.Contains(t, result, "just content")
}
