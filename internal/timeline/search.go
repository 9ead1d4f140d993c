package timeline

import (
	"strings"

	"github.com/alexanderramin/spanplan/internal/domain"
)

// Filter returns the items whose title or subtitle contains query,
// case-insensitively, in stored order. An empty query matches everything.
func Filter(items []domain.Item, query string) []domain.Item {
	q := strings.ToLower(query)
	out := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Title), q) || strings.Contains(strings.ToLower(it.Subtitle), q) {
			out = append(out, it)
		}
	}
	return out
}

// CommandPalette is the keyboard-driven item picker. It searches scheduled
// and backlog items alike.
type CommandPalette struct {
	open     bool
	query    string
	selected int
	items    []domain.Item
	results  []domain.Item
}

// Open shows the palette over items with an empty query.
func (p *CommandPalette) Open(items []domain.Item) {
	p.open = true
	p.items = items
	p.query = ""
	p.selected = 0
	p.results = Filter(items, "")
}

// Close hides the palette without committing.
func (p *CommandPalette) Close() {
	p.open = false
}

func (p *CommandPalette) IsOpen() bool { return p.open }

func (p *CommandPalette) Query() string { return p.query }

func (p *CommandPalette) Selected() int { return p.selected }

func (p *CommandPalette) Results() []domain.Item { return p.results }

// SetItems refreshes the searched items, for example after a new snapshot,
// keeping the query. The selection is clamped to the new results.
func (p *CommandPalette) SetItems(items []domain.Item) {
	p.items = items
	p.results = Filter(items, p.query)
	p.selected = min(p.selected, max(len(p.results)-1, 0))
}

// SetQuery updates the query and resets the selection.
func (p *CommandPalette) SetQuery(q string) {
	if q == p.query {
		return
	}
	p.query = q
	p.selected = 0
	p.results = Filter(p.items, q)
}

func (p *CommandPalette) Down() {
	if p.selected < len(p.results)-1 {
		p.selected++
	}
}

func (p *CommandPalette) Up() {
	if p.selected > 0 {
		p.selected--
	}
}

// Enter commits the selected result and closes the palette. With no
// results it does nothing.
func (p *CommandPalette) Enter() (domain.Item, bool) {
	if !p.open || p.selected >= len(p.results) {
		return domain.Item{}, false
	}
	it := p.results[p.selected]
	p.open = false
	return it, true
}

// Escape closes the palette without committing.
func (p *CommandPalette) Escape() {
	p.Close()
}
