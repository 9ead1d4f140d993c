package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/spanplan/internal/domain"
)

// resolveTimelineID accepts a full id or a unique id prefix.
func resolveTimelineID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("timeline ID is required")
	}

	timelines, err := app.Timelines.List(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, t := range timelines {
		if t.ID == input {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, input) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("timeline not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("timeline ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveRow matches a row by id, id prefix or case-insensitive name.
func resolveRow(t domain.Timeline, input string) (domain.Row, error) {
	var matches []domain.Row
	for _, r := range t.Rows {
		if r.ID == input {
			return r, nil
		}
		if strings.HasPrefix(r.ID, input) || strings.EqualFold(r.Name, input) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return domain.Row{}, fmt.Errorf("row not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return domain.Row{}, fmt.Errorf("row %q is ambiguous (%d matches)", input, len(matches))
	}
}

// resolveItem matches an item by id or id prefix, then by exact
// case-insensitive title.
func resolveItem(t domain.Timeline, input string) (domain.Item, error) {
	var byID, byTitle []domain.Item
	for _, it := range t.Items {
		if it.ID == input {
			return it, nil
		}
		if strings.HasPrefix(it.ID, input) {
			byID = append(byID, it)
		}
		if strings.EqualFold(it.Title, input) {
			byTitle = append(byTitle, it)
		}
	}
	matches := byID
	if len(matches) == 0 {
		matches = byTitle
	}
	switch len(matches) {
	case 0:
		return domain.Item{}, fmt.Errorf("item not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return domain.Item{}, fmt.Errorf("item %q is ambiguous (%d matches)", input, len(matches))
	}
}
