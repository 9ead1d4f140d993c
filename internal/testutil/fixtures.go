package testutil

import (
	"fmt"
	"time"

	"github.com/alexanderramin/spanplan/internal/domain"
)

// Timeline options
type TimelineOption func(*domain.Timeline)

func WithOwner(ownerID string) TimelineOption {
	return func(t *domain.Timeline) {
		t.OwnerID = &ownerID
	}
}

func WithRows(rows ...domain.Row) TimelineOption {
	return func(t *domain.Timeline) {
		t.Rows = rows
	}
}

func WithItems(items ...domain.Item) TimelineOption {
	return func(t *domain.Timeline) {
		t.Items = items
	}
}

// NewTestTimeline builds a timeline with the default four rows and no items.
func NewTestTimeline(opts ...TimelineOption) *domain.Timeline {
	t := &domain.Timeline{
		ID:        domain.NewID(),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		Rows:      domain.DefaultRows(),
		Items:     []domain.Item{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func NewTestRow(name string, order int) domain.Row {
	return domain.Row{ID: domain.NewID(), Name: name, Order: order}
}

// Item options
type ItemOption func(*domain.Item)

// WithDates schedules the item in rowID between two YYYY-MM-DD dates.
func WithDates(rowID, start, end string) ItemOption {
	return func(it *domain.Item) {
		s, err := domain.ParseDate(start)
		if err != nil {
			panic(fmt.Sprintf("fixture start date: %v", err))
		}
		e, err := domain.ParseDate(end)
		if err != nil {
			panic(fmt.Sprintf("fixture end date: %v", err))
		}
		it.RowID = &rowID
		it.StartDate = &s
		it.EndDate = &e
	}
}

// InBacklog clears the schedule.
func InBacklog() ItemOption {
	return func(it *domain.Item) {
		it.RowID, it.StartDate, it.EndDate = nil, nil, nil
	}
}

func WithSubtitle(s string) ItemOption {
	return func(it *domain.Item) {
		it.Subtitle = s
	}
}

func WithColor(c string) ItemOption {
	return func(it *domain.Item) {
		it.Color = c
	}
}

// NewTestItem builds a backlog item unless WithDates is given.
func NewTestItem(title string, opts ...ItemOption) domain.Item {
	it := domain.Item{
		ID:    domain.NewID(),
		Title: title,
		Color: domain.DefaultColors[0],
	}
	for _, opt := range opts {
		opt(&it)
	}
	return it
}
