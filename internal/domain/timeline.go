package domain

import (
	"errors"
	"fmt"
	"time"
)

// UntitledTitle replaces empty item titles on save.
const UntitledTitle = "Untitled"

var (
	ErrDateInversion   = errors.New("start date is after end date")
	ErrPartialSchedule = errors.New("row, start date and end date must be set or cleared together")
)

// Timeline is the persisted aggregate: it owns its rows and items.
type Timeline struct {
	ID        string
	OwnerID   *string
	CreatedAt time.Time
	Revision  int64
	Rows      []Row
	Items     []Item
}

// Row is a horizontal lane. Order values are neither unique nor contiguous.
type Row struct {
	ID    string
	Name  string
	Order int
}

// Item is a span of time placed in a row, or a backlog entry when it has no
// schedule. RowID, StartDate and EndDate are nil together for backlog items.
type Item struct {
	ID        string
	RowID     *string
	Title     string
	Subtitle  string
	Color     string
	StartDate *time.Time
	EndDate   *time.Time
}

// IsBacklog reports whether the item is unscheduled.
func (i Item) IsBacklog() bool {
	return i.StartDate == nil && i.EndDate == nil && i.RowID == nil
}

// InRow reports whether the item is placed in the given row.
func (i Item) InRow(rowID string) bool {
	return i.RowID != nil && *i.RowID == rowID
}

// Validate checks the schedule invariants of a single item.
func (i Item) Validate() error {
	if (i.StartDate == nil) != (i.EndDate == nil) || (i.RowID == nil) != (i.StartDate == nil) {
		return fmt.Errorf("item %s: %w", i.ID, ErrPartialSchedule)
	}
	if i.StartDate != nil && i.StartDate.After(*i.EndDate) {
		return fmt.Errorf("item %s: %w", i.ID, ErrDateInversion)
	}
	return nil
}

// Clone returns a deep copy so callers can mutate without touching shared
// snapshots.
func (i Item) Clone() Item {
	c := i
	if i.RowID != nil {
		r := *i.RowID
		c.RowID = &r
	}
	if i.StartDate != nil {
		s := *i.StartDate
		c.StartDate = &s
	}
	if i.EndDate != nil {
		e := *i.EndDate
		c.EndDate = &e
	}
	return c
}

// Clone returns a deep copy of the timeline.
func (t Timeline) Clone() Timeline {
	c := t
	if t.OwnerID != nil {
		o := *t.OwnerID
		c.OwnerID = &o
	}
	c.Rows = append([]Row(nil), t.Rows...)
	c.Items = make([]Item, len(t.Items))
	for i, it := range t.Items {
		c.Items[i] = it.Clone()
	}
	return c
}

// FindItem returns the item with the given id.
func (t Timeline) FindItem(id string) (Item, bool) {
	for _, it := range t.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// FindRow returns the row with the given id.
func (t Timeline) FindRow(id string) (Row, bool) {
	for _, r := range t.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return Row{}, false
}

// Validate checks every item of the timeline.
func (t Timeline) Validate() error {
	for _, it := range t.Items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DefaultRows returns the row set a new timeline is seeded with.
func DefaultRows() []Row {
	rows := make([]Row, 4)
	for i := range rows {
		rows[i] = Row{ID: NewID(), Name: fmt.Sprintf("Row %d", i+1), Order: i}
	}
	return rows
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string {
	return &s
}
