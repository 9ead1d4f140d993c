// Package exchange converts timelines to and from portable JSON and YAML
// documents.
package exchange

import (
	"fmt"
	"time"

	"github.com/alexanderramin/spanplan/internal/domain"
)

// DocumentVersion is written into every exported document.
const DocumentVersion = 1

// Document is the on-disk shape of a timeline. Dates are YYYY-MM-DD
// strings; backlog items carry no row and no dates.
type Document struct {
	Version   int       `json:"version" yaml:"version"`
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	OwnerID   *string   `json:"ownerId,omitempty" yaml:"ownerId,omitempty"`
	CreatedAt string    `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	Rows      []RowDoc  `json:"rows" yaml:"rows"`
	Items     []ItemDoc `json:"items" yaml:"items"`
}

type RowDoc struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Order int    `json:"order" yaml:"order"`
}

type ItemDoc struct {
	ID        string  `json:"id" yaml:"id"`
	RowID     *string `json:"rowId,omitempty" yaml:"rowId,omitempty"`
	Title     string  `json:"title" yaml:"title"`
	Subtitle  string  `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Color     string  `json:"color,omitempty" yaml:"color,omitempty"`
	StartDate *string `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty" yaml:"endDate,omitempty"`
}

// FromTimeline builds a document from t.
func FromTimeline(t domain.Timeline) Document {
	doc := Document{
		Version: DocumentVersion,
		ID:      t.ID,
		OwnerID: t.OwnerID,
		Rows:    make([]RowDoc, 0, len(t.Rows)),
		Items:   make([]ItemDoc, 0, len(t.Items)),
	}
	if !t.CreatedAt.IsZero() {
		doc.CreatedAt = t.CreatedAt.UTC().Format(time.RFC3339)
	}
	for _, r := range t.Rows {
		doc.Rows = append(doc.Rows, RowDoc{ID: r.ID, Name: r.Name, Order: r.Order})
	}
	for _, it := range t.Items {
		doc.Items = append(doc.Items, ItemDoc{
			ID:        it.ID,
			RowID:     it.RowID,
			Title:     it.Title,
			Subtitle:  it.Subtitle,
			Color:     it.Color,
			StartDate: formatDatePtr(it.StartDate),
			EndDate:   formatDatePtr(it.EndDate),
		})
	}
	return doc
}

// Timeline converts the document back, validating dates and the
// schedule invariants. Missing ids are generated and empty titles become
// Untitled.
func (d Document) Timeline() (*domain.Timeline, error) {
	if d.Version > DocumentVersion {
		return nil, fmt.Errorf("unsupported document version %d", d.Version)
	}
	t := &domain.Timeline{
		ID:      d.ID,
		OwnerID: d.OwnerID,
		Rows:    make([]domain.Row, 0, len(d.Rows)),
		Items:   make([]domain.Item, 0, len(d.Items)),
	}
	if d.CreatedAt != "" {
		created, err := time.Parse(time.RFC3339, d.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid createdAt %q: %w", d.CreatedAt, err)
		}
		t.CreatedAt = created.UTC()
	}
	for _, r := range d.Rows {
		t.Rows = append(t.Rows, r.Row())
	}
	for _, it := range d.Items {
		item, err := it.Item()
		if err != nil {
			return nil, err
		}
		t.Items = append(t.Items, item)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Row converts the document row, generating a missing id.
func (r RowDoc) Row() domain.Row {
	id := r.ID
	if id == "" {
		id = domain.NewID()
	}
	return domain.Row{ID: id, Name: r.Name, Order: r.Order}
}

// Item converts the document item. Schedule invariants are not checked
// here; see domain.Item.Validate.
func (d ItemDoc) Item() (domain.Item, error) {
	item := domain.Item{
		ID:       d.ID,
		RowID:    d.RowID,
		Title:    domain.CoalesceStr(d.Title, domain.UntitledTitle),
		Subtitle: d.Subtitle,
		Color:    domain.CoalesceStr(d.Color, domain.DefaultColors[0]),
	}
	if item.ID == "" {
		item.ID = domain.NewID()
	}
	var err error
	if item.StartDate, err = parseDatePtr(d.StartDate); err != nil {
		return domain.Item{}, fmt.Errorf("item %s: %w", item.ID, err)
	}
	if item.EndDate, err = parseDatePtr(d.EndDate); err != nil {
		return domain.Item{}, fmt.Errorf("item %s: %w", item.ID, err)
	}
	return item, nil
}

// PatchDoc replaces whole row or item sets; absent fields are untouched.
type PatchDoc struct {
	Rows  *[]RowDoc  `json:"rows,omitempty" yaml:"rows,omitempty"`
	Items *[]ItemDoc `json:"items,omitempty" yaml:"items,omitempty"`
}

// Patch converts the document to a validated timeline patch.
func (p PatchDoc) Patch() (domain.TimelinePatch, error) {
	var patch domain.TimelinePatch
	if p.Rows != nil {
		rows := make([]domain.Row, 0, len(*p.Rows))
		for _, r := range *p.Rows {
			rows = append(rows, r.Row())
		}
		patch.Rows = &rows
	}
	if p.Items != nil {
		items := make([]domain.Item, 0, len(*p.Items))
		for _, d := range *p.Items {
			item, err := d.Item()
			if err != nil {
				return domain.TimelinePatch{}, err
			}
			if err := item.Validate(); err != nil {
				return domain.TimelinePatch{}, err
			}
			items = append(items, item)
		}
		patch.Items = &items
	}
	return patch, nil
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := domain.FormatDate(*t)
	return &s
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Reassign gives the timeline, its rows and its items fresh ids so a
// document can be imported next to the timeline it was exported from.
// Items keep pointing at their (renamed) rows; references to rows missing
// from the document are left alone.
func Reassign(t *domain.Timeline) {
	t.ID = domain.NewID()
	renamed := make(map[string]string, len(t.Rows))
	for i := range t.Rows {
		id := domain.NewID()
		renamed[t.Rows[i].ID] = id
		t.Rows[i].ID = id
	}
	for i := range t.Items {
		t.Items[i].ID = domain.NewID()
		if t.Items[i].RowID == nil {
			continue
		}
		if id, ok := renamed[*t.Items[i].RowID]; ok {
			t.Items[i].RowID = domain.StrPtr(id)
		}
	}
}
