package domain

import "time"

// ItemPatch is a partial item update. Nil fields are left unchanged.
// ClearSchedule moves the item to the backlog and wins over RowID and dates.
type ItemPatch struct {
	Title         *string
	Subtitle      *string
	Color         *string
	RowID         *string
	StartDate     *time.Time
	EndDate       *time.Time
	ClearSchedule bool
}

// IsZero reports whether the patch changes nothing.
func (p ItemPatch) IsZero() bool {
	return p.Title == nil && p.Subtitle == nil && p.Color == nil &&
		p.RowID == nil && p.StartDate == nil && p.EndDate == nil && !p.ClearSchedule
}

// Apply returns a copy of item with the patch merged in. The result must
// satisfy Item.Validate; the original item is never modified.
func (p ItemPatch) Apply(item Item) (Item, error) {
	out := item.Clone()
	if p.Title != nil {
		out.Title = CoalesceStr(*p.Title, UntitledTitle)
	}
	if p.Subtitle != nil {
		out.Subtitle = *p.Subtitle
	}
	if p.Color != nil {
		out.Color = *p.Color
	}
	if p.ClearSchedule {
		out.RowID, out.StartDate, out.EndDate = nil, nil, nil
	} else {
		if p.RowID != nil {
			out.RowID = StrPtr(*p.RowID)
		}
		if p.StartDate != nil {
			out.StartDate = DatePtr(*p.StartDate)
		}
		if p.EndDate != nil {
			out.EndDate = DatePtr(*p.EndDate)
		}
	}
	if err := out.Validate(); err != nil {
		return item, err
	}
	return out, nil
}

// TimelinePatch is a partial timeline update with whole-field overwrite
// semantics: a non-nil field replaces the stored collection entirely.
type TimelinePatch struct {
	Rows  *[]Row
	Items *[]Item
}

func (p TimelinePatch) IsZero() bool {
	return p.Rows == nil && p.Items == nil
}

// Merge overlays other on p; fields set in other win.
func (p TimelinePatch) Merge(other TimelinePatch) TimelinePatch {
	if other.Rows != nil {
		p.Rows = other.Rows
	}
	if other.Items != nil {
		p.Items = other.Items
	}
	return p
}

// ApplyTo returns t with the patch's fields overwritten.
func (p TimelinePatch) ApplyTo(t Timeline) Timeline {
	out := t.Clone()
	if p.Rows != nil {
		out.Rows = append([]Row(nil), (*p.Rows)...)
	}
	if p.Items != nil {
		out.Items = make([]Item, len(*p.Items))
		for i, it := range *p.Items {
			out.Items[i] = it.Clone()
		}
	}
	return out
}

// PatchRows builds a TimelinePatch that overwrites rows.
func PatchRows(rows []Row) TimelinePatch {
	return TimelinePatch{Rows: &rows}
}

// PatchItems builds a TimelinePatch that overwrites items.
func PatchItems(items []Item) TimelinePatch {
	return TimelinePatch{Items: &items}
}
