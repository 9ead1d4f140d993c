package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/spanplan/internal/cli/formatter"
	"github.com/alexanderramin/spanplan/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// detailInput holds the raw values of the item detail form.
type detailInput struct {
	Title    string
	Subtitle string
	Color    string
	Start    string
	End      string
	Delete   bool
}

func detailInputFrom(it domain.Item) detailInput {
	in := detailInput{Title: it.Title, Subtitle: it.Subtitle, Color: it.Color}
	if it.StartDate != nil {
		in.Start = domain.FormatDate(*it.StartDate)
	}
	if it.EndDate != nil {
		in.End = domain.FormatDate(*it.EndDate)
	}
	return in
}

// detailPatch turns edited form values into a patch. Date edits that
// would put the start after the end are dropped, and reported through
// the second return value; the other fields still apply. Backlog items
// have no dates to edit.
func detailPatch(orig domain.Item, in detailInput) (domain.ItemPatch, bool) {
	var patch domain.ItemPatch
	if in.Title != orig.Title {
		patch.Title = &in.Title
	}
	if in.Subtitle != orig.Subtitle {
		patch.Subtitle = &in.Subtitle
	}
	if in.Color != "" && in.Color != orig.Color {
		patch.Color = &in.Color
	}
	if orig.StartDate == nil || orig.EndDate == nil {
		return patch, false
	}

	start, startChanged := changedDate(in.Start, *orig.StartDate)
	end, endChanged := changedDate(in.End, *orig.EndDate)
	if !startChanged && !endChanged {
		return patch, false
	}
	if start.After(end) {
		return patch, true
	}
	if startChanged {
		patch.StartDate = &start
	}
	if endChanged {
		patch.EndDate = &end
	}
	return patch, false
}

// changedDate parses a form date, falling back to orig when the field is
// blank or unparseable.
func changedDate(s string, orig time.Time) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return orig, false
	}
	d, err := domain.ParseDate(s)
	if err != nil || d.Equal(orig) {
		return orig, false
	}
	return d, true
}

func validateDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := domain.ParseDate(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD")
	}
	return nil
}

func colorOptions(current string) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(domain.DefaultColors)+1)
	known := false
	for _, hex := range domain.DefaultColors {
		options = append(options, huh.NewOption(formatter.Swatch(hex)+" "+hex, hex))
		known = known || hex == current
	}
	if current != "" && !known {
		options = append(options, huh.NewOption(formatter.Swatch(current)+" "+current, current))
	}
	return options
}

// detailForm edits one item: title, subtitle, color and, for scheduled
// items, its dates. The last question deletes the item instead.
func detailForm(state *SharedState, it domain.Item) wizard {
	in := detailInputFrom(it)
	if in.Color == "" {
		in.Color = domain.DefaultColors[0]
	}
	values := &in

	fields := []huh.Field{
		huh.NewInput().Title("Title").Value(&values.Title),
		huh.NewInput().Title("Subtitle").Value(&values.Subtitle),
		huh.NewSelect[string]().Title("Color").Options(colorOptions(it.Color)...).Value(&values.Color),
	}
	if !it.IsBacklog() {
		fields = append(fields,
			huh.NewInput().Title("Start").Description("YYYY-MM-DD").Value(&values.Start).Validate(validateDate),
			huh.NewInput().Title("End").Description("YYYY-MM-DD").Value(&values.End).Validate(validateDate),
		)
	}
	fields = append(fields,
		huh.NewConfirm().Title("Delete this item?").Affirmative("Delete").Negative("Keep").Value(&values.Delete),
	)

	return wizard{form: newForm(huh.NewGroup(fields...)), done: func() tea.Cmd {
		return applyDetail(state, it, *values)
	}}
}

func applyDetail(state *SharedState, it domain.Item, in detailInput) tea.Cmd {
	if in.Delete {
		if err := state.Editor.DeleteItem(it.ID); err != nil {
			return errStatus(err)
		}
		return setStatus("Deleted " + it.Title)
	}
	patch, dropped := detailPatch(it, in)
	if patch.IsZero() {
		if dropped {
			return setStatus(formatter.StyleYellow.Render("Start must not be after end; dates unchanged."))
		}
		return nil
	}
	if err := state.Editor.UpdateItem(it.ID, patch); err != nil {
		return errStatus(err)
	}
	if dropped {
		return setStatus(formatter.StyleYellow.Render("Saved, but start must not be after end; dates unchanged."))
	}
	return setStatus("Saved " + domain.CoalesceStr(in.Title, domain.UntitledTitle))
}

func openDetail(state *SharedState, it domain.Item) tea.Cmd {
	return startWizardCmd(state, formatter.Truncate(it.Title, 24), detailForm(state, it))
}
