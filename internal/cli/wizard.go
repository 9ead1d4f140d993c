package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/spanplan/internal/cli/formatter"
	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/timeline"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// spanplanHuhTheme returns a custom huh theme using the Gruvbox palette.
func spanplanHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func newForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithTheme(spanplanHuhTheme()).WithShowHelp(false)
}

// rowOptions lists rows in display order.
func rowOptions(rows []domain.Row) []huh.Option[string] {
	sorted := timeline.SortRows(rows)
	options := make([]huh.Option[string], 0, len(sorted))
	for _, r := range sorted {
		options = append(options, huh.NewOption(r.Name, r.ID))
	}
	return options
}

func errStatus(err error) tea.Cmd {
	return setStatus(formatter.StyleRed.Render(err.Error()))
}

// newBacklogItemForm asks for a title and adds the item to the backlog.
func newBacklogItemForm(state *SharedState) wizard {
	title := new(string)
	form := newForm(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Placeholder("What needs scheduling?").
			Value(title),
	))
	return wizard{form: form, done: func() tea.Cmd {
		it, ok := state.Editor.AddBacklogItem(*title)
		if !ok {
			return setStatus(formatter.Dim("Nothing added: the title was blank."))
		}
		return setStatus("Added " + it.Title + " to the backlog")
	}}
}

// renameRowForm picks a row and asks for its new name.
func renameRowForm(state *SharedState) wizard {
	rows := state.Editor.Snapshot().Rows
	if len(rows) == 0 {
		return wizard{done: func() tea.Cmd { return setStatus(formatter.Dim("No rows to rename.")) }}
	}
	rowID := new(string)
	name := new(string)
	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which row?").
				Options(rowOptions(rows)...).
				Value(rowID),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("New name").
				Value(name).
				Validate(requireText),
		),
	)
	return wizard{form: form, done: renameDone(state, rowID, name)}
}

// renameRowFormFor renames a row picked on the grid.
func renameRowFormFor(state *SharedState, row domain.Row) wizard {
	rowID := &row.ID
	name := &row.Name
	form := newForm(huh.NewGroup(
		huh.NewInput().
			Title(fmt.Sprintf("Rename %q", row.Name)).
			Value(name).
			Validate(requireText),
	))
	return wizard{form: form, done: renameDone(state, rowID, name)}
}

func renameDone(state *SharedState, rowID, name *string) func() tea.Cmd {
	return func() tea.Cmd {
		ok, err := state.Editor.UpdateRow(*rowID, *name)
		switch {
		case err != nil:
			return errStatus(err)
		case !ok:
			return setStatus(formatter.Dim("Row name unchanged."))
		}
		return setStatus("Renamed row to " + strings.TrimSpace(*name))
	}
}

// deleteRowForm picks a row and confirms deleting it with its items.
func deleteRowForm(state *SharedState) wizard {
	t := state.Editor.Snapshot()
	if len(t.Rows) == 0 {
		return wizard{done: func() tea.Cmd { return setStatus(formatter.Dim("No rows to delete.")) }}
	}
	rowID := new(string)
	confirm := new(bool)
	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which row?").
				Options(rowOptions(t.Rows)...).
				Value(rowID),
		),
		huh.NewGroup(
			huh.NewConfirm().
				TitleFunc(func() string {
					n := len(timeline.ItemsInRow(t.Items, *rowID))
					return fmt.Sprintf("Delete this row and its %d item(s)?", n)
				}, rowID).
				Affirmative("Delete").
				Negative("Keep").
				Value(confirm),
		),
	)
	return wizard{form: form, done: func() tea.Cmd {
		if !*confirm {
			return setStatus(formatter.Dim("Kept the row."))
		}
		if err := state.Editor.DeleteRow(*rowID); err != nil {
			return errStatus(err)
		}
		return setStatus("Deleted row")
	}}
}

func requireText(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("enter a name")
	}
	return nil
}
