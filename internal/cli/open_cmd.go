package cli

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newOpenCmd(app *App) *cobra.Command {
	var fresh bool

	cmd := &cobra.Command{
		Use:   "open [timeline]",
		Short: "Edit a timeline in the interactive grid",
		Long: "Open a timeline in the terminal grid. Without an argument the most\n" +
			"recently created timeline is opened, or a new one is created.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return fmt.Errorf("open needs an interactive terminal; use show, item and row instead")
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			id, err := pickTimeline(ctx, app, args, fresh)
			if err != nil {
				return err
			}
			app.watch(ctx)

			// Write errors arrive on the writer goroutine, possibly before
			// the program exists.
			var program atomic.Pointer[tea.Program]
			onError := func(err error) {
				if p := program.Load(); p != nil {
					p.Send(writeErrorMsg{err: err})
				}
			}
			ed, err := service.OpenEditor(ctx, app.Store, id,
				service.WithEditorObserver(app.observer()),
				service.WithWriteErrorHandler(onError),
			)
			if err != nil {
				return err
			}
			defer ed.Close()

			p := tea.NewProgram(newAppModel(app, ed), tea.WithAltScreen(), tea.WithMouseAllMotion())
			program.Store(p)
			if _, err := p.Run(); err != nil {
				return err
			}
			if err := ed.Flush(ctx); err != nil {
				return fmt.Errorf("saving timeline %s: %w", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved timeline %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&fresh, "new", false, "Create a new timeline instead of opening the latest")

	return cmd
}

// pickTimeline resolves the argument, or falls back to the newest timeline,
// creating one with a sample item when there is none.
func pickTimeline(ctx context.Context, app *App, args []string, fresh bool) (string, error) {
	if len(args) == 1 {
		return resolveTimelineID(ctx, app, args[0])
	}
	if !fresh {
		list, err := app.Timelines.List(ctx)
		if err != nil {
			return "", err
		}
		var newest *domain.Timeline
		for _, t := range list {
			if newest == nil || t.CreatedAt.After(newest.CreatedAt) {
				newest = t
			}
		}
		if newest != nil {
			return newest.ID, nil
		}
	}
	t, err := app.Timelines.Create(ctx, nil, true)
	if err != nil {
		return "", err
	}
	return t.ID, nil
}
