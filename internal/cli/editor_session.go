package cli

import (
	"context"

	"github.com/alexanderramin/spanplan/internal/service"
)

// withEditor opens the timeline named by input, runs fn against it and
// waits for the resulting writes to land.
func withEditor(ctx context.Context, app *App, input string, fn func(ed *service.Editor) error) error {
	id, err := resolveTimelineID(ctx, app, input)
	if err != nil {
		return err
	}
	ed, err := service.OpenEditor(ctx, app.Store, id, service.WithEditorObserver(app.observer()))
	if err != nil {
		return err
	}
	defer ed.Close()

	if err := fn(ed); err != nil {
		return err
	}
	return ed.Flush(ctx)
}
