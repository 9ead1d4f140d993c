package cli

import (
	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/service"
	"github.com/alexanderramin/spanplan/internal/timeline"
)

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App    *App
	Editor *service.Editor

	Mode   domain.ViewMode
	Commit domain.CommitMode
	Zoom   *timeline.Zoom

	// Terminal dimensions
	Width  int
	Height int

	// Status is a transient line shown in the status bar until the next key.
	Status string
}

func newSharedState(app *App, ed *service.Editor) *SharedState {
	mode, err := app.config().ViewMode()
	if err != nil {
		mode = domain.ViewWeek
	}
	commit, err := app.config().Commit()
	if err != nil {
		commit = domain.CommitLive
	}
	return &SharedState{
		App:    app,
		Editor: ed,
		Mode:   mode,
		Commit: commit,
		Zoom:   timeline.NewZoom(),
	}
}

// Viewport is the geometry of the current view, anchored at today.
func (s *SharedState) Viewport() timeline.Viewport {
	return timeline.NewViewport(s.App.now(), s.Mode, s.Zoom)
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 1 {
		return 1
	}
	return h
}
