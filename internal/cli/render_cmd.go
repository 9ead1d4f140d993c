package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/render"
	"github.com/alexanderramin/spanplan/internal/timeline"
	"github.com/spf13/cobra"
)

func newRenderCmd(app *App) *cobra.Command {
	var output, from, stylePath string
	var units int
	var zoom float64

	cmd := &cobra.Command{
		Use:   "render <timeline>",
		Short: "Draw a timeline as an SVG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTimelineID(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := app.Timelines.Get(ctx, id)
			if err != nil {
				return err
			}

			mode, err := app.config().ViewMode()
			if err != nil {
				return err
			}
			base := domain.Midnight(app.now())
			if from != "" {
				if base, err = domain.ParseDate(from); err != nil {
					return err
				}
			}
			style := render.DefaultStyle()
			if stylePath != "" {
				if style, err = render.LoadStyle(stylePath); err != nil {
					return err
				}
			}
			z := timeline.NewZoom()
			z.Set(zoom)

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer file.Close()
				w = file
			}
			return render.SVG(w, *t, timeline.NewViewport(base, mode, z), units, style)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&from, "from", "", "Base date (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&units, "units", 0, "Number of view units to draw (default the full header span)")
	cmd.Flags().Float64Var(&zoom, "zoom", 1, "Zoom factor between 0.2 and 5")
	cmd.Flags().StringVar(&stylePath, "style", "", "YAML style file")

	return cmd
}
