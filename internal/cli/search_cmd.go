package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/spanplan/internal/cli/formatter"
	"github.com/alexanderramin/spanplan/internal/timeline"
	"github.com/spf13/cobra"
)

func newSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <timeline> <query...>",
		Short: "Find items whose title or subtitle contains the query",
		Args:  cobra.MinimumNArgs(2),
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

			results := timeline.Filter(t.Items, strings.Join(args[1:], " "))
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No items match.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatItems(results, *t))
			return nil
		},
	}
}
