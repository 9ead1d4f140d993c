package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/spanplan/internal/cli/formatter"
	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/spf13/cobra"
)

func newNewCmd(app *App) *cobra.Command {
	var owner string
	var sample bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a timeline with the default rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var ownerID *string
			if owner != "" {
				ownerID = &owner
			}
			t, err := app.Timelines.Create(context.Background(), ownerID, sample)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created timeline %s\n", t.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner ID")
	cmd.Flags().BoolVar(&sample, "sample", true, "Add an example item to the first row")

	return cmd
}

func newListCmd(app *App) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List timelines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			var (
				list []*domain.Timeline
				err  error
			)
			if owner != "" {
				list, err = app.Timelines.ListByOwner(ctx, owner)
			} else {
				list, err = app.Timelines.List(ctx)
			}
			if err != nil {
				return err
			}

			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No timelines found.")
				return nil
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTimelineList(list, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Only timelines of this owner")

	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <timeline>",
		Short: "Show rows, items and the backlog of a timeline",
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
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTimeline(*t, app.now()))
			return nil
		},
	}
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <timeline>",
		Short: "Delete a timeline with its rows and items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTimelineID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Timelines.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted timeline %s\n", id)
			return nil
		},
	}
}
