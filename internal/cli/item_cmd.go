package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/service"
	"github.com/alexanderramin/spanplan/internal/timeline"
	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage the items of a timeline",
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemBacklogCmd(app),
		newItemUpdateCmd(app),
		newItemRemoveCmd(app),
		newItemScheduleCmd(app),
		newItemUnscheduleCmd(app),
	)

	return cmd
}

// itemFields are the editable item attributes shared by add and update.
type itemFields struct {
	title, subtitle, color, start, end, row string
}

func (f *itemFields) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Item title")
	cmd.Flags().StringVar(&f.subtitle, "subtitle", "", "Item subtitle")
	cmd.Flags().StringVar(&f.color, "color", "", "Item color (hex, e.g. #3b82f6)")
	cmd.Flags().StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.row, "row", "", "Row ID or name")
}

// patch builds an ItemPatch from the flags the user actually set.
func (f *itemFields) patch(cmd *cobra.Command, t domain.Timeline) (domain.ItemPatch, error) {
	var p domain.ItemPatch
	changed := cmd.Flags().Changed
	if changed("title") {
		p.Title = &f.title
	}
	if changed("subtitle") {
		p.Subtitle = &f.subtitle
	}
	if changed("color") {
		p.Color = &f.color
	}
	if changed("row") {
		row, err := resolveRow(t, f.row)
		if err != nil {
			return p, err
		}
		p.RowID = &row.ID
	}
	if changed("start") {
		d, err := domain.ParseDate(f.start)
		if err != nil {
			return p, err
		}
		p.StartDate = &d
	}
	if changed("end") {
		d, err := domain.ParseDate(f.end)
		if err != nil {
			return p, err
		}
		p.EndDate = &d
	}
	return p, nil
}

func newItemAddCmd(app *App) *cobra.Command {
	var f itemFields

	cmd := &cobra.Command{
		Use:   "add <timeline>",
		Short: "Add a scheduled item (lasts 7 days unless --end is given)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(context.Background(), app, args[0], func(ed *service.Editor) error {
				snap := ed.Snapshot()
				row, err := resolveRow(snap, f.row)
				if err != nil {
					return err
				}
				start, err := domain.ParseDate(f.start)
				if err != nil {
					return err
				}
				patch, err := f.patch(cmd, snap)
				if err != nil {
					return err
				}
				patch.RowID, patch.StartDate = nil, nil

				item, err := ed.AddScheduledItem(row.ID, start)
				if err != nil {
					return err
				}
				if !patch.IsZero() {
					if err := ed.UpdateItem(item.ID, patch); err != nil {
						_ = ed.DeleteItem(item.ID)
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added item %s to %q\n", item.ID, row.Name)
				return nil
			})
		},
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("row")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newItemBacklogCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "backlog <timeline> <title>",
		Short: "Add an unscheduled item to the backlog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(context.Background(), app, args[0], func(ed *service.Editor) error {
				item, ok := ed.AddBacklogItem(args[1])
				if !ok {
					return fmt.Errorf("backlog item title cannot be blank")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %q to the backlog (%s)\n", item.Title, item.ID)
				return nil
			})
		},
	}
}

func newItemUpdateCmd(app *App) *cobra.Command {
	var f itemFields

	cmd := &cobra.Command{
		Use:   "update <timeline> <item>",
		Short: "Change an item's title, subtitle, color, row or dates",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(context.Background(), app, args[0], func(ed *service.Editor) error {
				snap := ed.Snapshot()
				item, err := resolveItem(snap, args[1])
				if err != nil {
					return err
				}
				patch, err := f.patch(cmd, snap)
				if err != nil {
					return err
				}
				if patch.IsZero() {
					return fmt.Errorf("nothing to update; pass at least one flag")
				}
				if err := ed.UpdateItem(item.ID, patch); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated item %s\n", item.ID)
				return nil
			})
		},
	}

	f.register(cmd)

	return cmd
}

func newItemRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <timeline> <item>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(context.Background(), app, args[0], func(ed *service.Editor) error {
				item, err := resolveItem(ed.Snapshot(), args[1])
				if err != nil {
					return err
				}
				if err := ed.DeleteItem(item.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %q\n", item.Title)
				return nil
			})
		},
	}
}

func newItemScheduleCmd(app *App) *cobra.Command {
	var rowInput, start string

	cmd := &cobra.Command{
		Use:   "schedule <timeline> <item>",
		Short: "Move a backlog item onto a row for 7 days from --start",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(context.Background(), app, args[0], func(ed *service.Editor) error {
				snap := ed.Snapshot()
				item, err := resolveItem(snap, args[1])
				if err != nil {
					return err
				}
				row, err := resolveRow(snap, rowInput)
				if err != nil {
					return err
				}
				date, err := domain.ParseDate(start)
				if err != nil {
					return err
				}
				// Drop at the date's own position in a day view based on it.
				v := timeline.NewViewport(date, domain.ViewDay, timeline.NewZoom())
				if err := ed.ScheduleFromBacklog(item.ID, row.ID, v.X(date), v); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Scheduled %q in %q from %s\n", item.Title, row.Name, start)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&rowInput, "row", "", "Row ID or name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("row")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newItemUnscheduleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unschedule <timeline> <item>",
		Short: "Move an item back to the backlog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(context.Background(), app, args[0], func(ed *service.Editor) error {
				item, err := resolveItem(ed.Snapshot(), args[1])
				if err != nil {
					return err
				}
				if err := ed.MoveToBacklog(item.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Moved %q to the backlog\n", item.Title)
				return nil
			})
		},
	}
}
