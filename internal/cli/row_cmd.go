package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/spanplan/internal/service"
	"github.com/spf13/cobra"
)

func newRowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "row",
		Short: "Manage the rows of a timeline",
	}

	cmd.AddCommand(
		newRowAddCmd(app),
		newRowRenameCmd(app),
		newRowRemoveCmd(app),
	)

	return cmd
}

func newRowAddCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <timeline>",
		Short: "Append a row at the end of the display order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(context.Background(), app, args[0], func(ed *service.Editor) error {
				row := ed.AddRow()
				if name != "" {
					if _, err := ed.UpdateRow(row.ID, name); err != nil {
						return err
					}
					row.Name = name
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added row %q (%s)\n", row.Name, row.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Row name (default \"Row N\")")

	return cmd
}

func newRowRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <timeline> <row> <name>",
		Short: "Rename a row",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(context.Background(), app, args[0], func(ed *service.Editor) error {
				row, err := resolveRow(ed.Snapshot(), args[1])
				if err != nil {
					return err
				}
				renamed, err := ed.UpdateRow(row.ID, args[2])
				if err != nil {
					return err
				}
				if !renamed {
					return fmt.Errorf("row name cannot be blank")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed row %q\n", row.Name)
				return nil
			})
		},
	}
}

func newRowRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <timeline> <row>",
		Short: "Delete a row and every item in it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(context.Background(), app, args[0], func(ed *service.Editor) error {
				row, err := resolveRow(ed.Snapshot(), args[1])
				if err != nil {
					return err
				}
				if err := ed.DeleteRow(row.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted row %q\n", row.Name)
				return nil
			})
		},
	}
}
