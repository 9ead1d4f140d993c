package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/spanplan/internal/exchange"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "export <timeline>",
		Short: "Write a timeline as JSON or YAML",
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

			f, err := pickFormat(format, output)
			if err != nil {
				return err
			}
			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}
				defer file.Close()
				w = file
			}
			return exchange.Encode(w, *t, f)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default from the file extension, else json)")

	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var format string
	var fresh bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create a timeline from an exported JSON or YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := pickFormat(format, args[0])
			if err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			t, err := exchange.Decode(file, f)
			if err != nil {
				return err
			}
			if fresh {
				exchange.Reassign(t)
			}
			if err := app.Timelines.Import(context.Background(), t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported timeline %s (%d rows, %d items)\n", t.ID, len(t.Rows), len(t.Items))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "json or yaml (default from the file extension)")
	cmd.Flags().BoolVar(&fresh, "new-id", false, "Give the timeline, rows and items new IDs")

	return cmd
}

func pickFormat(flag, path string) (exchange.Format, error) {
	if flag != "" {
		return exchange.ParseFormat(flag)
	}
	return exchange.FormatForPath(path), nil
}
