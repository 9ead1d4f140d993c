package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/spanplan/internal/config"
	"github.com/alexanderramin/spanplan/internal/domain"
	"github.com/alexanderramin/spanplan/internal/service"
	"github.com/alexanderramin/spanplan/internal/store"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds references to the services and settings used by CLI commands.
type App struct {
	Timelines service.TimelineService
	Store     store.Catalog
	Config    *config.Config
	Logger    *slog.Logger
	Observer  service.UseCaseObserver

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool
	// CopyToClipboard defaults to the system clipboard.
	CopyToClipboard func(string) error
	// Now defaults to time.Now.
	Now func() time.Time
	// Watch starts following external writes to the database until ctx is
	// done. Nil when the store is not file backed.
	Watch func(ctx context.Context)
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) copy(text string) error {
	if a.CopyToClipboard != nil {
		return a.CopyToClipboard(text)
	}
	return clipboard.WriteAll(text)
}

// watch runs the database watcher for long-lived commands when enabled.
func (a *App) watch(ctx context.Context) {
	if a.Watch != nil && a.config().Watch {
		go a.Watch(ctx)
	}
}

func (a *App) observer() service.UseCaseObserver {
	if a.Observer != nil {
		return a.Observer
	}
	return service.NoopUseCaseObserver{}
}

func (a *App) config() *config.Config {
	if a.Config == nil {
		a.Config = config.DefaultConfig()
	}
	return a.Config
}

// NewRootCmd creates the top-level "spanplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "spanplan",
		Short:         "Roadmap planner: rows of dated items on a zoomable timeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return applyOverrides(cmd.Flags(), app.config())
		},
	}
	root.PersistentFlags().String("view", "", "View mode: day, week or month")
	root.PersistentFlags().String("commit", "", "Drag commit mode: live or release")

	root.AddCommand(
		newNewCmd(app),
		newListCmd(app),
		newShowCmd(app),
		newDeleteCmd(app),
		newRowCmd(app),
		newItemCmd(app),
		newSearchCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newRenderCmd(app),
		newOpenCmd(app),
		newServeCmd(app),
	)

	return root
}

// applyOverrides lets --view and --commit win over the loaded config.
func applyOverrides(flags *pflag.FlagSet, cfg *config.Config) error {
	if v, _ := flags.GetString("view"); v != "" {
		if _, err := domain.ParseViewMode(v); err != nil {
			return err
		}
		cfg.View = v
	}
	if c, _ := flags.GetString("commit"); c != "" {
		if _, err := domain.ParseCommitMode(c); err != nil {
			return err
		}
		cfg.CommitMode = c
	}
	return nil
}
