package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alexanderramin/spanplan/internal/cli"
	"github.com/alexanderramin/spanplan/internal/config"
	"github.com/alexanderramin/spanplan/internal/db"
	"github.com/alexanderramin/spanplan/internal/service"
	"github.com/alexanderramin/spanplan/internal/store"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The TUI owns the terminal, so it only logs to a configured file.
	var fallback io.Writer = os.Stderr
	if opensTUI(os.Args[1:]) {
		fallback = nil
	}
	logger, closeLog, err := cfg.NewLogger(fallback)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer closeLog.Close()

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	st := store.NewSQLiteStore(database)
	observer := service.NewSlogUseCaseObserver(logger)

	app := &cli.App{
		Timelines: service.NewTimelineService(st, observer),
		Store:     st,
		Config:    cfg,
		Logger:    logger,
		Observer:  observer,
		Watch: func(ctx context.Context) {
			watchDatabase(ctx, st, cfg.DBPath, logger)
		},
	}

	// Detect interactive terminal for the TUI entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

// watchDatabase republishes timelines written by other processes until ctx
// is done.
func watchDatabase(ctx context.Context, st *store.SQLiteStore, dbPath string, logger *slog.Logger) {
	fw, err := store.NewFileWatcher(st, dbPath, logger)
	if err != nil {
		logger.Warn("database watcher disabled", "path", dbPath, "error", err)
		return
	}
	defer fw.Close()
	fw.Run(ctx)
}

func opensTUI(args []string) bool {
	for i := 0; i < len(args); i++ {
		switch a := args[i]; {
		case a == "--":
			return false
		case a == "--view" || a == "--commit":
			i++
		case len(a) > 0 && a[0] != '-':
			return a == "open"
		}
	}
	return false
}
