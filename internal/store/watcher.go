package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups bursts of file events from one transaction.
const DefaultDebounce = 50 * time.Millisecond

// FileWatcher republishes subscribed timelines when the database file is
// written by another process.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	store    *SQLiteStore
	dbName   string
	debounce time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewFileWatcher watches the directory holding dbPath. SQLite in WAL mode
// writes the -wal file first, so both names count.
func NewFileWatcher(s *SQLiteStore, dbPath string, logger *slog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(dbPath)); err != nil {
		watcher.Close()
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FileWatcher{
		watcher:  watcher,
		store:    s,
		dbName:   filepath.Base(dbPath),
		debounce: DefaultDebounce,
		logger:   logger,
	}, nil
}

// Run processes events until ctx is done or Close is called. It returns
// at once after Close.
func (fw *FileWatcher) Run(ctx context.Context) {
	fw.mu.Lock()
	if fw.closed {
		fw.mu.Unlock()
		return
	}
	fw.wg.Add(1)
	fw.mu.Unlock()
	defer fw.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !fw.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			fw.refreshAll(ctx)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			// Log error but continue running
			fw.logger.Warn("database watch error", "error", err)
		}
	}
}

func (fw *FileWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	name := filepath.Base(event.Name)
	return name == fw.dbName || strings.HasPrefix(name, fw.dbName+"-wal")
}

func (fw *FileWatcher) refreshAll(ctx context.Context) {
	for _, id := range fw.store.hub.Subscribed() {
		if err := fw.store.Refresh(ctx, id); err != nil {
			fw.logger.Warn("refreshing timeline after external write", "timeline_id", id, "error", err)
		}
	}
}

// Close stops watching and waits for Run to return.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	fw.closed = true
	fw.mu.Unlock()
	err := fw.watcher.Close()
	fw.wg.Wait()
	return err
}
