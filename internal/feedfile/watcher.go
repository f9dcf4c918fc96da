package feedfile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/uniflow/internal/feed"
	"git.home.luguber.info/inful/uniflow/internal/logfields"
)

// Watcher monitors the posts file and dispatches Refresh when it changes,
// debounced so editor save bursts (and our own like writes) collapse into a
// single refresh.
type Watcher struct {
	path         string
	dispatch     func(ctx context.Context, intent feed.Intent)
	watcher      *fsnotify.Watcher
	mu           sync.Mutex
	stopChan     chan struct{}
	changeChan   chan struct{}
	debounceTime time.Duration
}

// NewWatcher creates a watcher for the given posts file. dispatch is called
// with feed.Refresh after each debounced change.
func NewWatcher(path string, dispatch func(ctx context.Context, intent feed.Intent)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to resolve posts path: %w", err)
	}

	return &Watcher{
		path:         abs,
		dispatch:     dispatch,
		watcher:      fsw,
		stopChan:     make(chan struct{}),
		changeChan:   make(chan struct{}, 1),
		debounceTime: time.Second,
	}, nil
}

// Start begins monitoring. Watching the parent directory instead of the file
// itself survives rename-based atomic writes.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch posts directory %s: %w", dir, err)
	}

	slog.Info("starting posts watcher", slog.String("path", w.path))

	go w.watchLoop(ctx)
	go w.refreshLoop(ctx)

	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	close(w.stopChan)
	if w.watcher != nil {
		if err := w.watcher.Close(); err != nil {
			slog.Error("error closing posts watcher", logfields.Error(err))
		}
	}
}

func (w *Watcher) watchLoop(ctx context.Context) {
	name := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			switch {
			case event.Op&fsnotify.Write == fsnotify.Write,
				event.Op&fsnotify.Create == fsnotify.Create,
				event.Op&fsnotify.Rename == fsnotify.Rename:
				slog.Debug("posts file changed", slog.String("file", event.Name))
				w.triggerRefresh()
			case event.Op&fsnotify.Remove == fsnotify.Remove:
				slog.Warn("posts file removed", slog.String("file", event.Name))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("posts watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) refreshLoop(ctx context.Context) {
	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.changeChan:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounceTime, func() {
				slog.Info("posts file changed, refreshing feed", slog.String("path", w.path))
				w.dispatch(ctx, feed.Refresh{})
			})
		}
	}
}

func (w *Watcher) triggerRefresh() {
	select {
	case w.changeChan <- struct{}{}:
	default:
		// A refresh is already pending.
	}
}
