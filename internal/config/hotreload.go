package config

import (
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the burst of filesystem events a single editor
// save produces into one reload.
const debounceWindow = 300 * time.Millisecond

// ReloadHandler receives the freshly parsed config after the file on disk
// changes.
type ReloadHandler func(cfg *Config)

// Watcher reloads the config file when it changes on disk. It watches the
// parent directory rather than the file itself, so atomic saves
// (write-tmp-then-rename) and a config file created after startup are both
// picked up.
type Watcher struct {
	path string
	fs   *fsnotify.Watcher
	done chan struct{}

	mu       sync.Mutex
	handlers []ReloadHandler
}

// NewWatcher creates a watcher for the given config path.
func NewWatcher(path string) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		path: filepath.Clean(path),
		fs:   fs,
		done: make(chan struct{}),
	}, nil
}

// OnChange registers a handler invoked after each successful reload.
func (w *Watcher) OnChange(h ReloadHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Start begins watching. The config file itself may not exist yet; only the
// parent directory has to.
func (w *Watcher) Start() error {
	if err := w.fs.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	go w.run()
	slog.Info("config watcher started", "path", w.path)
	return nil
}

// Stop halts the watcher. Safe to call after a failed Start.
func (w *Watcher) Stop() {
	close(w.done)
	w.fs.Close()
}

func (w *Watcher) run() {
	timer := time.NewTimer(debounceWindow)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-w.done:
			timer.Stop()
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounceWindow)

		case <-timer.C:
			w.reload()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Error("config watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		slog.Error("config reload failed", "path", w.path, "error", err)
		return
	}
	slog.Info("config reloaded", "path", w.path)

	w.mu.Lock()
	handlers := append([]ReloadHandler(nil), w.handlers...)
	w.mu.Unlock()

	for _, h := range handlers {
		h(cfg)
	}
}
