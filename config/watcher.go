package config

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc is called when a watched path changes or SIGHUP arrives.
type ReloadFunc func() error

// Watcher triggers a reload when theme resource files change.
//
// A watched file is observed through its parent directory, which catches
// editors that save by rename. A watched directory reacts to any file in it.
type Watcher struct {
	reload   ReloadFunc
	logger   zerolog.Logger
	debounce time.Duration

	// directory -> base names of interest; nil means any file
	targets map[string]map[string]bool

	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu    sync.Mutex
	timer *time.Timer

	// held for the duration of a reload; Stop takes it to wait one out
	reloadMu sync.Mutex
}

// NewWatcher creates a watcher for paths. Empty paths are skipped.
func NewWatcher(reload ReloadFunc, logger zerolog.Logger, paths ...string) (*Watcher, error) {
	w := &Watcher{
		reload:   reload,
		logger:   logger,
		debounce: DefaultDebounce,
		targets:  make(map[string]map[string]bool),
		stopCh:   make(chan struct{}),
	}

	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("absolute path: %w", err)
		}

		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			w.targets[abs] = nil
			continue
		}

		dir, name := filepath.Split(abs)
		dir = filepath.Clean(dir)
		names, seen := w.targets[dir]
		if seen && names == nil {
			continue
		}
		if names == nil {
			names = make(map[string]bool)
			w.targets[dir] = names
		}
		names[name] = true
	}

	return w, nil
}

// SetDebounce changes the quiet period before a reload. Zero reloads on
// every event.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Dirs returns the watched directories.
func (w *Watcher) Dirs() []string {
	dirs := make([]string, 0, len(w.targets))
	for dir := range w.targets {
		dirs = append(dirs, dir)
	}
	return dirs
}

// WatchFiles starts watching the target directories.
func (w *Watcher) WatchFiles() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	for dir := range w.targets {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return fmt.Errorf("watch directory %s: %w", dir, err)
		}
	}
	w.watcher = watcher

	w.wg.Add(1)
	go w.watchLoop()

	w.logger.Info().Strs("dirs", w.Dirs()).Msg("watching theme files for changes")
	return nil
}

// WatchSignals starts listening for SIGHUP to trigger reload.
func (w *Watcher) WatchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-sigCh:
				w.logger.Info().Msg("received SIGHUP, reloading theme")
				w.fire()
			case <-w.stopCh:
				signal.Stop(sigCh)
				return
			}
		}
	}()

	w.logger.Info().Msg("listening for SIGHUP to reload theme")
}

// Stop stops watching for file changes and signals and waits for a
// reload in progress to finish. Safe to call twice.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if w.watcher != nil {
			w.watcher.Close()
		}
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		w.wg.Wait()

		w.reloadMu.Lock()
		w.reloadMu.Unlock()
	})
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.matches(event.Name) {
				continue
			}

			// Write, create and rename cover in-place edits and atomic saves.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("theme file changed")
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("file watcher error")

		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) matches(path string) bool {
	dir, name := filepath.Split(path)
	names, ok := w.targets[filepath.Clean(dir)]
	if !ok {
		return false
	}
	return names == nil || names[name]
}

func (w *Watcher) schedule() {
	if w.debounce <= 0 {
		w.fire()
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	w.reloadMu.Lock()
	defer w.reloadMu.Unlock()

	select {
	case <-w.stopCh:
		return
	default:
	}
	if err := w.reload(); err != nil {
		w.logger.Error().Err(err).Msg("theme reload failed")
	}
}
