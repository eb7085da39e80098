package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"meilikit/src/pkg/loggingutil"
)

// DefaultDebounceTime coalesces the burst of events an editor save produces.
const DefaultDebounceTime = 200 * time.Millisecond

// Update is a reloaded configuration, or the error that prevented loading it.
type Update struct {
	Config *Config
	Err    error
}

// Loader produces a fresh Config each time it is called.
type Loader func() (*Config, error)

// Reloader returns a Loader that re-reads the config file of v. Flag and
// environment bindings already set up on v keep their precedence over the file.
func Reloader(v *viper.Viper) Loader {
	return func() (*Config, error) {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return unmarshal(v)
	}
}

// Watcher reloads a config file whenever it changes on disk
type Watcher struct {
	path         string
	load         Loader
	debounceTime time.Duration
	watcher      *fsnotify.Watcher
	updates      chan Update
	done         chan struct{}
	closeOnce    sync.Once
	timerMu      sync.Mutex
	timer        *time.Timer
}

// NewWatcher creates a watcher for the config file at path. The parent
// directory is watched, so files replaced by rename are picked up too.
// Each change is read through load; a nil load reads path alone with LoadConfig.
func NewWatcher(path string, debounceTime time.Duration, load Loader) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	fswatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if err := fswatcher.Add(filepath.Dir(absPath)); err != nil {
		_ = fswatcher.Close()
		return nil, fmt.Errorf("failed to watch directory %s: %w", filepath.Dir(absPath), err)
	}

	if debounceTime <= 0 {
		debounceTime = DefaultDebounceTime
	}
	if load == nil {
		load = func() (*Config, error) { return LoadConfig(absPath) }
	}

	return &Watcher{
		path:         absPath,
		load:         load,
		debounceTime: debounceTime,
		watcher:      fswatcher,
		updates:      make(chan Update, 1),
		done:         make(chan struct{}),
	}, nil
}

// Start begins watching until ctx is done. The returned channel is never
// closed; stop reading once ctx is done.
func (w *Watcher) Start(ctx context.Context) <-chan Update {
	go w.processEvents(ctx)
	return w.updates
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)

		w.timerMu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.timerMu.Unlock()

		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) processEvents(ctx context.Context) {
	logger := loggingutil.Get(ctx)
	defer func() { _ = w.Close() }()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != w.path {
				continue
			}
			if evt.Has(fsnotify.Write) || evt.Has(fsnotify.Create) {
				logger.Debug("Config file changed", "path", w.path, "op", evt.Op.String())
				w.debounceReload(logger)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Config watcher error", "error", err)
		}
	}
}

// debounceReload restarts the reload timer
func (w *Watcher) debounceReload(logger loggingutil.Logger) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounceTime, func() {
		cfg, err := w.load()
		if err == nil {
			err = ValidateConfig(cfg)
		}
		if err != nil {
			logger.Warn("Failed to reload config", "path", w.path, "error", err)
		}

		select {
		case w.updates <- Update{Config: cfg, Err: err}:
		case <-w.done:
		}
	})
}
