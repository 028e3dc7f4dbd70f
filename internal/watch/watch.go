// Package watch reloads a parameters file whenever it changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/mindwave/mindwave/brainwave"
	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum time between two reloads. Editors often
// write a file several times when saving it.
const DefaultInterval = 250 * time.Millisecond

// Watcher delivers every valid version of a parameters file.
type Watcher struct {
	path     string
	onChange func(brainwave.Parameters)
	onError  func(error)
	watcher  *fsnotify.Watcher
	limiter  *rate.Limiter
}

// New watches path. The directory is watched rather than the file so that
// editors that replace the file on save keep working.
func New(path string, onChange func(brainwave.Parameters)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	log.Info("fsnotify watching dir", "dir", dir)

	return &Watcher{
		path:     abs,
		onChange: onChange,
		watcher:  w,
		limiter:  rate.NewLimiter(rate.Every(DefaultInterval), 1),
	}, nil
}

// OnError sets a callback for files that fail to load. By default they are
// only logged.
func (w *Watcher) OnError(fn func(error)) {
	w.onError = fn
}

// SetInterval changes the minimum time between reloads.
func (w *Watcher) SetInterval(d time.Duration) {
	w.limiter.SetLimit(rate.Every(d))
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Run delivers changes until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug("fsnotify event", "file", event.Name, "event", event.Op)

			if err := w.limiter.Wait(ctx); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return ctx.Err()
				}
				return err
			}
			w.drain()
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Debug("fsnotify error", "file", w.path, "error", err)
		}
	}
}

// drain drops events queued while waiting on the limiter; the reload that
// follows picks up their content.
func (w *Watcher) drain() {
	for {
		select {
		case _, ok := <-w.watcher.Events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func (w *Watcher) reload() {
	params, err := brainwave.LoadParametersFile(w.path)
	if err != nil {
		log.Warn("Ignoring parameters file", "file", w.path, "error", err)
		if w.onError != nil {
			w.onError(err)
		}
		return
	}
	log.Debug("Parameters file reloaded", "file", w.path, "params", params)
	w.onChange(params)
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
