// Package watch reports changes to a single file.
//
// The parent directory is watched rather than the file itself because saves
// replace the file through a rename, which drops a watch placed on the old
// inode.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDelay is how long the watcher waits for more events before firing.
const DefaultDelay = 100 * time.Millisecond

// Watcher calls back when a file is written, created, removed or renamed.
type Watcher struct {
	path   string
	name   string
	delay  time.Duration
	logger zerolog.Logger
	fs     *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay overrides DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		w.delay = d
	}
}

// WithLogger sets the watcher logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New starts watching the directory containing path.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:   abs,
		name:   filepath.Base(abs),
		delay:  DefaultDelay,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With().Str("component", "watch").Str("path", abs).Logger()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	w.fs = fw

	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Run delivers debounced change notifications to onChange until ctx is done.
// The underlying watcher is closed when Run returns.
func (w *Watcher) Run(ctx context.Context, onChange func()) {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		_ = w.fs.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != w.name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			w.logger.Debug().Str("op", event.Op.String()).Msg("file event")

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.delay, func() {
				if ctx.Err() == nil {
					onChange()
				}
			})

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("file watcher error")
		}
	}
}

// Start creates a Watcher for path and runs it in a new goroutine.
func Start(ctx context.Context, path string, onChange func(), opts ...Option) (*Watcher, error) {
	w, err := New(path, opts...)
	if err != nil {
		return nil, err
	}
	go w.Run(ctx, onChange)
	return w, nil
}
