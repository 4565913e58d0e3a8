// Package watch runs the pipeline automatically for video files dropped
// into a directory.
package watch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"silentcut/pkg/util"
)

// DefaultSettle is how long a file must stay quiet after its last write
// before it is considered fully copied in.
const DefaultSettle = 2 * time.Second

// ProcessFunc handles one settled video file.
type ProcessFunc func(ctx context.Context, path string) error

// Watcher monitors a directory and invokes a ProcessFunc for each video
// file once writes to it have settled.
type Watcher struct {
	dir     string
	settle  time.Duration
	skip    string // substring marking our own output files
	process ProcessFunc
	logger  zerolog.Logger
}

// New returns a Watcher for dir. Files whose name contains skipSuffix
// are ignored, which keeps the watcher from re-processing its own
// output.
func New(dir string, settle time.Duration, skipSuffix string, process ProcessFunc, logger zerolog.Logger) *Watcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{
		dir:     dir,
		settle:  settle,
		skip:    skipSuffix,
		process: process,
		logger:  logger.With().Str("component", "watch").Logger(),
	}
}

// Run watches until the context is cancelled. Processing failures are
// logged and do not stop the watch loop.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	w.logger.Info().Str("dir", w.dir).Dur("settle", w.settle).Msg("watching for video files")

	settled := make(chan string)
	timers := make(map[string]*time.Timer)

	for {
		select {
		case <-ctx.Done():
			for _, t := range timers {
				t.Stop()
			}
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.wants(event.Name) {
				continue
			}

			// Debounce: restart the settle timer on every write.
			if t, exists := timers[event.Name]; exists {
				t.Stop()
			}
			path := event.Name
			timers[path] = time.AfterFunc(w.settle, func() {
				select {
				case settled <- path:
				case <-ctx.Done():
				}
			})

		case path := <-settled:
			delete(timers, path)
			w.logger.Info().Str("file", path).Msg("processing new file")
			if err := w.process(ctx, path); err != nil {
				w.logger.Error().Err(err).Str("file", path).Msg("processing failed")
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) wants(path string) bool {
	if !util.IsVideoFile(path) {
		return false
	}
	if w.skip != "" && strings.Contains(path, w.skip) {
		return false
	}
	return true
}
