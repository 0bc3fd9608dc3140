package tailsource

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Watcher turns filesystem events for one file into wake-ups for the poller.
// Notifications are coalesced: at most one is pending at a time.
type Watcher struct {
	watcher *fsnotify.Watcher
	target  string
	notify  chan struct{}
	log     logrus.FieldLogger
}

// NewWatcher watches the directory containing path so that the file being
// recreated or renamed is still observed.
func NewWatcher(path string, log logrus.FieldLogger) (*Watcher, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(target)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Watcher{
		watcher: w,
		target:  target,
		notify:  make(chan struct{}, 1),
		log:     log.WithField("path", target),
	}, nil
}

// Changes delivers a value after the file was written, created or moved.
func (w *Watcher) Changes() <-chan struct{} { return w.notify }

// Run forwards events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Chmod) == 0 {
				continue
			}
			select {
			case w.notify <- struct{}{}:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.WithError(err).Warn("file watch error")
		}
	}
}
