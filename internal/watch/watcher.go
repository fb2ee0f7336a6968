// Package watch observes the fold state directory and emits typed events
// when persisted fold sets change. It backs the live view in foldctl.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/PythonNut/vimish-fold/pkg/foldpath"
)

var (
	// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
	ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")
)

// EventType represents the type of state change detected.
type EventType int

const (
	// EventSetWritten indicates a fold set was created or rewritten.
	EventSetWritten EventType = iota

	// EventSetRemoved indicates a fold set was deleted.
	EventSetRemoved
)

// String returns the event type's display name.
func (t EventType) String() string {
	switch t {
	case EventSetWritten:
		return "written"
	case EventSetRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Event is one observed change to a persisted fold set.
type Event struct {
	// Type is the kind of change.
	Type EventType

	// DocPath is the document path decoded from the state file name.
	DocPath string

	// File is the state file that changed.
	File string

	// Timestamp is when the event was observed.
	Timestamp time.Time
}

// Watcher observes a state directory for fold set changes.
type Watcher struct {
	codec   foldpath.Codec
	logger  *zap.Logger
	watcher *fsnotify.Watcher
	events  chan Event
	stop    chan struct{}
}

// NewWatcher creates a watcher over the codec's state directory.
func NewWatcher(codec foldpath.Codec, logger *zap.Logger) (*Watcher, error) {
	if err := codec.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}

	return &Watcher{
		codec:   codec,
		logger:  logger.Named("watch"),
		watcher: fsw,
		events:  make(chan Event, 16),
		stop:    make(chan struct{}),
	}, nil
}

// Start begins watching for state changes.
//
// The state directory is created if absent so the watch can be
// established before the first fold set is written. Events are sent to
// the Events() channel from a background goroutine; call Stop() to clean
// up resources.
func (w *Watcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.codec.Dir, 0o700); err != nil {
		return fmt.Errorf("create state dir %s: %w", w.codec.Dir, err)
	}
	if err := w.watcher.Add(w.codec.Dir); err != nil {
		return fmt.Errorf("watching state dir %s: %w", w.codec.Dir, err)
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and cleans up resources.
func (w *Watcher) Stop() {
	select {
	case <-w.stop:
		// Already stopped
		return
	default:
		close(w.stop)
		_ = w.watcher.Close()
	}
}

// Events returns the channel for receiving state change events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// processEvents translates filesystem events into fold set events.
func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleFSEvent(ev fsnotify.Event) {
	var typ EventType
	switch {
	case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
		typ = EventSetWritten
	case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		typ = EventSetRemoved
	default:
		return
	}

	doc, err := w.codec.Decode(ev.Name)
	if err != nil {
		// Not a fold set file name.
		return
	}

	out := Event{
		Type:      typ,
		DocPath:   doc,
		File:      ev.Name,
		Timestamp: time.Now(),
	}

	// Send event (non-blocking)
	select {
	case w.events <- out:
	case <-w.stop:
	default:
		w.logger.Debug("event channel full, dropping event",
			zap.String("document", doc),
			zap.String("type", typ.String()),
		)
	}
}
