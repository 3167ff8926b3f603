// Package watch keeps a document environment current while sources change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// DefaultDebounce collapses bursts of editor writes into one change set.
const DefaultDebounce = 300 * time.Millisecond

// Environment is the part of the document environment the watcher drives.
type Environment interface {
	SourceDir() string
	DocnameForPath(path string) (string, bool)
	Invalidate(name string)
}

// ChangeFunc receives the sorted names invalidated by one debounced batch.
type ChangeFunc func(docnames []string)

// Watcher monitors the source directory and invalidates changed documents.
type Watcher struct {
	env          Environment
	onChange     ChangeFunc
	watcher      *fsnotify.Watcher
	debounceTime time.Duration

	mu         sync.Mutex
	pending    map[string]struct{}
	stopChan   chan struct{}
	changeChan chan struct{}
	stopOnce   sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounceTime = d }
}

// New creates a watcher for env. onChange may be nil.
func New(env Environment, onChange ChangeFunc, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{
		env:          env,
		onChange:     onChange,
		watcher:      fw,
		debounceTime: DefaultDebounce,
		pending:      map[string]struct{}{},
		stopChan:     make(chan struct{}),
		changeChan:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start watches the source tree. fsnotify is not recursive, so every
// directory is added, and directories created later are added as they appear.
func (w *Watcher) Start(ctx context.Context) error {
	root := w.env.SourceDir()
	if err := w.addTree(root); err != nil {
		return fmt.Errorf("failed to watch source directory %s: %w", root, err)
	}
	slog.Info("Starting source watcher", logfields.Path(root))

	go w.watchLoop(ctx)
	go w.flushLoop(ctx)
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		slog.Info("Stopping source watcher")
		close(w.stopChan)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(p)
	})
}

func (w *Watcher) watchLoop(ctx context.Context) {
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
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Source watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				slog.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
			return
		}
	}
	if event.Op == fsnotify.Chmod {
		return
	}

	name, ok := w.env.DocnameForPath(event.Name)
	if !ok {
		return
	}
	slog.Debug("Source change detected", logfields.Docname(name), slog.String("op", event.Op.String()))

	w.mu.Lock()
	w.pending[name] = struct{}{}
	w.mu.Unlock()

	select {
	case w.changeChan <- struct{}{}:
	default:
		// Flush already pending
	}
}

// flushLoop applies pending invalidations once events stop for debounceTime.
func (w *Watcher) flushLoop(ctx context.Context) {
	var timer *time.Timer
	stop := func() {
		if timer != nil {
			timer.Stop()
		}
	}
	for {
		select {
		case <-ctx.Done():
			stop()
			return
		case <-w.stopChan:
			stop()
			return
		case <-w.changeChan:
			stop()
			timer = time.AfterFunc(w.debounceTime, w.flush)
		}
	}
}

func (w *Watcher) flush() {
	w.mu.Lock()
	names := make([]string, 0, len(w.pending))
	for n := range w.pending {
		names = append(names, n)
	}
	w.pending = map[string]struct{}{}
	w.mu.Unlock()

	if len(names) == 0 {
		return
	}
	sort.Strings(names)
	for _, n := range names {
		w.env.Invalidate(n)
	}
	slog.Info("Invalidated changed documents", logfields.Count(len(names)))
	if w.onChange != nil {
		w.onChange(names)
	}
}
