// Package watch reloads the workspace when the ADJ tree is edited outside
// the backend, for example by hand or by a git checkout.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/adjvalet/internal/adj"
	"github.com/mesh-intelligence/adjvalet/internal/logging"
)

// DefaultDebounce collapses the burst of events a save produces into one
// reload.
const DefaultDebounce = 500 * time.Millisecond

// Reloader is the part of the workspace the watcher drives.
type Reloader interface {
	Reload(ctx context.Context) (adj.Report, error)
	InQuietWindow() bool
}

// Watcher watches <root>, <root>/boards and every board directory.
type Watcher struct {
	root     string
	target   Reloader
	debounce time.Duration
	log      *zap.Logger

	mu      sync.Mutex
	timer   *time.Timer
	trigger chan struct{}
}

// New returns a watcher for root. A zero debounce uses DefaultDebounce.
func New(root string, target Reloader, debounce time.Duration, log *zap.Logger) *Watcher {
	if debounce == 0 {
		debounce = DefaultDebounce
	}
	log = logging.OrNop(log)
	return &Watcher{
		root:     root,
		target:   target,
		debounce: debounce,
		log:      log,
		trigger:  make(chan struct{}, 1),
	}
}

// Run watches until ctx is cancelled. It returns an error only if the
// watcher cannot be started.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.root); err != nil {
		return fmt.Errorf("watching %s: %w", w.root, err)
	}
	w.addBoardDirs(fw)
	w.log.Info("watching ADJ tree", zap.String("root", w.root))

	defer w.stopTimer()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(fw, ev)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watcher error", zap.Error(err))

		case <-w.trigger:
			w.reload(ctx)
		}
	}
}

func (w *Watcher) addBoardDirs(fw *fsnotify.Watcher) {
	boards := filepath.Join(w.root, adj.BoardsDir)
	if err := fw.Add(boards); err != nil {
		// No boards directory yet; it is picked up when created.
		return
	}
	entries, err := os.ReadDir(boards)
	if err != nil {
		w.log.Warn("listing boards directory", zap.Error(err))
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			w.addDir(fw, filepath.Join(boards, e.Name()))
		}
	}
}

func (w *Watcher) addDir(fw *fsnotify.Watcher, dir string) {
	if err := fw.Add(dir); err != nil {
		w.log.Warn("watching directory", zap.String("dir", dir), zap.Error(err))
	}
}

func (w *Watcher) handle(fw *fsnotify.Watcher, ev fsnotify.Event) {
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if ev.Name == filepath.Join(w.root, adj.BoardsDir) {
				w.addBoardDirs(fw)
			} else {
				w.addDir(fw, ev.Name)
			}
			w.schedule()
			return
		}
	}
	if !isJSON(ev.Name) {
		return
	}
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	w.schedule()
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.trigger <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) reload(ctx context.Context) {
	// Edits that land while the workspace is still saving are reloaded once
	// the quiet window has passed, not dropped.
	if w.target.InQuietWindow() {
		w.log.Debug("deferring reload until the quiet window ends")
		w.schedule()
		return
	}
	rep, err := w.target.Reload(ctx)
	if err != nil {
		w.log.Error("reloading ADJ tree", zap.String("root", w.root), zap.Error(err))
		return
	}
	w.log.Info("reloaded ADJ tree after external change",
		zap.String("root", w.root),
		zap.Int("warnings", rep.Len()),
	)
}

func isJSON(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}
