// Package workspace owns the live ADJ configuration of a process: the root
// directory it was loaded from and the current Configuration, behind one
// read/write lock.
//
// Filesystem work runs outside the lock on a private copy; only the swap of
// the finished result is done under the write lock. Two writers can
// therefore interleave on disk. The backend serves a single editor, so this
// is accepted.
package workspace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/adjvalet/internal/adj"
	"github.com/mesh-intelligence/adjvalet/internal/events"
	"github.com/mesh-intelligence/adjvalet/internal/logging"
	"github.com/mesh-intelligence/adjvalet/internal/metrics"
	"github.com/mesh-intelligence/adjvalet/pkg/types"
)

// DefaultQuietWindow is how long after its own save the workspace reports
// itself quiet, so a directory watcher can ignore the events it caused.
const DefaultQuietWindow = 2 * time.Second

// Workspace holds the current root and configuration.
type Workspace struct {
	engine *adj.Engine
	pub    events.Publisher
	log    *zap.Logger
	quiet  time.Duration
	now    func() time.Time

	mu       sync.RWMutex
	root     string
	cfg      *types.Configuration
	lastSave time.Time
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithPublisher sets the change event publisher.
func WithPublisher(p events.Publisher) Option {
	return func(w *Workspace) { w.pub = p }
}

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(w *Workspace) { w.log = log }
}

// WithQuietWindow overrides DefaultQuietWindow.
func WithQuietWindow(d time.Duration) Option {
	return func(w *Workspace) { w.quiet = d }
}

// New returns an empty Workspace. Call Open before anything else.
func New(engine *adj.Engine, opts ...Option) *Workspace {
	w := &Workspace{
		engine: engine,
		pub:    events.Nop{},
		log:    zap.NewNop(),
		quiet:  DefaultQuietWindow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = logging.OrNop(w.log)
	return w
}

// Root returns the current ADJ root, or "" when none is set.
func (w *Workspace) Root() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.root
}

// Snapshot returns a copy of the current configuration. It fails with
// types.ErrNoWorkspace when nothing has been loaded.
func (w *Workspace) Snapshot() (*types.Configuration, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.cfg == nil {
		return nil, types.ErrNoWorkspace
	}
	return w.cfg.Clone(), nil
}

// Open loads the tree at root and makes it the current workspace. On
// failure the previous workspace is kept.
func (w *Workspace) Open(ctx context.Context, root string) (*types.Configuration, adj.Report, error) {
	start := w.now()
	cfg, rep, err := w.engine.Load(root)
	metrics.RecordOperation(metrics.OpLoad, start, err)
	if err != nil {
		return nil, rep, err
	}
	metrics.RecordLoad(rep.Len(), len(cfg.Boards))

	w.mu.Lock()
	w.root = root
	w.cfg = cfg
	w.mu.Unlock()

	w.log.Info("opened ADJ workspace",
		zap.String("root", root),
		zap.Int("boards", len(cfg.Boards)),
		zap.Int("warnings", rep.Len()),
	)
	w.publish(ctx, events.Event{Event: events.Loaded, Root: root, Boards: cfg.BoardNames()})
	return cfg.Clone(), rep, nil
}

// SetRoot points the workspace at root without loading it. The serve
// command uses it when the startup load fails, so a client can still write
// a fresh tree there with Update.
func (w *Workspace) SetRoot(root string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.root = root
}

// Reload reloads the current root from disk.
func (w *Workspace) Reload(ctx context.Context) (adj.Report, error) {
	root := w.Root()
	if root == "" {
		return adj.Report{}, types.ErrNoWorkspace
	}
	start := w.now()
	cfg, rep, err := w.engine.Load(root)
	metrics.RecordOperation(metrics.OpReload, start, err)
	if err != nil {
		return rep, err
	}
	metrics.RecordLoad(rep.Len(), len(cfg.Boards))

	w.mu.Lock()
	if w.root != root {
		// Open switched roots while we were reading.
		w.mu.Unlock()
		return rep, nil
	}
	w.cfg = cfg
	w.mu.Unlock()

	w.log.Debug("reloaded ADJ workspace", zap.String("root", root), zap.Int("boards", len(cfg.Boards)))
	w.publish(ctx, events.Event{Event: events.Loaded, Root: root, Boards: cfg.BoardNames()})
	return rep, nil
}

// Update validates cfg, writes it to the current root and makes it current.
func (w *Workspace) Update(ctx context.Context, cfg *types.Configuration) (*types.Configuration, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: missing configuration", types.ErrBadRequest)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	root := w.Root()
	if root == "" {
		return nil, types.ErrNoWorkspace
	}

	next := cfg.Clone()
	next.Normalize()

	start := w.now()
	err := w.engine.Save(next, root)
	metrics.RecordOperation(metrics.OpSave, start, err)
	if err != nil {
		return nil, err
	}
	next.BoardIndex = next.CanonicalIndex()

	w.mu.Lock()
	w.cfg = next
	w.lastSave = w.now()
	w.mu.Unlock()
	metrics.Boards.Set(float64(len(next.Boards)))

	w.log.Info("saved ADJ workspace", zap.String("root", root), zap.Int("boards", len(next.Boards)))
	w.publish(ctx, events.Event{Event: events.Saved, Root: root, Boards: next.BoardNames()})
	return next.Clone(), nil
}

// Rename renames a board and saves the workspace so the regenerated
// manifest matches the new name.
//
// If the rename succeeds on disk but the following save fails, the
// renamed configuration still becomes current, since the board directory
// has already moved.
func (w *Workspace) Rename(ctx context.Context, oldName, newName string) (*types.Configuration, error) {
	w.mu.RLock()
	root, cur := w.root, w.cfg
	var next *types.Configuration
	if cur != nil {
		next = cur.Clone()
	}
	w.mu.RUnlock()
	if next == nil || root == "" {
		return nil, types.ErrNoWorkspace
	}

	start := w.now()
	_, err := w.engine.Rename(next, oldName, newName, root)
	metrics.RecordOperation(metrics.OpRename, start, err)
	if err != nil {
		return nil, err
	}

	start = w.now()
	saveErr := w.engine.Save(next, root)
	metrics.RecordOperation(metrics.OpSave, start, saveErr)
	if saveErr == nil {
		next.BoardIndex = next.CanonicalIndex()
	}

	w.mu.Lock()
	w.cfg = next
	w.lastSave = w.now()
	w.mu.Unlock()

	if saveErr != nil {
		return nil, fmt.Errorf("saving after rename of %s: %w", oldName, saveErr)
	}
	w.publish(ctx, events.Event{
		Event:  events.Renamed,
		Root:   root,
		Boards: next.BoardNames(),
		From:   oldName,
		To:     newName,
	})
	return next.Clone(), nil
}

// InQuietWindow reports whether the workspace saved within the quiet
// window.
func (w *Workspace) InQuietWindow() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return !w.lastSave.IsZero() && w.now().Sub(w.lastSave) < w.quiet
}

func (w *Workspace) publish(ctx context.Context, ev events.Event) {
	ev.Time = w.now().UTC()
	if err := w.pub.Publish(ctx, ev); err != nil {
		w.log.Warn("publishing change event failed",
			zap.String("subject", ev.Subject()),
			zap.Error(err),
		)
	}
}
