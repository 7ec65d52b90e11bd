// Package adj is the ADJ configuration engine. It assembles a
// types.Configuration from a directory tree, writes it back in the
// canonical layout, and renames boards on disk and in memory.
//
// Canonical layout written by Save:
//
//	<root>/general_info.json
//	<root>/boards.json
//	<root>/boards/<name>/<name>.json
//	<root>/boards/<name>/<name>_measurements.json
//	<root>/boards/<name>/packets.json   (type != "order")
//	<root>/boards/<name>/orders.json    (type == "order")
//
// The engine holds no configuration state; callers own the Configuration
// and its locking.
package adj

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/adjvalet/internal/logging"
	"github.com/mesh-intelligence/adjvalet/internal/store"
)

// Engine runs loads, saves and renames against one filesystem.
type Engine struct {
	store *store.Store
	log   *zap.Logger
}

// New returns an Engine using st for file access. A nil logger disables
// logging.
func New(st *store.Store, log *zap.Logger) *Engine {
	log = logging.OrNop(log)
	return &Engine{store: st, log: log}
}

// NewOS returns an Engine on the host filesystem.
func NewOS(log *zap.Logger) *Engine {
	return New(store.NewOS(), log)
}

// Store returns the engine's file store.
func (e *Engine) Store() *store.Store {
	return e.store
}
