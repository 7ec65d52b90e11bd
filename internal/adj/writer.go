package adj

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/adjvalet/pkg/types"
)

// Save writes cfg to root in the canonical layout. Every managed file is
// replaced in full; nothing is diffed against what is on disk. The board
// index and the per-board manifests are regenerated from the board list.
//
// The first filesystem error stops the save. Files already written stay
// written.
func (e *Engine) Save(cfg *types.Configuration, root string) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil configuration", types.ErrBadRequest)
	}
	if err := checkBoardNames(cfg.Boards); err != nil {
		return err
	}
	c := cfg.Clone()
	c.Normalize()

	if err := e.store.MkdirAll(root); err != nil {
		return err
	}
	if err := e.store.WriteJSON(filepath.Join(root, GeneralInfoFile), c.GeneralInfo); err != nil {
		return err
	}
	if err := e.store.WriteJSON(filepath.Join(root, BoardIndexFile), c.CanonicalIndex()); err != nil {
		return err
	}
	for _, r := range c.Boards {
		if err := e.saveBoard(root, r); err != nil {
			return fmt.Errorf("saving board %s: %w", r.Name, err)
		}
	}

	e.log.Debug("saved configuration",
		zap.String("root", root),
		zap.Int("boards", len(c.Boards)),
	)
	return nil
}

func (e *Engine) saveBoard(root string, r types.BoardRecord) error {
	dir := BoardDir(root, r.Name)
	if err := e.store.MkdirAll(dir); err != nil {
		return err
	}
	if err := e.store.WriteJSON(filepath.Join(dir, ManifestFileName(r.Name)), canonicalManifest(r.Name, r.Board)); err != nil {
		return err
	}
	if err := e.store.WriteJSON(filepath.Join(dir, MeasurementsFileName(r.Name)), r.Board.Measurements); err != nil {
		return err
	}
	if err := e.writePartition(filepath.Join(dir, DataPacketsFile), r.Board.DataPackets()); err != nil {
		return err
	}
	return e.writePartition(filepath.Join(dir, OrderPacketsFile), r.Board.OrderPackets())
}

// writePartition writes a non-empty packet partition. An empty partition
// removes the file left by an earlier save, since the regenerated manifest
// still lists it and a reload would bring the old packets back.
func (e *Engine) writePartition(path string, packets []types.Packet) error {
	if len(packets) == 0 {
		removed, err := e.store.RemoveIfExists(path)
		if removed {
			e.log.Debug("removed empty packet partition", zap.String("path", path))
		}
		return err
	}
	return e.store.WriteJSON(path, packets)
}

func checkBoardNames(boards []types.BoardRecord) error {
	seen := make(map[string]bool, len(boards))
	for _, r := range boards {
		if err := types.ValidateBoardName(r.Name); err != nil {
			return err
		}
		if seen[r.Name] {
			return fmt.Errorf("%w: duplicate board %q", types.ErrBadRequest, r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}
