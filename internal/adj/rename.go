package adj

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/adjvalet/pkg/types"
)

// Rename changes a board's name in cfg and on disk and returns cfg.
//
// It fails with types.ErrBadRequest when newName is not a usable directory
// name, types.ErrConflict when newName is already taken (in the board list,
// the index, or as an existing directory under boards/), and
// types.ErrNotFound when oldName names no board. cfg is only modified after
// the filesystem renames succeed.
//
// When boards/<oldName> exists it is moved to boards/<newName>, and the
// manifest and measurements files inside are renamed if present. Nothing
// else is rewritten; call Save afterwards to regenerate the manifest.
func (e *Engine) Rename(cfg *types.Configuration, oldName, newName, root string) (*types.Configuration, error) {
	if cfg == nil {
		return nil, types.ErrNoWorkspace
	}
	if err := types.ValidateBoardName(newName); err != nil {
		return nil, err
	}
	if _, _, taken := cfg.Board(newName); taken || cfg.BoardIndex.Has(newName) {
		return nil, fmt.Errorf("%w: board %q already exists", types.ErrConflict, newName)
	}
	rec, _, ok := cfg.Board(oldName)
	if !ok {
		return nil, fmt.Errorf("%w: board %q", types.ErrNotFound, oldName)
	}

	if err := e.renameOnDisk(root, oldName, newName); err != nil {
		return nil, err
	}

	cfg.BoardIndex.Delete(oldName)
	cfg.BoardIndex.Set(newName, types.CanonicalBoardPath(newName))
	rec.Name = newName

	e.log.Info("renamed board",
		zap.String("from", oldName),
		zap.String("to", newName),
	)
	return cfg, nil
}

func (e *Engine) renameOnDisk(root, oldName, newName string) error {
	oldDir := BoardDir(root, oldName)
	newDir := BoardDir(root, newName)

	ok, err := e.store.IsDir(oldDir)
	if err != nil || !ok {
		return err
	}
	taken, err := e.store.Exists(newDir)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: directory %s already exists", types.ErrConflict, newDir)
	}

	if err := e.store.Rename(oldDir, newDir); err != nil {
		return err
	}
	if _, err := e.store.RenameIfExists(
		filepath.Join(newDir, ManifestFileName(oldName)),
		filepath.Join(newDir, ManifestFileName(newName)),
	); err != nil {
		return err
	}
	_, err = e.store.RenameIfExists(
		filepath.Join(newDir, MeasurementsFileName(oldName)),
		filepath.Join(newDir, MeasurementsFileName(newName)),
	)
	return err
}
