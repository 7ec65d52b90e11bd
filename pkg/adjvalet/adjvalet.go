// Package adjvalet is the public API of the ADJ configuration engine. It
// exposes load, save and rename over the host filesystem while keeping the
// engine itself internal.
//
// Example:
//
//	cfg, warnings, err := adjvalet.Load("/path/to/adj")
//	if err != nil {
//	    return err
//	}
//	if _, err := adjvalet.Rename(cfg, "sensor1", "sensor2", "/path/to/adj"); err != nil {
//	    return err
//	}
//	err = adjvalet.Save(cfg, "/path/to/adj")
package adjvalet

import (
	"go.uber.org/multierr"

	"github.com/mesh-intelligence/adjvalet/internal/adj"
	"github.com/mesh-intelligence/adjvalet/pkg/types"
)

// Version is the adj-valet release.
const Version = "v0.2.0"

// Load assembles the configuration stored under root. Files that had to be
// skipped are returned as warnings; only a missing root or a missing or
// malformed general_info.json is an error.
func Load(root string) (*types.Configuration, []error, error) {
	cfg, rep, err := adj.NewOS(nil).Load(root)
	if err != nil {
		return nil, nil, err
	}
	return cfg, multierr.Errors(rep.Err()), nil
}

// Save writes cfg to root in the canonical layout.
func Save(cfg *types.Configuration, root string) error {
	return adj.NewOS(nil).Save(cfg, root)
}

// Rename renames a board in cfg and under root. Call Save afterwards to
// regenerate the board's manifest.
func Rename(cfg *types.Configuration, oldName, newName, root string) (*types.Configuration, error) {
	return adj.NewOS(nil).Rename(cfg, oldName, newName, root)
}
