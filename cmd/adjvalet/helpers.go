// Shared helpers for adjvalet CLI commands.
package main

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/adjvalet/internal/adj"
	"github.com/mesh-intelligence/adjvalet/internal/store"
	"github.com/mesh-intelligence/adjvalet/pkg/types"
)

// loadTree resolves the ADJ root and assembles it. Skipped files are logged
// by the engine as warnings.
func loadTree(log *zap.Logger) (*adj.Engine, string, *types.Configuration, error) {
	root, err := requireADJDir()
	if err != nil {
		return nil, "", nil, err
	}
	engine := newEngine(log)
	cfg, _, err := engine.Load(root)
	if err != nil {
		return nil, "", nil, err
	}
	return engine, root, cfg, nil
}

// printJSON writes v the way the server encodes responses.
func printJSON(w io.Writer, v any) error {
	data, err := store.EncodeJSON(v)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
