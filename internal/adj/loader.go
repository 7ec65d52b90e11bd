package adj

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/adjvalet/pkg/types"
)

// errEmptyFile marks an optional file that exists but holds only whitespace.
var errEmptyFile = errors.New("empty file")

// LoadGeneralInfo reads <root>/general_info.json. General info is
// mandatory: a missing file wraps types.ErrNotFound, a read failure
// types.ErrIO, invalid JSON types.ErrParse.
func (e *Engine) LoadGeneralInfo(root string) (types.GeneralInfo, error) {
	var gi types.GeneralInfo
	path := filepath.Join(root, GeneralInfoFile)
	if err := e.store.ReadJSON(path, &gi); err != nil {
		return types.GeneralInfo{}, fmt.Errorf("loading general info: %w", err)
	}
	return gi, nil
}

// LoadBoardIndex reads <root>/boards.json. found is false when the file is
// absent or could not be decoded; the caller then falls back to scanning
// the boards directory. A present but broken index is reported as a
// warning.
func (e *Engine) LoadBoardIndex(root string) (idx types.BoardIndex, found bool, rep Report) {
	path := filepath.Join(root, BoardIndexFile)
	ok, err := e.store.IsFile(path)
	if err != nil {
		rep.Warn("", path, err)
		return types.NewBoardIndex(), false, rep
	}
	if !ok {
		return types.NewBoardIndex(), false, rep
	}
	if err := e.store.ReadJSON(path, &idx); err != nil {
		rep.Warn("", path, err)
		return types.NewBoardIndex(), false, rep
	}
	return idx, true, rep
}

// LoadManifest reads a board manifest. It never fails: a missing,
// unreadable or malformed file yields DefaultManifest and a warning, and
// wrong-typed fields fall back individually (see Manifest).
func (e *Engine) LoadManifest(path string) (Manifest, Report) {
	var rep Report
	var m Manifest
	if err := e.store.ReadJSON(path, &m); err != nil {
		rep.Warn("", path, err)
		return DefaultManifest(), rep
	}
	return m, rep
}

// LoadMeasurements reads and concatenates the measurement lists named in
// files, resolved against boardDir, in the order given. Files that are
// missing, empty or do not parse as a list of measurements are skipped.
func (e *Engine) LoadMeasurements(files []string, boardDir string) ([]types.Measurement, Report) {
	return loadList[types.Measurement](e, files, boardDir, nil)
}

// LoadPackets is LoadMeasurements for packet lists. packets.json and
// orders.json may be absent without a warning: Save leaves out the file of
// an empty partition while the manifest still lists both.
func (e *Engine) LoadPackets(files []string, boardDir string) ([]types.Packet, Report) {
	return loadList[types.Packet](e, files, boardDir, isPartitionFile)
}

func isPartitionFile(name string) bool {
	return name == DataPacketsFile || name == OrderPacketsFile
}

// loadList concatenates the lists in files. A missing file whose name
// satisfies mayBeAbsent is skipped silently.
func loadList[T any](e *Engine, files []string, dir string, mayBeAbsent func(string) bool) ([]T, Report) {
	var rep Report
	out := []T{}
	for _, name := range files {
		path := filepath.Join(dir, name)
		data, err := e.store.ReadFile(path)
		if err != nil {
			if mayBeAbsent != nil && mayBeAbsent(name) && errors.Is(err, types.ErrNotFound) {
				e.log.Debug("empty partition has no file", zap.String("path", path))
				continue
			}
			rep.Warn("", path, err)
			continue
		}
		if len(bytes.TrimSpace(data)) == 0 {
			rep.Warn("", path, errEmptyFile)
			continue
		}
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			rep.Warn("", path, fmt.Errorf("%w: %w", types.ErrParse, err))
			continue
		}
		out = append(out, items...)
	}
	return out, rep
}
