package adj

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/adjvalet/pkg/types"
)

// Load assembles a Configuration from the tree at root.
//
// Only a missing root, or a missing or broken general_info.json, is fatal.
// Every per-board problem lands in the Report and is logged; the boards
// that could be built are returned.
func (e *Engine) Load(root string) (*types.Configuration, Report, error) {
	var rep Report

	ok, err := e.store.IsDir(root)
	if err != nil {
		return nil, rep, err
	}
	if !ok {
		return nil, rep, fmt.Errorf("%w: ADJ directory %s", types.ErrNotFound, root)
	}

	gi, err := e.LoadGeneralInfo(root)
	if err != nil {
		return nil, rep, err
	}

	idx, found, idxRep := e.LoadBoardIndex(root)
	rep.Merge(idxRep)

	var boards []types.BoardRecord
	if found {
		boards = e.loadIndexed(root, idx, &rep)
	} else {
		boards = e.scanBoards(root, &rep)
	}

	cfg := &types.Configuration{
		GeneralInfo: gi,
		BoardIndex:  idx,
		Boards:      boards,
	}
	cfg.Normalize()

	rep.log(e.log)
	e.log.Debug("assembled configuration",
		zap.String("root", root),
		zap.Bool("indexed", found),
		zap.Int("boards", len(cfg.Boards)),
		zap.Int("warnings", rep.Len()),
	)
	return cfg, rep, nil
}

// loadIndexed builds boards in index order. Entries with an invalid name
// or whose manifest file cannot be found are skipped.
func (e *Engine) loadIndexed(root string, idx types.BoardIndex, rep *Report) []types.BoardRecord {
	boards := []types.BoardRecord{}
	for _, name := range idx.Names() {
		rel, _ := idx.Get(name)
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := types.ValidateBoardName(name); err != nil {
			rep.Warn(name, path, err)
			continue
		}
		ok, err := e.store.IsFile(path)
		if err != nil {
			rep.Warn(name, path, err)
			continue
		}
		if !ok {
			rep.Warn(name, path, fmt.Errorf("%w: board manifest", types.ErrNotFound))
			continue
		}
		m, mrep := e.LoadManifest(path)
		rep.Merge(mrep.forBoard(name))
		boards = append(boards, e.buildBoard(name, m, filepath.Dir(path), rep))
	}
	return boards
}

// scanBoards is the fallback used when there is no boards.json: every
// directory under <root>/boards is a board named after the directory. A
// boards directory that cannot be listed yields no boards and a warning.
func (e *Engine) scanBoards(root string, rep *Report) []types.BoardRecord {
	boards := []types.BoardRecord{}
	boardsDir := filepath.Join(root, BoardsDir)
	dirs, err := e.store.ListDirs(boardsDir)
	if err != nil {
		rep.Warn("", boardsDir, err)
		return boards
	}
	for _, name := range dirs {
		dir := BoardDir(root, name)
		path := filepath.Join(dir, ManifestFileName(name))
		if err := types.ValidateBoardName(name); err != nil {
			rep.Warn(name, dir, err)
			continue
		}
		m := DefaultManifest()
		ok, err := e.store.IsFile(path)
		if err != nil {
			rep.Warn(name, path, err)
		}
		if ok {
			var mrep Report
			m, mrep = e.LoadManifest(path)
			rep.Merge(mrep.forBoard(name))
		}
		boards = append(boards, e.buildBoard(name, m, dir, rep))
	}
	return boards
}

func (e *Engine) buildBoard(name string, m Manifest, dir string, rep *Report) types.BoardRecord {
	measurements, mrep := e.LoadMeasurements(m.Measurements, dir)
	rep.Merge(mrep.forBoard(name))
	packets, prep := e.LoadPackets(m.Packets, dir)
	rep.Merge(prep.forBoard(name))
	return types.BoardRecord{
		Name: name,
		Board: types.Board{
			BoardID:      m.BoardID,
			BoardIP:      m.BoardIP,
			Measurements: measurements,
			Packets:      packets,
		},
	}
}
