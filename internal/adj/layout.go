package adj

import "path/filepath"

// File and directory names of the ADJ layout.
const (
	GeneralInfoFile  = "general_info.json"
	BoardIndexFile   = "boards.json"
	BoardsDir        = "boards"
	DataPacketsFile  = "packets.json"
	OrderPacketsFile = "orders.json"
)

// ManifestFileName is the manifest file for a board: <name>.json.
func ManifestFileName(board string) string {
	return board + ".json"
}

// MeasurementsFileName is the measurements file the writer uses for a
// board: <name>_measurements.json.
func MeasurementsFileName(board string) string {
	return board + "_measurements.json"
}

// BoardDir is <root>/boards/<name>.
func BoardDir(root, board string) string {
	return filepath.Join(root, BoardsDir, board)
}

// ManifestPath is <root>/boards/<name>/<name>.json.
func ManifestPath(root, board string) string {
	return filepath.Join(BoardDir(root, board), ManifestFileName(board))
}
