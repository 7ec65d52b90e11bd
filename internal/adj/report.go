package adj

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Warning is one problem absorbed during a load: a file that was skipped
// or a board whose manifest fell back to defaults.
type Warning struct {
	Board string
	Path  string
	Err   error
}

func (w Warning) Error() string {
	if w.Board != "" {
		return fmt.Sprintf("board %s: %s: %v", w.Board, w.Path, w.Err)
	}
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}

// Report collects the warnings produced by the loaders. A load that
// returns a non-empty Report still succeeded.
type Report struct {
	Warnings []Warning
}

// Warn records a problem with path.
func (r *Report) Warn(board, path string, err error) {
	r.Warnings = append(r.Warnings, Warning{Board: board, Path: path, Err: err})
}

// Merge appends other's warnings.
func (r *Report) Merge(other Report) {
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// forBoard tags every untagged warning with board.
func (r Report) forBoard(board string) Report {
	for i := range r.Warnings {
		if r.Warnings[i].Board == "" {
			r.Warnings[i].Board = board
		}
	}
	return r
}

// Len returns the number of warnings.
func (r Report) Len() int {
	return len(r.Warnings)
}

// Err combines all warnings into one error, or nil when there are none.
func (r Report) Err() error {
	var err error
	for _, w := range r.Warnings {
		err = multierr.Append(err, w)
	}
	return err
}

func (r Report) log(log *zap.Logger) {
	for _, w := range r.Warnings {
		log.Warn("skipped ADJ input",
			zap.String("board", w.Board),
			zap.String("path", w.Path),
			zap.Error(w.Err),
		)
	}
}
