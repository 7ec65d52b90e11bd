// Package main provides the adjvalet CLI: the HTTP backend for the ADJ
// editor plus offline commands over an ADJ tree.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/adjvalet/pkg/types"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "adjvalet:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors caused by the user's input or tree to exitUserError
// and everything else to exitSysError.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrBadRequest),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrConflict),
		errors.Is(err, types.ErrParse),
		errors.Is(err, types.ErrNoWorkspace),
		errors.Is(err, errUsage):
		return exitUserError
	default:
		return exitSysError
	}
}
