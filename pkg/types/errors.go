package types

import "errors"

// Error kinds surfaced by the engine. Callers match them with errors.Is;
// the HTTP layer maps each to a status code.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrBadRequest  = errors.New("bad request")
	ErrIO          = errors.New("filesystem failure")
	ErrParse       = errors.New("parse failure")
	ErrNoWorkspace = errors.New("no ADJ path set")
)
