// Package types defines the ADJ configuration model (general info, boards,
// measurements, packets and the board index) and the standard errors
// shared by the engine, the HTTP layer and the CLI.
//
// The JSON encoding of Configuration is the wire shape the editor front-end
// consumes: boards are a list of single-key objects keyed by board name.
package types
