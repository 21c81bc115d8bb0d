//go:build !sqlite_vec
// +build !sqlite_vec

package vector

// Compiled when building without the sqlite_vec tag. Uses the pure Go
// SQLite driver; nearest-neighbor scans happen in Go instead of inside
// SQLite. Slower, but needs no C compiler.
//
// Build command:
//   CGO_ENABLED=0 go build ./...

import (
	_ "modernc.org/sqlite"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite"

	// VectorExtensionAvailable indicates if the sqlite-vec extension is compiled in
	VectorExtensionAvailable = false

	// BuildMode describes the current build configuration
	BuildMode = "purego"
)
