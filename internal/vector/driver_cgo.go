//go:build sqlite_vec
// +build sqlite_vec

package vector

// Compiled when building with CGO and the sqlite_vec tag. Vector
// distances are computed inside SQLite by the sqlite-vec extension.
//
// Build command:
//   CGO_ENABLED=1 go build -tags sqlite_vec ./...

import (
	sqlitevec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

const (
	// DriverName is the SQLite driver to use
	DriverName = "sqlite3"

	// VectorExtensionAvailable indicates if the sqlite-vec extension is compiled in
	VectorExtensionAvailable = true

	// BuildMode describes the current build configuration
	BuildMode = "cgo"
)

func init() {
	// Register sqlite-vec for every connection opened from here on.
	sqlitevec.Auto()
}
