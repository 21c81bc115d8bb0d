// Package notes implements versioned note storage on a plain filesystem
// namespace.
//
// # On-Disk Layout
//
// One directory per sanitized project name under the base directory, one
// file per version:
//
//	<base>/<safe_project>/<safe_title>_<safe_timestamp>.md
//
// Timestamps are ISO-8601 with microseconds, colons replaced by hyphens
// so they remain valid filename segments and sort lexicographically in
// chronological order. This layout is a compatibility contract: external
// tools browse the directory directly.
//
// # Versioning
//
// Every store creates a new file; nothing is ever rewritten in place.
// Version timestamps come from a strictly monotonic per-process clock
// and files are created with O_EXCL, so rapid successive writes and
// cross-process races both surface as new versions, never as silent
// overwrites.
//
// # Errors
//
// Lookups that match nothing return ErrNotFound, distinguishable from
// I/O failure via errors.Is. Names that sanitize to an empty identifier
// are rejected with ErrInvalidName before any path is touched.
package notes
