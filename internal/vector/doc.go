// Package vector provides the semantic search index: note contents are
// embedded and stored in SQLite, and queries return the nearest notes
// by cosine distance. When no embedding backend is configured the Noop
// implementation stands in and the rest of the system behaves as if
// semantic search simply returns nothing.
package vector
