// Package searcher implements the in-memory fuzzy search index over
// note contents.
//
// The index maps every (project, title) pair to its latest version's
// content and answers ranked queries using partial-ratio fuzzy
// similarity: the best-aligned substring match between the query and
// the target, scored 0-100. A note matches when either its title or
// its content scores at or above the threshold (60 by default).
//
// # Rebuild Semantics
//
// The index is never updated incrementally. Every mutation triggers a
// wholesale rebuild from the store's latest-version view, and the new
// generation becomes visible to readers as a single atomic pointer
// swap. Concurrent rebuilds are rejected with ErrRebuildInProgress;
// concurrent reads are always safe.
//
//	ix := searcher.New(store, logger)
//	count, err := ix.Rebuild(ctx)
//	results := ix.Search("docker compose", "", searcher.DefaultThreshold)
//
// # Excerpts
//
// Each result carries an excerpt: a window of up to 150 characters on
// either side of the first literal occurrence of the query, or the
// first 300 characters of the note when the match was inexact.
package searcher
