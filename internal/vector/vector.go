package vector

import (
	"context"

	"github.com/dshills/gonotes-mcp/pkg/types"
)

// Index is the narrow contract the notes system has with its semantic
// search backend. Entries are keyed by the "project/title" composite
// ID and always hold the latest version of a note.
//
// Unlike the version store, Delete here is idempotent: removing an
// absent key is a no-op, because the index is a derived cache that may
// legitimately lag behind the store.
type Index interface {
	// AddOrUpdate upserts the embedding for a note's latest content.
	AddOrUpdate(ctx context.Context, project, title, content string, metadata map[string]string) error

	// Delete removes a note's entry. Missing keys are not an error.
	Delete(ctx context.Context, project, title string) error

	// Search returns up to limit notes nearest to the query, closest
	// first. An empty project searches all projects.
	Search(ctx context.Context, query, project string, limit int) ([]types.SemanticResult, error)

	// RebuildAll clears the index and re-adds every note's latest
	// version from the store. Returns the number of notes indexed.
	RebuildAll(ctx context.Context) (int, error)

	// Close releases backend resources.
	Close() error
}

// NoteID builds the composite key for a note.
func NoteID(project, title string) string {
	return project + "/" + title
}

// Noop is the null-object Index used when no embedding backend is
// available. Mutations are silently dropped and searches return
// nothing, so callers never need to special-case a missing backend.
type Noop struct{}

// NewNoop creates the no-op index.
func NewNoop() *Noop { return &Noop{} }

func (*Noop) AddOrUpdate(_ context.Context, _, _, _ string, _ map[string]string) error { return nil }
func (*Noop) Delete(_ context.Context, _, _ string) error                              { return nil }
func (*Noop) Search(_ context.Context, _, _ string, _ int) ([]types.SemanticResult, error) {
	return nil, nil
}
func (*Noop) RebuildAll(_ context.Context) (int, error) { return 0, nil }
func (*Noop) Close() error                              { return nil }
