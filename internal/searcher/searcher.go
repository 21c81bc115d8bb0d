package searcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/gonotes-mcp/internal/notes"
	"github.com/dshills/gonotes-mcp/pkg/types"
)

const (
	// DefaultThreshold is the minimum partial-ratio score (0-100) a note
	// must reach to appear in search results.
	DefaultThreshold = 60

	// rebuildReaders bounds how many version files are read concurrently
	// during a rebuild.
	rebuildReaders = 8
)

// ErrRebuildInProgress is returned when a rebuild is requested while
// another one is still running.
var ErrRebuildInProgress = errors.New("index rebuild already in progress")

// indexedNote is one note's latest version as captured by a rebuild.
type indexedNote struct {
	Project   string
	Title     string
	Content   string
	Timestamp string
	Path      string
}

// snapshot is one immutable generation of the index. Searches iterate
// notes in the order the rebuild encountered them, which keeps tie
// ranking stable across queries against the same generation.
type snapshot struct {
	all       []indexedNote
	byProject map[string][]int // project -> indexes into all
}

// Index is the in-memory fuzzy search structure over the latest version
// of every note. It is rebuilt wholesale after each mutation and
// published as a single atomic pointer swap, so concurrent readers see
// either the previous complete generation or the new one, never a
// half-built state.
type Index struct {
	store  *notes.Store
	logger *log.Logger
	snap   atomic.Pointer[snapshot]
	lock   rebuildLock
}

// New creates an Index over the given store. The index is empty until
// the first Rebuild.
func New(store *notes.Store, logger *log.Logger) *Index {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Index{store: store, logger: logger}
}

// Count reports how many notes the current generation holds.
func (ix *Index) Count() int {
	snap := ix.snap.Load()
	if snap == nil {
		return 0
	}
	return len(snap.all)
}

// Rebuild scans every note, keeps the latest version per (project,
// title), reads its content, and swaps in a fresh snapshot. It returns
// the number of notes indexed. A rebuild racing with a store or delete
// may or may not observe that mutation, but the published snapshot is
// always internally consistent.
func (ix *Index) Rebuild(ctx context.Context) (int, error) {
	if !ix.lock.TryAcquire() {
		return 0, ErrRebuildInProgress
	}
	defer ix.lock.Release()

	refs, err := ix.store.AllNotes(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to enumerate notes: %w", err)
	}

	// Latest version per (project, title), preserving first-seen order.
	type key struct{ project, title string }
	latest := make(map[key]types.NoteRef, len(refs))
	var order []key
	for _, ref := range refs {
		k := key{ref.Project, ref.Title}
		prev, seen := latest[k]
		if !seen {
			order = append(order, k)
		}
		if !seen || ref.Timestamp > prev.Timestamp {
			latest[k] = ref
		}
	}

	fresh := &snapshot{
		all:       make([]indexedNote, len(order)),
		byProject: make(map[string][]int),
	}
	skipped := make([]bool, len(order))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rebuildReaders)
	for i, k := range order {
		ref := latest[k]
		g.Go(func() error {
			content, err := ix.store.ReadContent(gctx, ref.Path)
			if err != nil {
				// A delete racing with this rebuild already removed the
				// file; the note simply isn't part of this generation.
				if errors.Is(err, fs.ErrNotExist) {
					skipped[i] = true
					return nil
				}
				return err
			}
			fresh.all[i] = indexedNote{
				Project:   ref.Project,
				Title:     ref.Title,
				Content:   content,
				Timestamp: ref.Timestamp,
				Path:      ref.Path,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("failed to read note contents: %w", err)
	}

	if n := compactSkipped(fresh, skipped); n > 0 {
		ix.logger.Debug("skipped vanished notes during rebuild", "count", n)
	}
	for i, note := range fresh.all {
		fresh.byProject[note.Project] = append(fresh.byProject[note.Project], i)
	}

	ix.snap.Store(fresh)
	ix.logger.Debug("index rebuilt", "notes", len(fresh.all))
	return len(fresh.all), nil
}

// compactSkipped drops entries flagged as skipped, keeping order.
// Returns how many were dropped.
func compactSkipped(snap *snapshot, skipped []bool) int {
	dropped := 0
	kept := snap.all[:0]
	for i := range snap.all {
		if skipped[i] {
			dropped++
			continue
		}
		kept = append(kept, snap.all[i])
	}
	snap.all = kept
	return dropped
}

// Search scores every indexed note against the query and returns those
// at or above threshold, best first. The score is the greater of the
// query's partial-ratio similarity to the title and to the content,
// case-insensitive. An empty project searches everything; a threshold
// of zero or below falls back to DefaultThreshold.
func (ix *Index) Search(query, project string, threshold int) []types.SearchResult {
	if query == "" {
		return nil
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	snap := ix.snap.Load()
	if snap == nil {
		return nil
	}

	candidates := make([]int, 0, len(snap.all))
	if project != "" {
		candidates = append(candidates, snap.byProject[project]...)
	} else {
		for i := range snap.all {
			candidates = append(candidates, i)
		}
	}

	q := strings.ToLower(query)
	var results []types.SearchResult
	for _, i := range candidates {
		note := snap.all[i]

		titleScore := fuzzy.PartialRatio(q, strings.ToLower(note.Title))
		contentScore := fuzzy.PartialRatio(q, strings.ToLower(note.Content))
		best := titleScore
		if contentScore > best {
			best = contentScore
		}

		if best >= threshold {
			results = append(results, types.SearchResult{
				Project: note.Project,
				Title:   note.Title,
				Content: note.Content,
				Score:   best,
				Excerpt: makeExcerpt(note.Content, query),
			})
		}
	}

	sort.SliceStable(results, func(a, b int) bool { return results[a].Score > results[b].Score })
	return results
}
