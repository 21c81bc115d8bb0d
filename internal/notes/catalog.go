package notes

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/gonotes-mcp/pkg/types"
)

// The catalog is a derived view over the on-disk namespace: project
// lists and per-project latest-version summaries, computed by scanning
// directories and parsing version filenames. It holds no state of its
// own, so it can never disagree with the store for long - the next scan
// reflects whatever the filesystem holds.

// ListProjects returns the display names of every project, sorted.
func (s *Store) ListProjects(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read base directory: %w", err)
	}

	projects := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			projects = append(projects, Display(e.Name()))
		}
	}
	sort.Strings(projects)
	return projects, nil
}

// ListNotes returns every note in a project with its latest version
// timestamp, sorted by title. An absent project yields an empty slice.
func (s *Store) ListNotes(ctx context.Context, project string) ([]types.NoteSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	safeProject := Sanitize(project)
	if safeProject == "" {
		return nil, fmt.Errorf("%w: project must contain at least one letter or digit", ErrInvalidName)
	}

	entries, err := os.ReadDir(filepath.Join(s.baseDir, safeProject))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []types.NoteSummary{}, nil
		}
		return nil, fmt.Errorf("failed to read project directory: %w", err)
	}

	latest := make(map[string]string) // display title -> sanitized stamp
	for _, e := range entries {
		title, stamp, ok := splitUnitName(e.Name())
		if !ok || e.IsDir() {
			continue
		}
		if prev, seen := latest[title]; !seen || stamp > prev {
			latest[title] = stamp
		}
	}

	summaries := make([]types.NoteSummary, 0, len(latest))
	for title, stamp := range latest {
		summaries = append(summaries, types.NoteSummary{
			Title:         Display(title),
			LatestVersion: displayTimestamp(stamp),
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Title < summaries[j].Title })
	return summaries, nil
}

// AllNotes enumerates every version file across every project. It is the
// feed for full index rebuilds; callers group by (project, title) and
// keep the maximum timestamp to obtain the latest-version view.
func (s *Store) AllNotes(ctx context.Context) ([]types.NoteRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dirs, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read base directory: %w", err)
	}

	var refs []types.NoteRef
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		project := Display(d.Name())
		projectDir := filepath.Join(s.baseDir, d.Name())

		entries, err := os.ReadDir(projectDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read project directory: %w", err)
		}
		for _, e := range entries {
			title, stamp, ok := splitUnitName(e.Name())
			if !ok || e.IsDir() {
				continue
			}
			refs = append(refs, types.NoteRef{
				Project:   project,
				Title:     Display(title),
				Path:      filepath.Join(projectDir, e.Name()),
				Timestamp: displayTimestamp(stamp),
			})
		}
	}
	return refs, nil
}

// ReadContent reads one version file. Index rebuilds use it to load the
// latest content of each note.
func (s *Store) ReadContent(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read version file: %w", err)
	}
	return string(content), nil
}

// splitUnitName parses a version filename into its sanitized title and
// timestamp parts. The timestamp is everything after the last
// underscore; this must agree with the naming scheme used by Store.
func splitUnitName(name string) (title, stamp string, ok bool) {
	if !strings.HasSuffix(name, unitExt) {
		return "", "", false
	}
	stem := strings.TrimSuffix(name, unitExt)
	i := strings.LastIndexByte(stem, '_')
	if i <= 0 || i == len(stem)-1 {
		return "", "", false
	}
	return stem[:i], stem[i+1:], true
}
