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

	"github.com/charmbracelet/log"

	"github.com/dshills/gonotes-mcp/pkg/types"
)

var (
	// ErrNotFound is returned when a requested note or version doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidName is returned when a project or title sanitizes to nothing
	ErrInvalidName = errors.New("invalid name")
	// ErrEmptyContent is returned when storing a note with no content
	ErrEmptyContent = errors.New("content cannot be empty")
)

// unitExt is the extension of every stored version file
const unitExt = ".md"

// Store persists versioned notes on a hierarchical filesystem namespace:
// one directory per sanitized project, one file per version named
// <safe_title>_<safe_timestamp>.md. Versions are immutable; the only
// state transitions are file creation and file removal, so concurrent
// writers never contend on the same unit.
type Store struct {
	baseDir string
	clock   versionClock
	logger  *log.Logger
}

// New creates a Store rooted at baseDir, creating the directory if needed.
func New(baseDir string, logger *log.Logger) (*Store, error) {
	if baseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &Store{baseDir: baseDir, logger: logger}, nil
}

// BaseDir returns the root of the on-disk namespace.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// Store writes a new immutable version of (project, title) and returns
// its path and version timestamp. The timestamp comes from a strictly
// monotonic clock and the file is created with O_EXCL, so a racing
// writer in another process causes a retry on the next tick rather
// than a silent overwrite.
func (s *Store) Store(ctx context.Context, project, title, content string) (string, string, error) {
	safeProject := Sanitize(project)
	safeTitle := Sanitize(title)
	if safeProject == "" || safeTitle == "" {
		return "", "", fmt.Errorf("%w: project and title must contain at least one letter or digit", ErrInvalidName)
	}
	if content == "" {
		return "", "", ErrEmptyContent
	}

	projectDir := filepath.Join(s.baseDir, safeProject)
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create project directory: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", "", err
		}

		stamp := s.clock.Next().Format(timestampLayout)
		path := filepath.Join(projectDir, safeTitle+"_"+sanitizeTimestamp(stamp)+unitExt)

		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, fs.ErrExist) {
			// Another process claimed this tick; take the next one.
			continue
		}
		if err != nil {
			return "", "", fmt.Errorf("failed to create version file: %w", err)
		}

		if _, err := f.WriteString(content); err != nil {
			_ = f.Close()
			// Don't leave a truncated unit behind.
			_ = os.Remove(path)
			return "", "", fmt.Errorf("failed to write version file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", "", fmt.Errorf("failed to close version file: %w", err)
		}

		s.logger.Debug("stored version", "project", safeProject, "title", safeTitle, "version", stamp)
		return path, stamp, nil
	}
}

// Retrieve returns the requested version of a note, or the latest one
// when version is empty. The version argument accepts the ISO timestamp
// as returned by Store, Retrieve, or ListNotes.
func (s *Store) Retrieve(ctx context.Context, project, title, version string) (types.Note, error) {
	units, err := s.units(project, title)
	if err != nil {
		return types.Note{}, err
	}
	if len(units) == 0 {
		return types.Note{}, fmt.Errorf("note %q in project %q: %w", title, project, ErrNotFound)
	}

	target := units[0]
	if version != "" {
		want := sanitizeTimestamp(version)
		found := false
		for _, u := range units {
			if u.stamp == want {
				target = u
				found = true
				break
			}
		}
		if !found {
			return types.Note{}, fmt.Errorf("version %q of note %q in project %q: %w", version, title, project, ErrNotFound)
		}
	}

	if err := ctx.Err(); err != nil {
		return types.Note{}, err
	}
	content, err := os.ReadFile(target.path)
	if err != nil {
		return types.Note{}, fmt.Errorf("failed to read version file: %w", err)
	}

	return types.Note{
		Project:   project,
		Title:     title,
		Content:   string(content),
		Timestamp: displayTimestamp(target.stamp),
		Path:      target.path,
	}, nil
}

// Versions lists a note's version timestamps, newest first. A note with
// no versions yields an empty slice, not an error.
func (s *Store) Versions(ctx context.Context, project, title string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	units, err := s.units(project, title)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(units))
	for _, u := range units {
		out = append(out, displayTimestamp(u.stamp))
	}
	return out, nil
}

// Delete removes one version of a note, or every version when version
// is empty. Deleting a note that has no versions is an error, not a
// no-op. A delete-all interrupted by an I/O failure returns the units
// removed so far alongside the error; callers should treat that as a
// recoverable partial state.
func (s *Store) Delete(ctx context.Context, project, title, version string) (types.DeleteResult, error) {
	var res types.DeleteResult

	units, err := s.units(project, title)
	if err != nil {
		return res, err
	}
	if len(units) == 0 {
		return res, fmt.Errorf("note %q in project %q: %w", title, project, ErrNotFound)
	}

	if version != "" {
		want := sanitizeTimestamp(version)
		for _, u := range units {
			if u.stamp == want {
				if err := os.Remove(u.path); err != nil {
					return res, fmt.Errorf("failed to delete version file: %w", err)
				}
				s.logger.Debug("deleted version", "project", project, "title", title, "version", version)
				res.Count = 1
				res.Paths = []string{u.path}
				return res, nil
			}
		}
		return res, fmt.Errorf("version %q of note %q in project %q: %w", version, title, project, ErrNotFound)
	}

	for _, u := range units {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := os.Remove(u.path); err != nil {
			return res, fmt.Errorf("deleted %d of %d versions: %w", res.Count, len(units), err)
		}
		res.Count++
		res.Paths = append(res.Paths, u.path)
	}
	s.logger.Debug("deleted note", "project", project, "title", title, "versions", res.Count)
	return res, nil
}

// unit is one version file, identified by its sanitized timestamp.
// Sanitized timestamps sort lexicographically in chronological order.
type unit struct {
	path  string
	stamp string
}

// units enumerates the version files of (project, title), newest first.
// A missing project directory is treated as zero units. Files whose
// parsed timestamp contains an underscore belong to a longer title that
// happens to share this title as a prefix, and are skipped.
func (s *Store) units(project, title string) ([]unit, error) {
	safeProject := Sanitize(project)
	safeTitle := Sanitize(title)
	if safeProject == "" || safeTitle == "" {
		return nil, fmt.Errorf("%w: project and title must contain at least one letter or digit", ErrInvalidName)
	}

	projectDir := filepath.Join(s.baseDir, safeProject)
	entries, err := os.ReadDir(projectDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read project directory: %w", err)
	}

	prefix := safeTitle + "_"
	var out []unit
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, unitExt) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), unitExt)
		if stamp == "" || strings.ContainsRune(stamp, '_') {
			continue
		}
		out = append(out, unit{path: filepath.Join(projectDir, name), stamp: stamp})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].stamp > out[j].stamp })
	return out, nil
}
