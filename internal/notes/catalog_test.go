package notes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProjects(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	projects, err := s.ListProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)

	_, _, err = s.Store(ctx, "Python Learning", "Note", "content")
	require.NoError(t, err)
	_, _, err = s.Store(ctx, "Go", "Note", "content")
	require.NoError(t, err)

	projects, err = s.ListProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Python Learning"}, projects)
}

func TestListNotesLatestPerTitle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.Store(ctx, "Python", "Async", "v1")
	require.NoError(t, err)
	_, latest, err := s.Store(ctx, "Python", "Async", "v2")
	require.NoError(t, err)
	_, _, err = s.Store(ctx, "Python", "Decorators", "v1")
	require.NoError(t, err)

	summaries, err := s.ListNotes(ctx, "Python")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "Async", summaries[0].Title)
	assert.Equal(t, latest, summaries[0].LatestVersion)
	assert.Equal(t, "Decorators", summaries[1].Title)
}

func TestListNotesAbsentProject(t *testing.T) {
	s := newTestStore(t)

	summaries, err := s.ListNotes(context.Background(), "Never Stored")
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

func TestAllNotesSpansProjects(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.Store(ctx, "Python", "Async", "v1")
	require.NoError(t, err)
	_, _, err = s.Store(ctx, "Python", "Async", "v2")
	require.NoError(t, err)
	_, _, err = s.Store(ctx, "Go Notes", "Channels", "v1")
	require.NoError(t, err)

	refs, err := s.AllNotes(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 3)

	byProject := map[string]int{}
	for _, ref := range refs {
		byProject[ref.Project]++
		assert.NotEmpty(t, ref.Timestamp)
		assert.FileExists(t, ref.Path)
	}
	assert.Equal(t, 2, byProject["Python"])
	assert.Equal(t, 1, byProject["Go Notes"])
}

func TestSplitUnitName(t *testing.T) {
	title, stamp, ok := splitUnitName("AsyncIO_Basics_2025-08-28T14-03-02.118204.md")
	require.True(t, ok)
	assert.Equal(t, "AsyncIO_Basics", title)
	assert.Equal(t, "2025-08-28T14-03-02.118204", stamp)

	_, _, ok = splitUnitName("README.md")
	assert.False(t, ok)

	_, _, ok = splitUnitName("no-extension_2025")
	assert.False(t, ok)
}
