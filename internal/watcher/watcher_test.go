package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, baseDir string, rebuilds *atomic.Int32) context.CancelFunc {
	t.Helper()

	w, err := New(baseDir, 50*time.Millisecond, func(context.Context) error {
		rebuilds.Add(1)
		return nil
	}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop")
		}
	})

	// Give the watcher a moment to establish its watches.
	time.Sleep(100 * time.Millisecond)
	return cancel
}

func waitForRebuilds(t *testing.T, rebuilds *atomic.Int32, want int32) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if rebuilds.Load() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected at least %d rebuilds, got %d", want, rebuilds.Load())
}

func TestNewRequiresCallback(t *testing.T) {
	_, err := New(t.TempDir(), 0, nil, nil)
	assert.Error(t, err)
}

func TestRebuildAfterFileWrite(t *testing.T) {
	baseDir := t.TempDir()
	projectDir := filepath.Join(baseDir, "infra")
	require.NoError(t, os.MkdirAll(projectDir, 0o755))

	var rebuilds atomic.Int32
	startWatcher(t, baseDir, &rebuilds)

	path := filepath.Join(projectDir, "docker_2024-01-01T10-00-00.000000.md")
	require.NoError(t, os.WriteFile(path, []byte("container notes"), 0o644))

	waitForRebuilds(t, &rebuilds, 1)
}

func TestBurstDebouncesToOneRebuild(t *testing.T) {
	baseDir := t.TempDir()
	projectDir := filepath.Join(baseDir, "infra")
	require.NoError(t, os.MkdirAll(projectDir, 0o755))

	var rebuilds atomic.Int32
	startWatcher(t, baseDir, &rebuilds)

	for i := 0; i < 5; i++ {
		name := filepath.Join(projectDir, "note_2024-01-01T10-00-0"+string(rune('0'+i))+".000000.md")
		require.NoError(t, os.WriteFile(name, []byte("burst"), 0o644))
	}

	waitForRebuilds(t, &rebuilds, 1)
	// The burst coalesces: far fewer rebuilds than writes.
	time.Sleep(200 * time.Millisecond)
	assert.Less(t, rebuilds.Load(), int32(5))
}

func TestNewProjectDirectoryIsWatched(t *testing.T) {
	baseDir := t.TempDir()

	var rebuilds atomic.Int32
	startWatcher(t, baseDir, &rebuilds)

	projectDir := filepath.Join(baseDir, "fresh project")
	require.NoError(t, os.MkdirAll(projectDir, 0o755))
	waitForRebuilds(t, &rebuilds, 1)

	// Files inside the new directory also trigger rebuilds.
	path := filepath.Join(projectDir, "first_2024-01-01T10-00-00.000000.md")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	waitForRebuilds(t, &rebuilds, 2)
}

func TestIgnoresForeignFiles(t *testing.T) {
	baseDir := t.TempDir()
	projectDir := filepath.Join(baseDir, "infra")
	require.NoError(t, os.MkdirAll(projectDir, 0o755))

	var rebuilds atomic.Int32
	startWatcher(t, baseDir, &rebuilds)

	require.NoError(t, os.WriteFile(filepath.Join(projectDir, ".hidden.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "notes.txt"), []byte("x"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, rebuilds.Load())
}
