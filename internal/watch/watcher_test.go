package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitForCount(t *testing.T, counter *atomic.Int64, want int64, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if counter.Load() >= want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.GreaterOrEqual(t, counter.Load(), want, "rebuild count")
}

func TestRun_FileChangeTriggersRebuild(t *testing.T) {
	src := t.TempDir()

	var rebuilds atomic.Int64
	w := New(src, 50*time.Millisecond, func(context.Context) error {
		rebuilds.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to arm before writing.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(src, "page.md"), []byte("x"), 0o644))

	waitForCount(t, &rebuilds, 1, 5*time.Second)

	cancel()
	require.NoError(t, <-done)
}

func TestRun_BurstOfTriggersCoalescesIntoOneRebuild(t *testing.T) {
	src := t.TempDir()

	var rebuilds atomic.Int64
	w := New(src, 100*time.Millisecond, func(context.Context) error {
		rebuilds.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for range 10 {
		w.Trigger()
		time.Sleep(5 * time.Millisecond)
	}

	waitForCount(t, &rebuilds, 1, 5*time.Second)
	// The quiet window restarts on every trigger, so the burst collapses
	// into a single rebuild.
	time.Sleep(300 * time.Millisecond)
	require.Equal(t, int64(1), rebuilds.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestRun_FailedRebuildKeepsWatching(t *testing.T) {
	src := t.TempDir()

	var rebuilds atomic.Int64
	w := New(src, 20*time.Millisecond, func(context.Context) error {
		rebuilds.Add(1)
		return os.ErrPermission
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	w.Trigger()
	waitForCount(t, &rebuilds, 1, 5*time.Second)
	w.Trigger()
	waitForCount(t, &rebuilds, 2, 5*time.Second)

	cancel()
	require.NoError(t, <-done)
}

func TestRun_MissingSourceDirectory_ReturnsError(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "nope"), 0, func(context.Context) error { return nil })
	require.Error(t, w.Run(context.Background()))
}

func TestRun_CancelStopsWatcher(t *testing.T) {
	w := New(t.TempDir(), 0, func(context.Context) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}
}
