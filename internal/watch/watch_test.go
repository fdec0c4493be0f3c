package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestWatcherFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(path, []byte("before\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var fired atomic.Int32
	w, err := New([]string{dir}, 50*time.Millisecond, zap.NewNop(), func(string) {
		fired.Add(1)
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.Start(context.Background())
	defer w.Stop()

	if err := os.WriteFile(path, []byte("after\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !waitFor(t, 2*time.Second, func() bool { return fired.Load() > 0 }) {
		t.Fatal("handler never fired after a write")
	}
}

func TestWatcherDebouncesRapidWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")

	var fired atomic.Int32
	w, err := New([]string{dir}, time.Second, zap.NewNop(), func(string) {
		fired.Add(1)
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.Start(context.Background())
	defer w.Stop()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("spam\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	waitFor(t, time.Second, func() bool { return fired.Load() > 0 })
	if got := fired.Load(); got > 1 {
		t.Errorf("handler fired %d times within one debounce window, want 1", got)
	}
}

func TestWatcherSuppressesOwnWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.md")

	var fired atomic.Int32
	w, err := New([]string{dir}, 200*time.Millisecond, zap.NewNop(), func(string) {
		fired.Add(1)
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.Start(context.Background())
	defer w.Stop()

	w.MarkOwnWrite(path)
	if err := os.WriteFile(path, []byte("self\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	waitFor(t, 500*time.Millisecond, func() bool {
		return w.Snapshot().Events > 0
	})
	if got := fired.Load(); got != 0 {
		t.Errorf("handler fired %d times for the watcher's own write, want 0", got)
	}
	if s := w.Snapshot(); s.Suppressed == 0 {
		t.Errorf("stats = %+v, want at least one suppressed event", s)
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{dir}, 0, zap.NewNop(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.Start(context.Background())
	w.Stop()
	w.Stop()
}

func TestWatcherMissingPath(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "absent")}, 0, zap.NewNop(), nil)
	if err == nil {
		t.Fatal("expected error for missing watch path")
	}
}
