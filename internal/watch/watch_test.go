package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTarget(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "song_temp_playback.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func waitAsync(w *Watcher, ctx context.Context) <-chan error {
	errc := make(chan error, 1)
	go func() { errc <- w.Wait(ctx) }()
	return errc
}

func TestWatcher_Removed(t *testing.T) {
	target := newTarget(t)
	w, err := New(target)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	errc := waitAsync(w, context.Background())

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(filepath.Dir(target), "other.wav"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(target); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Wait() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Wait() did not return after removal")
	}
}

func TestWatcher_Renamed(t *testing.T) {
	target := newTarget(t)
	w, err := New(target)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	errc := waitAsync(w, context.Background())
	if err := os.Rename(target, target+".moved"); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Wait() error = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Wait() did not return after rename")
	}
}

func TestWatcher_Close(t *testing.T) {
	w, err := New(newTarget(t))
	if err != nil {
		t.Fatal(err)
	}

	errc := waitAsync(w, context.Background())
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	select {
	case err := <-errc:
		if !errors.Is(err, ErrClosed) {
			t.Errorf("Wait() error = %v, want ErrClosed", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Wait() did not return after Close")
	}
}

func TestWatcher_Context(t *testing.T) {
	w, err := New(newTarget(t))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := w.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want deadline exceeded", err)
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope", "a.wav")); err == nil {
		t.Error("New() should fail when the directory does not exist")
	}
}
