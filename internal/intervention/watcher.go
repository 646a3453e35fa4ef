package intervention

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/fsnotify/fsnotify"
)

// Watcher wakes the tick driver between ticks when a new file appears in
// the watched directory. It is a pure liveness optimization: the actual
// application of pending files is a synchronous, lexicographically-ordered
// directory scan performed by Drain, never driven by the fsnotify event
// itself, so determinism never depends on filesystem event delivery order.
type Watcher struct {
	dir     string
	watcher *fsnotify.Watcher
}

// NewWatcher creates the intervention directory (and its rejected/
// subdirectory) if needed and starts watching it.
func NewWatcher(dir string) (*Watcher, error) {
	if err := os.MkdirAll(filepath.Join(dir, "rejected"), 0755); err != nil {
		return nil, fmt.Errorf("intervention: create dir %s: %w", dir, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("intervention: new fsnotify watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("intervention: watch %s: %w", dir, err)
	}
	return &Watcher{dir: dir, watcher: fw}, nil
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error { return w.watcher.Close() }

// Pending drains any buffered fsnotify events without blocking, returning
// whether anything was observed since the last call. The caller is not
// required to check this before calling Drain; it exists only so a driver
// with a long idle tick interval can skip the directory scan entirely when
// nothing has happened, without changing the set of files Drain would find.
func (w *Watcher) Pending() bool {
	select {
	case _, ok := <-w.watcher.Events:
		return ok
	case err, ok := <-w.watcher.Errors:
		if ok {
			slog.Warn("intervention watcher error", "error", err)
		}
		return false
	default:
		return false
	}
}

// Drain performs the synchronous, lexicographically-ordered directory scan
// that actually applies pending intervention files. Applied and rejected
// files are removed from dir (rejected ones moved to dir/rejected instead
// of deleted, so an operator can inspect what went wrong).
func (w *World) Drain(dir string, tick uint64, onApplied func(Decoded, Result), onRejected func(name string, err error)) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("intervention: read dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("intervention: read failed", "file", name, "error", err)
			continue
		}

		decoded, err := Decode(raw)
		if err != nil {
			slog.Warn("intervention: rejected malformed file", "file", name, "error", err)
			rejectPath := filepath.Join(dir, "rejected", name)
			if renameErr := os.Rename(path, rejectPath); renameErr != nil {
				slog.Warn("intervention: failed to move rejected file", "file", name, "error", renameErr)
			}
			if onRejected != nil {
				onRejected(name, err)
			}
			continue
		}

		result, err := Apply(w, decoded, tick)
		if err != nil {
			slog.Warn("intervention: rejected at apply time", "file", name, "error", err)
			rejectPath := filepath.Join(dir, "rejected", name)
			if renameErr := os.Rename(path, rejectPath); renameErr != nil {
				slog.Warn("intervention: failed to move rejected file", "file", name, "error", renameErr)
			}
			if onRejected != nil {
				onRejected(name, err)
			}
			continue
		}

		if removeErr := os.Remove(path); removeErr != nil {
			slog.Warn("intervention: failed to remove applied file", "file", name, "error", removeErr)
		}
		if onApplied != nil {
			onApplied(decoded, result)
		}
	}
	return nil
}
