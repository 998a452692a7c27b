package assets

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/payb0y/lindo-clean/pkg/patch"
)

// Watcher reports file changes under a directory tree. Events are debounced
// and delivered as one batch of relative paths.
type Watcher struct {
	root     string
	debounce time.Duration
	onChange func(patch.AssetsChanged)
	logger   *slog.Logger
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

// NewWatcher watches root and every directory below it.
func NewWatcher(root string, debounce time.Duration, onChange func(patch.AssetsChanged), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w := &Watcher{
		root:     root,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		watcher:  fw,
		pending:  map[string]struct{}{},
	}
	if err := w.addTree(root); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

// Run delivers changes until ctx ends, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("asset watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return
	}
	if ev.Has(fsnotify.Create) {
		// new directories must be watched too
		_ = w.addTree(ev.Name)
	}
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		rel = ev.Name
	}
	w.logger.Debug("asset event", "event", ev.Op.String(), "file", rel)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[filepath.ToSlash(rel)] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = map[string]struct{}{}
	w.mu.Unlock()
	if len(paths) == 0 || w.onChange == nil {
		return
	}
	slices.Sort(paths)
	w.onChange(patch.AssetsChanged{Root: filepath.Base(w.root), Paths: paths})
}
