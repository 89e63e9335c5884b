package script

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher hot-reloads scripted tools. It watches a root directory of tool
// directories; a change to any file inside a tool directory reloads that
// tool, and removing the directory unloads it.
type Watcher struct {
	loader *Loader
	logger Logger

	// onLoad receives every freshly (re)loaded tool; onRemove receives the
	// id of a removed tool. Both run on the watcher goroutine.
	onLoad   func(*Tool)
	onRemove func(id string)

	fsw  *fsnotify.Watcher
	root string

	mu     sync.Mutex
	ids    map[string]string // tool dir -> registered tool id
	closed bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher creates a watcher over a loader. onLoad must not be nil;
// onRemove may be.
func NewWatcher(loader *Loader, logger Logger, onLoad func(*Tool), onRemove func(id string)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("script watcher: %w", err)
	}
	return &Watcher{
		loader:   loader,
		logger:   logger,
		onLoad:   onLoad,
		onRemove: onRemove,
		fsw:      fsw,
		ids:      make(map[string]string),
		done:     make(chan struct{}),
	}, nil
}

// Watch loads every tool under root, starts watching for changes, and
// returns the initial tools.
func (w *Watcher) Watch(root string) ([]*Tool, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrWatcherClosed
	}
	w.root = root
	w.mu.Unlock()

	tools, err := w.loader.Discover(root)
	if err != nil {
		return nil, err
	}

	if err := w.fsw.Add(root); err != nil {
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}

	w.mu.Lock()
	for _, t := range tools {
		dir := t.Manifest.Path()
		w.ids[dir] = t.Manifest.ID
		if err := w.fsw.Add(dir); err != nil && w.logger != nil {
			w.logger.Warn("tool directory not watched", "dir", dir, "error", err)
		}
	}
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run()
	return tools, nil
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// run is the watch loop.
func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if w.logger != nil {
				w.logger.Error("script watch error", "error", err)
			}
		}
	}
}

// handle maps one filesystem event onto a reload or unload.
func (w *Watcher) handle(ev fsnotify.Event) {
	dir := w.toolDir(ev.Name)
	if dir == "" {
		return
	}

	if ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
		if _, err := os.Stat(dir); err == nil {
			// A file inside the directory went away; reload what remains.
			w.reload(dir)
			return
		}
		w.unload(dir)
		return
	}

	if ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			// New tool directory under the root.
			if err := w.fsw.Add(ev.Name); err != nil && w.logger != nil {
				w.logger.Warn("tool directory not watched", "dir", ev.Name, "error", err)
			}
		}
		w.reload(dir)
	}
}

// toolDir resolves an event path to the tool directory directly under root.
func (w *Watcher) toolDir(path string) string {
	w.mu.Lock()
	root := w.root
	w.mu.Unlock()

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	first := rel
	if i := strings.IndexByte(rel, byte(filepath.Separator)); i >= 0 {
		first = rel[:i]
	}
	return filepath.Join(root, first)
}

// reload loads a tool directory and hands the result to onLoad.
func (w *Watcher) reload(dir string) {
	t, err := w.loader.Load(dir)
	if err != nil {
		if w.logger != nil {
			w.logger.Warn("tool reload failed", "dir", dir, "error", err)
		}
		return
	}

	w.mu.Lock()
	w.ids[dir] = t.Manifest.ID
	w.mu.Unlock()

	w.onLoad(t)
}

// unload forgets a removed tool directory and notifies onRemove.
func (w *Watcher) unload(dir string) {
	w.mu.Lock()
	id, ok := w.ids[dir]
	delete(w.ids, dir)
	w.mu.Unlock()

	if ok && w.onRemove != nil {
		w.onRemove(id)
	}
}
