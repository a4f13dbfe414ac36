package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce coalesces the burst of write events most editors emit
// when saving a file.
const reloadDebounce = 200 * time.Millisecond

// Watcher reloads the settings file when it changes on disk. The parent
// directory is watched rather than the file itself, so atomic
// rename-over-save (the common editor pattern) is still seen.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	handler func(Settings)

	mu      sync.Mutex
	pending *time.Timer
	closed  bool

	done chan struct{}
}

// Watch starts watching path and calls handler with the reloaded
// settings after each change. The handler runs on the watcher's
// goroutine.
func Watch(path string, handler func(Settings)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    abs,
		fsw:     fsw,
		handler: handler,
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Close stops the watcher. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
	}
	w.mu.Unlock()

	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			// Watch errors are transient on the platforms that emit
			// them; keep watching.
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(reloadDebounce, w.reload)
}

func (w *Watcher) reload() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	s, err := Load(w.path)
	if err != nil {
		// A half-written or malformed file keeps the previous
		// settings in effect.
		return
	}
	w.handler(s)
}
