package api

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bep/debounce"

	"github.com/tactus/partita/internal/logging"
)

// Watcher polls a score file or directory for modification-time changes
// and notifies WebSocket clients. Bursts of writes (editors typically save
// in several syscalls) collapse into one reload event.
type Watcher struct {
	path     string
	interval time.Duration
	hub      *Hub
	stop     chan struct{}
}

// NewWatcher creates a watcher for path broadcasting to hub.
func NewWatcher(path string, hub *Hub) *Watcher {
	return &Watcher{
		path:     path,
		interval: 500 * time.Millisecond,
		hub:      hub,
		stop:     make(chan struct{}),
	}
}

// Run polls until Stop is called.
func (w *Watcher) Run() {
	logging.WatcherEvent("started", w.path)
	debounced := debounce.New(250 * time.Millisecond)

	last := w.latestModTime()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			logging.WatcherEvent("stopped", w.path)
			return
		case <-ticker.C:
			mod := w.latestModTime()
			if mod.After(last) {
				last = mod
				debounced(func() {
					logging.WatcherEvent("changed", w.path)
					w.hub.BroadcastReload(w.path)
				})
			}
		}
	}
}

// Stop terminates the watcher loop.
func (w *Watcher) Stop() {
	close(w.stop)
}

// latestModTime returns the newest modification time under the watched
// path. A missing path yields the zero time, so it quietly resumes when
// the file reappears.
func (w *Watcher) latestModTime() time.Time {
	info, err := os.Stat(w.path)
	if err != nil {
		return time.Time{}
	}
	if !info.IsDir() {
		return info.ModTime()
	}

	var latest time.Time
	filepath.Walk(w.path, func(_ string, fi os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !fi.IsDir() && fi.ModTime().After(latest) {
			latest = fi.ModTime()
		}
		return nil
	})
	return latest
}
