package store

import (
	"os"
	"time"
)

// Watcher tracks the holdings file's last-modified marker so the reconciler
// can detect edits once per cycle. The marker only advances via Commit, so a
// reload that fails validation is retried on the next cycle.
type Watcher struct {
	path  string
	mtime time.Time
}

func NewWatcher(path string) *Watcher {
	w := &Watcher{path: path}
	if info, err := os.Stat(path); err == nil {
		w.mtime = info.ModTime()
	}
	return w
}

// Poll reports whether the file changed since the last committed marker.
func (w *Watcher) Poll() (bool, time.Time) {
	info, err := os.Stat(w.path)
	if err != nil {
		return false, w.mtime
	}
	mt := info.ModTime()
	if mt.After(w.mtime) {
		return true, mt
	}
	return false, w.mtime
}

// Commit records a successfully applied marker.
func (w *Watcher) Commit(mtime time.Time) {
	w.mtime = mtime
}
