package watcher

import (
	"context"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is how long to wait after the last file event before
// emitting. Excel and LibreOffice save through temp-file shuffles that
// fire several events per save; one recompute per save is enough.
const defaultDebounce = 250 * time.Millisecond

// Event is a change to one of the watched spreadsheets.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Watcher monitors source spreadsheets for changes using OS-level
// notifications, so watch mode can recompute the distribution whenever an
// input is edited or replaced. Events are coalesced per save burst and
// filtered to spreadsheet files; editor artifacts like Excel's ~$ lock
// files never come through.
type Watcher struct {
	fsw      *fsnotify.Watcher
	Events   chan Event
	paths    []string
	debounce time.Duration
}

// New creates a Watcher for the given glob patterns. Patterns are expanded
// at startup and the matching files are watched.
func New(patterns []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		Events:   make(chan Event, 64),
		debounce: defaultDebounce,
	}

	for _, pattern := range patterns {
		matches, err := Expand(pattern)
		if err != nil {
			log.Printf("warning: failed to expand pattern %q: %v", pattern, err)
			continue
		}
		for _, m := range matches {
			if !spreadsheetPath(m) {
				continue
			}
			abs, _ := filepath.Abs(m)
			if err := fsw.Add(abs); err != nil {
				log.Printf("warning: cannot watch %s: %v", abs, err)
				continue
			}
			w.paths = append(w.paths, abs)
		}
	}

	return w, nil
}

// Start begins listening for file events. It blocks until the context is
// cancelled. Events arriving within the debounce window are merged per
// path and flushed together once the window closes.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Events)

	pending := make(map[string]fsnotify.Op)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	flush := func() {
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			w.Events <- Event{Path: p, Op: pending[p]}
			delete(pending, p)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevantOp(ev.Op) || !spreadsheetPath(ev.Name) {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			pending[ev.Name] |= ev.Op
		case <-timer.C:
			flush()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)
		}
	}
}

// relevantOp reports whether the operation can change a spreadsheet's
// contents. Editors typically replace the file on save, so rename and
// create matter as much as write.
func relevantOp(op fsnotify.Op) bool {
	return op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

// spreadsheetPath reports whether the path is a spreadsheet worth acting
// on. Excel drops a ~$-prefixed lock file next to an open workbook; those
// and non-spreadsheet files are ignored.
func spreadsheetPath(path string) bool {
	if strings.HasPrefix(filepath.Base(path), "~$") {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".csv":
		return true
	default:
		return false
	}
}

// Paths returns the files currently being watched.
func (w *Watcher) Paths() []string {
	return w.paths
}

// ReWatch adds a path back to the watcher after an editor replaced it.
func (w *Watcher) ReWatch(path string) error {
	return w.fsw.Add(path)
}

// Expand resolves a glob pattern to matching file paths. Supports
// recursive patterns like uploads/**/*.xlsx via doublestar.
func Expand(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithFailOnIOErrors())
}
