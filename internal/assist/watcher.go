package assist

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kakuhq/kaku-assist/internal/logging"
)

var watchLog = logging.ForComponent(logging.CompDaemon)

// fallbackScanInterval bounds event latency when fsnotify misses a write,
// which happens on some network filesystems.
const fallbackScanInterval = 2 * time.Second

// SpoolWatcher delivers spooled events to the daemon. Each event file is
// consumed exactly once: read, decoded, removed.
type SpoolWatcher struct {
	dir    string
	events chan Event
}

// NewSpoolWatcher creates a watcher over the given spool directory.
func NewSpoolWatcher(dir string) *SpoolWatcher {
	return &SpoolWatcher{dir: dir, events: make(chan Event, 64)}
}

// Events is the delivery channel. Closed when Run returns.
func (w *SpoolWatcher) Events() <-chan Event {
	return w.events
}

// Run watches the spool until ctx ends. It drains any backlog first, then
// reacts to filesystem notifications with a slow periodic rescan as a
// safety net.
func (w *SpoolWatcher) Run(ctx context.Context) error {
	defer close(w.events)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()
	if err := fsw.Add(w.dir); err != nil {
		return err
	}

	// Events spooled before the daemon started.
	w.drain(ctx)

	tick := time.NewTicker(fallbackScanInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Rename) != 0 && strings.HasSuffix(ev.Name, ".json") {
				w.drain(ctx)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			watchLog.Warn("spool_watch_error", slog.Any("error", err))
		case <-tick.C:
			w.drain(ctx)
		}
	}
}

// drain consumes every event file currently in the spool, oldest first.
func (w *SpoolWatcher) drain(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		watchLog.Warn("spool_read_failed", slog.Any("error", err))
		return
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(w.dir, name)
		ev, ok := w.consume(path)
		if !ok {
			continue
		}
		select {
		case w.events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// consume reads and removes one event file. A file that vanished under us
// (another racing reader, or an editor temp file) is skipped silently;
// undecodable files are removed so they cannot wedge the spool.
func (w *SpoolWatcher) consume(path string) (Event, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			watchLog.Warn("event_read_failed", slog.String("file", path), slog.Any("error", err))
		}
		return Event{}, false
	}
	if err := os.Remove(path); err != nil {
		watchLog.Warn("event_remove_failed", slog.String("file", path), slog.Any("error", err))
	}
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		watchLog.Warn("event_decode_failed", slog.String("file", path), slog.Any("error", err))
		return Event{}, false
	}
	if ev.Type == "" || ev.Pane == "" {
		watchLog.Warn("event_incomplete", slog.String("file", path))
		return Event{}, false
	}
	return ev, true
}
