package assist

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Event types written into the spool by the shell hooks and the apply
// command.
const (
	EventStarted = "started"
	EventExited  = "exited"
	EventApply   = "apply"
)

// Event is one spool entry. Command is only set for started events;
// ExitCode only for exited events.
type Event struct {
	Type     string    `json:"type"`
	Pane     string    `json:"pane"`
	Command  string    `json:"command,omitempty"`
	ExitCode int       `json:"exit_code,omitempty"`
	Time     time.Time `json:"time"`
}

// WriteEvent spools an event for the daemon. File names sort by write
// time so the daemon replays a backlog in order, and the pid suffix keeps
// concurrent panes from colliding. Written atomically so the watcher
// never reads a partial file.
func WriteEvent(eventsDir string, ev Event) error {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	name := fmt.Sprintf("%020d-%d.json", ev.Time.UnixNano(), os.Getpid())
	if err := writeFileAtomic(filepath.Join(eventsDir, name), data, 0o600); err != nil {
		return fmt.Errorf("spooling event: %w", err)
	}
	return nil
}
