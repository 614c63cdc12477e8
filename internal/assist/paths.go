package assist

import (
	"fmt"
	"os"
	"path/filepath"
)

// StateDirName is the per-user state directory under $HOME.
const StateDirName = ".kaku-assist"

// stateDirEnv overrides the state directory location (used by tests and
// by users who keep dotfiles elsewhere).
const stateDirEnv = "KAKU_ASSIST_DIR"

// StateDir returns the root state directory (~/.kaku-assist).
func StateDir() (string, error) {
	if dir := os.Getenv(stateDirEnv); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, StateDirName), nil
}

// EventsDir returns the spool directory shell hooks write events into.
func EventsDir() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "events"), nil
}

// JobsDir returns the directory holding per-job IPC artifacts.
func JobsDir() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "jobs"), nil
}

// HistoryDBPath returns the suggestion history database path. The empty
// string means the state dir could not be resolved; history.Open will
// fail cleanly on it.
func HistoryDBPath() string {
	dir, err := StateDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "history.db")
}

// EnsureStateDirs creates the state, events, and jobs directories.
// Failure here degrades the assistant to a no-op rather than failing the
// host session.
func EnsureStateDirs() error {
	for _, f := range []func() (string, error){StateDir, EventsDir, JobsDir} {
		dir, err := f()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create state directory %s: %w", dir, err)
		}
	}
	return nil
}
