package assist

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/kakuhq/kaku-assist/internal/logging"
)

var storeLog = logging.ForComponent(logging.CompStore)

// debounceWindow drops a repeated identical failure signature observed
// within this interval.
const debounceWindow = time.Second

// interruptExitCode is the conventional shell exit code for Ctrl-C
// (128 + SIGINT). Interrupted commands are not failures worth analyzing.
const interruptExitCode = 130

// Session is the per-pane remediation state. One Session exists per tmux
// pane, created lazily on its first failure and evicted when the pane dies.
type Session struct {
	PaneID string

	// RunningCommand is the text of the command currently (or most
	// recently) executing in the pane, set by the started signal.
	RunningCommand string

	// Inflight marks that exactly one analysis job is pending.
	Inflight     bool
	PendingJobID string

	// Debounce state: signature of the last observed failure and when.
	LastSignature string
	LastSeenAt    time.Time

	// The failure currently under (or after) analysis.
	FailedCommand string
	ExitCode      int

	// Suggestion is only meaningful for the current FailedCommand/ExitCode
	// pair; replaced wholesale per job completion.
	Suggestion  *Suggestion
	GeneratedAt time.Time
}

// Store owns all Sessions, keyed by pane id. It is the only shared mutable
// structure; every mutation happens under its mutex.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session

	// Now is a clock hook for tests.
	Now func() time.Time
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		Now:      time.Now,
	}
}

func (st *Store) getOrCreateLocked(paneID string) *Session {
	s, ok := st.sessions[paneID]
	if !ok {
		s = &Session{PaneID: paneID}
		st.sessions[paneID] = s
	}
	return s
}

// ObserveStarted records that a new command began executing in the pane.
// This invalidates any previous suggestion AND any pending job correlation:
// a job already in flight keeps running, but its result will be discarded
// by the id guard. An empty command (bare Enter) is recorded as-is; the
// exited handler ignores sessions with no running command.
func (st *Store) ObserveStarted(paneID, command string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s := st.getOrCreateLocked(paneID)
	s.RunningCommand = command
	s.Suggestion = nil
	s.GeneratedAt = time.Time{}
	if s.Inflight {
		storeLog.Debug("pending_job_abandoned",
			slog.String("pane", paneID), slog.String("job", s.PendingJobID))
	}
	s.Inflight = false
	s.PendingJobID = ""
}

// ObserveFailure decides whether an exit signal warrants analysis. It
// returns the failed command and true when work should start; in that case
// prior suggestion state has been cleared, the debounce signature updated,
// and the running command consumed so that an exited signal with no new
// started signal (a bare Enter re-reporting the shell's stale $?) cannot
// re-analyze the same failure. Exit code 0 and the Ctrl-C interrupt code
// never proceed.
func (st *Store) ObserveFailure(paneID string, exitCode int) (string, bool) {
	if exitCode == 0 || exitCode == interruptExitCode {
		return "", false
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	s := st.getOrCreateLocked(paneID)
	if s.RunningCommand == "" {
		// No real command ran (empty Enter); never re-analyze a previous
		// failure off of it.
		return "", false
	}
	if s.Inflight {
		storeLog.Debug("failure_while_inflight_dropped", slog.String("pane", paneID))
		return "", false
	}

	now := st.Now()
	sig := s.RunningCommand + "\x00" + strconv.Itoa(exitCode)
	if sig == s.LastSignature && now.Sub(s.LastSeenAt) < debounceWindow {
		storeLog.Debug("failure_debounced", slog.String("pane", paneID))
		s.LastSeenAt = now
		return "", false
	}

	s.LastSignature = sig
	s.LastSeenAt = now
	s.FailedCommand = s.RunningCommand
	s.RunningCommand = ""
	s.ExitCode = exitCode
	s.Suggestion = nil
	s.GeneratedAt = time.Time{}
	return s.FailedCommand, true
}

// BeginJob marks the session inflight with the given job id. At most one
// job may be inflight per session.
func (st *Store) BeginJob(paneID, jobID string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	s := st.getOrCreateLocked(paneID)
	if s.Inflight {
		return false
	}
	s.Inflight = true
	s.PendingJobID = jobID
	return true
}

// ReleaseJob clears the inflight flag if jobID is still the pending job.
// Used when a launch fails after BeginJob.
func (st *Store) ReleaseJob(paneID, jobID string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[paneID]
	if !ok || s.PendingJobID != jobID {
		return
	}
	s.Inflight = false
	s.PendingJobID = ""
}

// ResolveJob applies a job outcome. fn runs under the store lock only when
// jobID is still the session's pending job; the inflight flag is released
// in the same critical section. The stale return is the system's sole
// cancellation mechanism: out-of-process work is never killed, its result
// is simply discarded here when the session has moved on.
func (st *Store) ResolveJob(paneID, jobID string, fn func(*Session)) (stale bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[paneID]
	if !ok || s.PendingJobID != jobID {
		return true
	}
	s.Inflight = false
	s.PendingJobID = ""
	if fn != nil {
		fn(s)
	}
	return false
}

// Snapshot returns a copy of the session for read-only use outside the lock.
func (st *Store) Snapshot(paneID string) (Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[paneID]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Evict removes sessions whose pane id is not in live, returning the
// evicted pane ids. Jobs belonging to evicted sessions keep running; their
// results die at the id guard since the session is gone.
func (st *Store) Evict(live map[string]bool) []string {
	st.mu.Lock()
	defer st.mu.Unlock()

	var evicted []string
	for paneID := range st.sessions {
		if !live[paneID] {
			delete(st.sessions, paneID)
			evicted = append(evicted, paneID)
		}
	}
	return evicted
}

// Len returns the number of tracked sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
