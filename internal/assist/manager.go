package assist

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/kakuhq/kaku-assist/internal/git"
	"github.com/kakuhq/kaku-assist/internal/history"
	"github.com/kakuhq/kaku-assist/internal/logging"
	"github.com/kakuhq/kaku-assist/internal/tmux"
)

var mgrLog = logging.ForComponent(logging.CompDaemon)

// requestsPerMinute caps outbound provider calls across all panes.
const requestsPerMinute = 10

// Manager wires store, runner and notifier together and handles spool
// events. The function fields are seams for tests; NewManager fills in
// the production implementations.
type Manager struct {
	store    *Store
	runner   *Runner
	notifier *Notifier
	history  *history.Store
	limiter  *rate.Limiter

	loadSettings func() Settings
	panePath     func(paneID string) string
	paneBranch   func(path string) string
	listPanes    func() ([]string, error)

	// pollDeadline is RequestTimeout in production; tests shorten it.
	pollDeadline time.Duration
}

// NewManager builds a production Manager. history may be nil, in which
// case suggestions are not recorded.
func NewManager(runner *Runner, hist *history.Store) *Manager {
	return &Manager{
		store:    NewStore(),
		runner:   runner,
		notifier: NewNotifier(DialTmuxPane),
		history:  hist,
		limiter:  rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), requestsPerMinute),
		loadSettings: LoadSettings,
		panePath: func(paneID string) string {
			return (&tmux.Pane{ID: paneID}).CurrentPath()
		},
		paneBranch:   git.CurrentBranch,
		listPanes:    tmux.ListPaneIDs,
		pollDeadline: RequestTimeout,
	}
}

// Handle dispatches one spool event.
func (m *Manager) Handle(ctx context.Context, ev Event) {
	switch ev.Type {
	case EventStarted:
		m.store.ObserveStarted(ev.Pane, ev.Command)
	case EventExited:
		m.handleExited(ctx, ev)
	case EventApply:
		m.handleApply(ev)
	default:
		mgrLog.Warn("unknown_event_type", slog.String("type", ev.Type))
	}
}

// handleExited runs the full decision chain for a command exit: settings
// gate, store bookkeeping, rate limiting, then job launch. Settings are
// re-read on every failure so edits to assistant.toml apply without a
// daemon restart.
func (m *Manager) handleExited(ctx context.Context, ev Event) {
	command, ok := m.store.ObserveFailure(ev.Pane, ev.ExitCode)
	if !ok {
		return
	}

	settings := m.loadSettings()
	if !settings.Ready() {
		// Disabled or unconfigured: stay silent, never nag at the prompt.
		mgrLog.Debug("assist_not_ready", slog.String("pane", ev.Pane))
		return
	}
	if !m.limiter.Allow() {
		mgrLog.Warn("rate_limited", slog.String("pane", ev.Pane))
		m.notifier.ShowStatus(ev.Pane, "rate limit reached, skipping analysis")
		return
	}

	cwd := m.panePath(ev.Pane)
	fc := FailureContext{
		Command:  command,
		ExitCode: ev.ExitCode,
		Cwd:      cwd,
		Branch:   m.paneBranch(cwd),
	}
	payload, err := BuildRequestPayload(&settings, fc)
	if err != nil {
		mgrLog.Error("request_build_failed", slog.Any("error", err))
		return
	}

	job, err := m.runner.Start(payload)
	if err != nil {
		mgrLog.Error("job_launch_failed", slog.Any("error", err))
		m.notifier.ShowStatus(ev.Pane, "could not start analysis")
		return
	}
	if !m.store.BeginJob(ev.Pane, job.ID) {
		// Lost a race with another failure on the same pane.
		job.Cleanup()
		return
	}

	m.notifier.ShowLoading(ev.Pane, command)
	go m.awaitJob(ctx, ev.Pane, job, settings.Model, fc)
}

// awaitJob polls one job to completion and publishes its outcome, unless
// the session has moved on in the meantime.
func (m *Manager) awaitJob(ctx context.Context, paneID string, job *Job, model string, fc FailureContext) {
	outcome := PollJob(ctx, job, m.pollDeadline)

	var res *JobResult
	var resErr error
	if outcome == PollCompleted {
		res, resErr = job.Result()
	}
	job.Cleanup()

	if outcome == PollCanceled {
		m.store.ReleaseJob(paneID, job.ID)
		return
	}

	var sug *Suggestion
	var parseErr error
	switch {
	case outcome == PollTimedOut:
		parseErr = ErrJobTimeout
	case resErr != nil:
		parseErr = resErr
	default:
		sug, parseErr = ParseResponse(res.Status, res.Response, res.Stderr, model)
	}

	stale := m.store.ResolveJob(paneID, job.ID, func(s *Session) {
		if sug != nil {
			s.Suggestion = sug
			s.GeneratedAt = m.store.Now()
		}
	})
	if stale {
		mgrLog.Debug("job_result_stale", slog.String("job", job.ID))
		return
	}

	if parseErr != nil {
		mgrLog.Warn("job_failed", slog.String("job", job.ID), slog.Any("error", parseErr))
		if parseErr == ErrJobTimeout {
			m.notifier.ShowStatus(paneID, "analysis timed out")
		} else {
			m.notifier.ShowStatus(paneID, "analysis failed")
		}
		return
	}

	m.notifier.ShowSuggestion(paneID, sug)
	if m.history != nil {
		err := m.history.Insert(history.Entry{
			Pane:       paneID,
			Command:    fc.Command,
			ExitCode:   fc.ExitCode,
			Summary:    sug.Summary,
			Suggestion: sug.Command,
			Model:      sug.Model,
			Confidence: sug.Confidence,
		})
		if err != nil {
			mgrLog.Warn("history_insert_failed", slog.Any("error", err))
		}
	}
}

// handleApply injects the current suggestion into the pane.
func (m *Manager) handleApply(ev Event) {
	s, ok := m.store.Snapshot(ev.Pane)
	if !ok {
		m.notifier.Apply(ev.Pane, Session{})
		return
	}
	m.notifier.Apply(ev.Pane, s)
}

// EvictDeadPanes drops sessions whose tmux pane no longer exists. When
// tmux itself is unreachable nothing is evicted; the panes may all still
// be alive behind a hiccuping server.
func (m *Manager) EvictDeadPanes() {
	ids, err := m.listPanes()
	if err != nil {
		mgrLog.Debug("pane_list_failed", slog.Any("error", err))
		return
	}
	live := make(map[string]bool, len(ids))
	for _, id := range ids {
		live[id] = true
	}
	for _, paneID := range m.store.Evict(live) {
		mgrLog.Debug("session_evicted", slog.String("pane", paneID))
	}
}
