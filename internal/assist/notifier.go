package assist

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kakuhq/kaku-assist/internal/logging"
	"github.com/kakuhq/kaku-assist/internal/tmux"
)

var notifyLog = logging.ForComponent(logging.CompNotify)

// PaneIO is the slice of pane operations the notifier needs. *tmux.Pane
// satisfies it; tests substitute a recorder.
type PaneIO interface {
	SendKeys(text string) error
	SendEnter() error
	SendCtrlU() error
	SendTextAndEnter(text string) error
	DisplayMessage(text string) error
	ShowText(block string) error
}

// PaneDialer resolves a pane id to its IO. Indirection for tests.
type PaneDialer func(paneID string) PaneIO

// DialTmuxPane is the production dialer.
func DialTmuxPane(paneID string) PaneIO {
	return &tmux.Pane{ID: paneID}
}

// Notifier renders assistant output into panes and applies suggestions.
type Notifier struct {
	dial PaneDialer
}

// NewNotifier creates a Notifier using the given dialer.
func NewNotifier(dial PaneDialer) *Notifier {
	return &Notifier{dial: dial}
}

// ShowLoading tells the user an analysis started, via the tmux status
// line so the prompt is not disturbed.
func (n *Notifier) ShowLoading(paneID, command string) {
	msg := fmt.Sprintf("assist: analyzing %q ...", truncateAtWordBoundary(command, 40))
	if err := n.dial(paneID).DisplayMessage(msg); err != nil {
		notifyLog.Debug("loading_toast_failed", slog.String("pane", paneID), slog.Any("error", err))
	}
}

// ShowStatus puts a short message on the pane's status line.
func (n *Notifier) ShowStatus(paneID, text string) {
	if err := n.dial(paneID).DisplayMessage("assist: " + text); err != nil {
		notifyLog.Debug("status_toast_failed", slog.String("pane", paneID), slog.Any("error", err))
	}
}

// ShowSuggestion prints the suggestion block into the pane's scrollback.
// Two lines when a command is available, one when only a summary is.
func (n *Notifier) ShowSuggestion(paneID string, sug *Suggestion) {
	var b strings.Builder
	fmt.Fprintf(&b, "assist: %s", sug.Summary)
	if sug.Command != "" {
		fmt.Fprintf(&b, "\nassist: run `%s`  (kaku-assist apply)", sug.Command)
	}
	if err := n.dial(paneID).ShowText(b.String()); err != nil {
		notifyLog.Warn("suggestion_print_failed", slog.String("pane", paneID), slog.Any("error", err))
	}
}

// Apply injects the session's suggested command into the pane. The prompt
// line is cleared first so the injection composes with whatever the user
// half-typed. Dangerous commands are pasted without Enter so the user must
// confirm by pressing it themselves; the check runs again here because
// classification may have tightened since the suggestion was generated.
func (n *Notifier) Apply(paneID string, s Session) {
	pane := n.dial(paneID)
	if s.Suggestion == nil || s.Suggestion.Command == "" {
		n.ShowStatus(paneID, "no suggestion available")
		return
	}
	cmd := s.Suggestion.Command

	if err := pane.SendCtrlU(); err != nil {
		notifyLog.Warn("apply_clear_failed", slog.String("pane", paneID), slog.Any("error", err))
		return
	}
	if IsDangerous(cmd) {
		if err := pane.SendKeys(cmd); err != nil {
			notifyLog.Warn("apply_paste_failed", slog.String("pane", paneID), slog.Any("error", err))
			return
		}
		n.ShowStatus(paneID, "review before running (press Enter to confirm)")
		return
	}
	if err := pane.SendTextAndEnter(cmd); err != nil {
		notifyLog.Warn("apply_run_failed", slog.String("pane", paneID), slog.Any("error", err))
	}
}
