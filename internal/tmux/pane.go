// Package tmux wraps the tmux pane operations kaku-assist needs: literal
// key injection, status-line messages, and pane introspection.
package tmux

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/kakuhq/kaku-assist/internal/logging"
)

var tmuxLog = logging.ForComponent(logging.CompTmux)

// sendEnterDelay is the gap between literal text and the Enter key.
// tmux 3.2+ wraps send-keys -l in bracketed paste sequences; without the
// delay the Enter arrives in the same PTY buffer as the paste-end marker
// and gets swallowed by the shell's paste handler.
const sendEnterDelay = 100 * time.Millisecond

// IsTmuxAvailable checks that the tmux binary exists and a server responds.
func IsTmuxAvailable() error {
	if _, err := exec.LookPath("tmux"); err != nil {
		return fmt.Errorf("tmux not found in PATH: %w", err)
	}
	return nil
}

// Pane addresses one tmux pane by its server-unique id (e.g. "%5").
type Pane struct {
	ID string
}

// NewPane returns a handle for the given tmux pane id.
func NewPane(id string) *Pane {
	return &Pane{ID: id}
}

// SendKeys sends literal text to the pane.
// The -l flag makes tmux treat the string as literal text, not key names,
// so model-suggested commands can never be interpreted as key sequences.
func (p *Pane) SendKeys(text string) error {
	cmd := exec.Command("tmux", "send-keys", "-l", "-t", p.ID, "--", text)
	return cmd.Run()
}

// SendEnter sends the Enter key to the pane.
func (p *Pane) SendEnter() error {
	cmd := exec.Command("tmux", "send-keys", "-t", p.ID, "Enter")
	return cmd.Run()
}

// SendCtrlU sends Ctrl+U to clear any partially typed input line.
func (p *Pane) SendCtrlU() error {
	cmd := exec.Command("tmux", "send-keys", "-t", p.ID, "C-u")
	return cmd.Run()
}

// SendTextAndEnter sends literal text followed by Enter as two separate
// tmux calls with a short delay in between (see sendEnterDelay).
func (p *Pane) SendTextAndEnter(text string) error {
	if err := p.SendKeys(text); err != nil {
		return err
	}
	time.Sleep(sendEnterDelay)
	return p.SendEnter()
}

// DisplayMessage shows a transient message in the pane's status line.
func (p *Pane) DisplayMessage(msg string) error {
	cmd := exec.Command("tmux", "display-message", "-t", p.ID, msg)
	return cmd.Run()
}

// ShowText prints a multi-line block into the pane's display without
// touching its input line, via tmux run-shell.
func (p *Pane) ShowText(block string) error {
	cmd := exec.Command("tmux", "run-shell", "-t", p.ID, "printf '%s\\n' "+ShellQuote(block))
	return cmd.Run()
}

// CurrentPath returns the pane's working directory, best effort.
func (p *Pane) CurrentPath() string {
	cmd := exec.Command("tmux", "display-message", "-p", "-t", p.ID, "#{pane_current_path}")
	out, err := cmd.Output()
	if err != nil {
		tmuxLog.Debug("pane_path_failed", slog.String("pane", p.ID), slog.String("error", err.Error()))
		return ""
	}
	return strings.TrimSpace(string(out))
}

// Exists reports whether the pane is still known to the tmux server.
func (p *Pane) Exists() bool {
	ids, err := ListPaneIDs()
	if err != nil {
		// If the server is unreachable, err on the side of keeping state.
		return true
	}
	for _, id := range ids {
		if id == p.ID {
			return true
		}
	}
	return false
}

// ListPaneIDs returns the ids of every pane on the server.
func ListPaneIDs() ([]string, error) {
	cmd := exec.Command("tmux", "list-panes", "-a", "-F", "#{pane_id}")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("list panes: %w", err)
	}
	return ParsePaneList(string(out)), nil
}

// ParsePaneList parses `tmux list-panes -a -F '#{pane_id}'` output.
func ParsePaneList(out string) []string {
	var ids []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "%") {
			ids = append(ids, line)
		}
	}
	return ids
}

// ShellQuote wraps s in single quotes, escaping embedded single quotes,
// so arbitrary suggestion text survives a run-shell round trip.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
