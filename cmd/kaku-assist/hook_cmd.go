package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kakuhq/kaku-assist/internal/assist"
)

// shellIntegration is printed by "hook install" for the user to eval from
// their shell rc. zsh uses preexec/precmd; bash approximates preexec with
// a DEBUG trap.
const shellIntegration = `# kaku-assist shell integration
if [ -n "$ZSH_VERSION" ]; then
  _kaku_assist_preexec() { command kaku-assist hook started -- "$1" 2>/dev/null; }
  _kaku_assist_precmd()  { command kaku-assist hook exited "$?" 2>/dev/null; }
  autoload -Uz add-zsh-hook
  add-zsh-hook preexec _kaku_assist_preexec
  add-zsh-hook precmd  _kaku_assist_precmd
elif [ -n "$BASH_VERSION" ]; then
  _kaku_assist_preexec() {
    [ -n "$COMP_LINE" ] && return
    [ "$BASH_COMMAND" = "$PROMPT_COMMAND" ] && return
    command kaku-assist hook started -- "$BASH_COMMAND" 2>/dev/null
  }
  _kaku_assist_precmd() { command kaku-assist hook exited "$?" 2>/dev/null; }
  trap '_kaku_assist_preexec' DEBUG
  PROMPT_COMMAND="_kaku_assist_precmd${PROMPT_COMMAND:+; $PROMPT_COMMAND}"
fi
alias fix='command kaku-assist apply'`

// handleHook processes the shell-side signals. It must never break the
// host shell: every failure path exits 0 quietly.
func handleHook(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: kaku-assist hook <install|started|exited> ...")
		os.Exit(1)
	}

	switch args[0] {
	case "install":
		fmt.Println(shellIntegration)
	case "started":
		hookStarted(args[1:])
	case "exited":
		hookExited(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown hook subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

func hookStarted(args []string) {
	fs := flag.NewFlagSet("hook started", flag.ContinueOnError)
	pane := fs.String("pane", "", "tmux pane id (defaults to $TMUX_PANE)")
	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		return
	}

	paneID := currentPane(*pane)
	if paneID == "" {
		// Outside tmux there is nothing to correlate against.
		return
	}
	command := strings.TrimSpace(strings.Join(fs.Args(), " "))

	spoolEvent(assist.Event{Type: assist.EventStarted, Pane: paneID, Command: command})
}

func hookExited(args []string) {
	fs := flag.NewFlagSet("hook exited", flag.ContinueOnError)
	pane := fs.String("pane", "", "tmux pane id (defaults to $TMUX_PANE)")
	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		return
	}

	paneID := currentPane(*pane)
	if paneID == "" || fs.NArg() == 0 {
		return
	}
	code, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return
	}
	// The shell reports every prompt; skip the write for successes so the
	// hot path does not touch the filesystem at all.
	if code == 0 {
		return
	}

	spoolEvent(assist.Event{Type: assist.EventExited, Pane: paneID, ExitCode: code})
}

// spoolEvent best-effort writes an event, creating the spool on first use.
func spoolEvent(ev assist.Event) {
	dir, err := assist.EventsDir()
	if err != nil {
		return
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return
	}
	_ = assist.WriteEvent(dir, ev)
}
