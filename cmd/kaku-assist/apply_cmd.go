package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kakuhq/kaku-assist/internal/assist"
)

// handleApply asks the daemon to type the current suggestion into this
// pane. The injection happens daemon-side so the suggestion state stays in
// one process.
func handleApply(args []string) {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	pane := fs.String("pane", "", "tmux pane id (defaults to $TMUX_PANE)")
	fs.Usage = func() {
		fmt.Println("Usage: kaku-assist apply [--pane <id>]")
		fmt.Println()
		fmt.Println("Type the most recent suggestion into the pane.")
	}
	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		os.Exit(1)
	}

	paneID := currentPane(*pane)
	if paneID == "" {
		fmt.Fprintln(os.Stderr, "apply: not inside a tmux pane (and no --pane given)")
		os.Exit(1)
	}

	dir, err := assist.EventsDir()
	if err == nil {
		err = os.MkdirAll(dir, 0o700)
	}
	if err == nil {
		err = assist.WriteEvent(dir, assist.Event{Type: assist.EventApply, Pane: paneID})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "apply: %v\n", err)
		os.Exit(1)
	}
}
