package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

const Version = "0.3.1"

func init() {
	initColorProfile()
}

// initColorProfile pins the lipgloss color profile so the config TUI and
// doctor/history output render the same inside and outside tmux.
// KAKU_ASSIST_COLOR overrides detection: truecolor, 256, or none.
func initColorProfile() {
	switch strings.ToLower(os.Getenv("KAKU_ASSIST_COLOR")) {
	case "truecolor":
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	case "256":
		lipgloss.SetColorProfile(termenv.ANSI256)
		return
	case "none":
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	if ct := os.Getenv("COLORTERM"); ct == "truecolor" || ct == "24bit" {
		lipgloss.SetColorProfile(termenv.TrueColor)
		return
	}
	lipgloss.SetColorProfile(termenv.ANSI256)
}

func main() {
	args := os.Args[1:]

	if len(args) == 0 {
		printHelp()
		return
	}

	switch args[0] {
	case "version", "--version", "-v":
		fmt.Printf("kaku-assist v%s\n", Version)
	case "help", "--help", "-h":
		printHelp()
	case "hook":
		handleHook(args[1:])
	case "apply":
		handleApply(args[1:])
	case "daemon":
		handleDaemon(args[1:])
	case "worker":
		handleWorker(args[1:])
	case "config":
		handleConfig(args[1:])
	case "doctor":
		handleDoctor(args[1:])
	case "history":
		handleHistory(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", args[0])
		printHelp()
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println(`kaku-assist - in-terminal command remediation assistant

Usage: kaku-assist <command> [options]

Commands:
  daemon              Run the background analysis daemon
  hook install        Print shell integration for .zshrc / .bashrc
  hook started <cmd>  Signal that a command started (called by the shell hook)
  hook exited <code>  Signal that a command exited (called by the shell hook)
  apply               Type the current suggestion into this pane
  config              Edit assistant settings interactively
  config path         Print the settings file path
  history             Show past suggestions
  doctor              Check the installation
  version             Print version

The daemon watches command failures in tmux panes and offers a one-line
fix generated by a chat-completions model. Configure the provider with
'kaku-assist config'.`)
}
