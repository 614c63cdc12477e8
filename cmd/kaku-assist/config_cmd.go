package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/term"

	"github.com/kakuhq/kaku-assist/internal/assist"
	"github.com/kakuhq/kaku-assist/internal/configtui"
)

// handleConfig manages assistant.toml. With no arguments it opens the
// interactive editor (falling back to $EDITOR when not on a terminal).
func handleConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	edit := fs.Bool("edit", false, "Open the settings file in $EDITOR")
	fs.Usage = func() {
		fmt.Println("Usage: kaku-assist config [path] [--edit]")
		fmt.Println()
		fmt.Println("Edit assistant settings. 'config path' prints the file location.")
	}
	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		os.Exit(1)
	}

	path, err := assist.EnsureSettingsFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if fs.NArg() > 0 && fs.Arg(0) == "path" {
		fmt.Println(path)
		return
	}

	if *edit || !term.IsTerminal(int(os.Stdout.Fd())) {
		openInEditor(path)
		return
	}

	if err := configtui.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
}

func openInEditor(path string) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}
	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %s: %v\n", editor, err)
		os.Exit(1)
	}
}
