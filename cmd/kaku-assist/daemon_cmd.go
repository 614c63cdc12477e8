package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kakuhq/kaku-assist/internal/assist"
	"github.com/kakuhq/kaku-assist/internal/logging"
)

// handleDaemon runs the always-on failure analysis daemon.
func handleDaemon(args []string) {
	fs := flag.NewFlagSet("daemon", flag.ExitOnError)
	logLevel := fs.String("log-level", "info", "Log level: debug, info, warn, error")
	logFormat := fs.String("log-format", "json", "Log format: json or text")

	fs.Usage = func() {
		fmt.Println("Usage: kaku-assist daemon [--log-level <level>]")
		fmt.Println()
		fmt.Println("Watch tmux panes for failed commands and offer fixes.")
	}
	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		os.Exit(1)
	}

	logDir, err := assist.StateDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "daemon: %v\n", err)
		os.Exit(1)
	}
	logging.Init(logging.Config{LogDir: logDir, Level: *logLevel, Format: *logFormat})
	defer logging.Shutdown()

	daemon, err := assist.NewDaemon()
	if err != nil {
		fmt.Fprintf(os.Stderr, "daemon: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := daemon.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "daemon error: %v\n", err)
		os.Exit(1)
	}
}
