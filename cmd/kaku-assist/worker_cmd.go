package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/kakuhq/kaku-assist/internal/assist"
)

// handleWorker runs one analysis job in this process. The daemon launches
// this detached; it is not meant to be invoked by hand.
func handleWorker(args []string) {
	fs := flag.NewFlagSet("worker", flag.ExitOnError)
	dir := fs.String("dir", "", "Job directory containing request.json")
	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		os.Exit(1)
	}
	if *dir == "" {
		fmt.Fprintln(os.Stderr, "worker: --dir is required")
		os.Exit(2)
	}
	os.Exit(assist.RunWorker(*dir))
}
