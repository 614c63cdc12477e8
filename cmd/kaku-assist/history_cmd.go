package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/kakuhq/kaku-assist/internal/assist"
	"github.com/kakuhq/kaku-assist/internal/history"
)

var (
	histTimeStyle    = lipgloss.NewStyle().Faint(true)
	histCommandStyle = lipgloss.NewStyle().Bold(true)
	histFixStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// handleHistory lists past suggestions, optionally fuzzy-filtered.
func handleHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum entries to show")
	jsonOut := fs.Bool("json", false, "Output JSON")
	fs.Usage = func() {
		fmt.Println("Usage: kaku-assist history [search terms] [--limit <n>] [--json]")
		fmt.Println()
		fmt.Println("Show past suggestions, newest first.")
	}
	if err := fs.Parse(normalizeArgs(fs, args)); err != nil {
		os.Exit(1)
	}

	store, err := history.Open(assist.HistoryDBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "history: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// Fetch more than the display limit when filtering, so the fuzzy
	// match has something to rank.
	fetchLimit := *limit
	query := strings.Join(fs.Args(), " ")
	if query != "" {
		fetchLimit = 500
	}
	entries, err := store.List(fetchLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "history: %v\n", err)
		os.Exit(1)
	}
	if query != "" {
		entries = filterEntries(entries, query, *limit)
	}

	if *jsonOut {
		json.NewEncoder(os.Stdout).Encode(entries)
		return
	}
	if len(entries) == 0 {
		fmt.Println("No suggestions recorded yet.")
		return
	}
	for _, e := range entries {
		fmt.Printf("%s  %s (exit %d)\n", histTimeStyle.Render(e.CreatedAt.Local().Format("Jan 02 15:04")),
			histCommandStyle.Render(e.Command), e.ExitCode)
		fmt.Printf("      %s\n", e.Summary)
		if e.Suggestion != "" {
			fmt.Printf("      %s\n", histFixStyle.Render("$ "+e.Suggestion))
		}
	}
}

// entrySource adapts history entries for fuzzy matching over the failed
// command and suggestion text together.
type entrySource []history.Entry

func (s entrySource) String(i int) string {
	return s[i].Command + " " + s[i].Suggestion + " " + s[i].Summary
}
func (s entrySource) Len() int { return len(s) }

func filterEntries(entries []history.Entry, query string, limit int) []history.Entry {
	matches := fuzzy.FindFrom(query, entrySource(entries))
	out := make([]history.Entry, 0, len(matches))
	for _, m := range matches {
		out = append(out, entries[m.Index])
		if len(out) >= limit {
			break
		}
	}
	return out
}
