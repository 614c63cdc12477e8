package main

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kakuhq/kaku-assist/internal/assist"
	"github.com/kakuhq/kaku-assist/internal/platform"
)

var (
	doctorOKStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	doctorFailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// endpointProbeTimeout bounds the best-effort reachability check so doctor
// never hangs on a dead network.
const endpointProbeTimeout = 3 * time.Second

type checkResult struct {
	Name   string
	OK     bool
	Detail string
}

// handleDoctor verifies the installation and prints one line per check.
func handleDoctor(args []string) {
	results := runChecks()

	allOK := true
	for _, r := range results {
		mark := doctorOKStyle.Render("✓")
		if !r.OK {
			mark = doctorFailStyle.Render("✗")
			allOK = false
		}
		line := fmt.Sprintf("%s %s", mark, r.Name)
		if r.Detail != "" {
			line += ": " + r.Detail
		}
		fmt.Println(line)
	}
	if !allOK {
		os.Exit(1)
	}
}

func runChecks() []checkResult {
	var results []checkResult

	results = append(results, checkResult{
		Name:   "platform",
		OK:     platform.Supported(),
		Detail: string(platform.Detect()),
	})

	if path, err := exec.LookPath("tmux"); err == nil {
		results = append(results, checkResult{Name: "tmux found", OK: true, Detail: path})
	} else {
		results = append(results, checkResult{Name: "tmux found", OK: false, Detail: "install tmux to use kaku-assist"})
	}

	results = append(results, checkResult{
		Name:   "inside tmux",
		OK:     os.Getenv("TMUX_PANE") != "",
		Detail: "hooks only fire inside tmux panes",
	})
	if results[len(results)-1].OK {
		results[len(results)-1].Detail = os.Getenv("TMUX_PANE")
	}

	if home, err := os.UserHomeDir(); err == nil {
		results = append(results, hookCheck(home))
	}

	if err := assist.EnsureStateDirs(); err == nil {
		dir, _ := assist.StateDir()
		results = append(results, checkResult{Name: "state directory writable", OK: true, Detail: dir})
	} else {
		results = append(results, checkResult{Name: "state directory writable", OK: false, Detail: err.Error()})
	}

	s := assist.LoadSettings()
	results = append(results, settingsChecks(s)...)
	results = append(results, endpointCheck(s.BaseURL))
	return results
}

func settingsChecks(s assist.Settings) []checkResult {
	var results []checkResult

	results = append(results, checkResult{
		Name: "assistant enabled",
		OK:   s.IsEnabled(),
	})
	if !s.IsEnabled() {
		results[len(results)-1].Detail = "set enabled = true in assistant.toml"
	}

	keyCheck := checkResult{Name: "api key configured", OK: s.APIKey != ""}
	if !keyCheck.OK {
		keyCheck.Detail = "run 'kaku-assist config' to set one"
	}
	results = append(results, keyCheck)

	urlCheck := checkResult{Name: "base url", OK: strings.HasPrefix(s.BaseURL, "http"), Detail: s.BaseURL}
	if !urlCheck.OK {
		urlCheck.Detail = fmt.Sprintf("%q does not look like a URL", s.BaseURL)
	}
	results = append(results, urlCheck)

	results = append(results, checkResult{Name: "model", OK: s.Model != "", Detail: s.Model})
	return results
}

// hookCheck looks for the shell integration line in the usual rc files.
func hookCheck(home string) checkResult {
	for _, name := range []string{".zshrc", ".bashrc", ".bash_profile"} {
		data, err := os.ReadFile(filepath.Join(home, name))
		if err == nil && strings.Contains(string(data), "kaku-assist hook") {
			return checkResult{Name: "shell hook installed", OK: true, Detail: "~/" + name}
		}
	}
	return checkResult{
		Name:   "shell hook installed",
		OK:     false,
		Detail: `add eval "$(kaku-assist hook install)" to your shell rc`,
	}
}

// endpointCheck sends a best-effort HEAD to the configured base URL. Any
// HTTP response counts as reachable; only a transport failure fails the
// check.
func endpointCheck(baseURL string) checkResult {
	result := checkResult{Name: "endpoint reachable"}
	if !strings.HasPrefix(baseURL, "http") {
		result.Detail = "skipped, base url is not set"
		return result
	}

	client := &http.Client{Timeout: endpointProbeTimeout}
	resp, err := client.Head(baseURL)
	if err != nil {
		result.Detail = err.Error()
		return result
	}
	resp.Body.Close()
	result.OK = true
	result.Detail = fmt.Sprintf("%s (%s)", baseURL, resp.Status)
	return result
}
