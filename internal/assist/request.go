package assist

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Message is one chat turn in the provider's wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// workerRequest is everything the worker process needs to perform the HTTP
// call on its own: endpoint, credentials, and the prepared conversation.
type workerRequest struct {
	BaseURL  string    `json:"base_url"`
	APIKey   string    `json:"api_key"`
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// FailureContext is what we know about the failed command when building
// the request. Branch and Cwd are best effort and may be empty.
type FailureContext struct {
	Command  string
	ExitCode int
	Cwd      string
	Branch   string
}

const systemPrompt = `You are a terminal assistant. A shell command failed and you must propose a fix.

Respond with exactly one JSON object and nothing else. No markdown, no code fences, no prose around it. The object has these fields:
  "summary": one short sentence (under 60 characters, no parentheses) explaining the likely cause
  "command": a single corrected shell command line, or "" if no single command fixes it
  "why": one sentence explaining why the command helps
  "confidence": a number between 0 and 1

Rules:
- Prefer the smallest correction, e.g. fixing a typo.
- Never suggest destructive commands (rm -rf, force pushes, disk writes) unless the failed command was already attempting exactly that.
- Never suggest diagnostic commands like "which" or "type" as the fix; leave "command" empty instead and explain in "summary".
- The command must be a single line runnable in a POSIX shell.`

// BuildMessages assembles the conversation for one failure.
func BuildMessages(fc FailureContext) []Message {
	var b strings.Builder
	fmt.Fprintf(&b, "The command below failed with exit code %d.\n\n", fc.ExitCode)
	fmt.Fprintf(&b, "Command:\n%s\n", fc.Command)
	if fc.Cwd != "" {
		fmt.Fprintf(&b, "\nWorking directory: %s\n", fc.Cwd)
	}
	if fc.Branch != "" {
		fmt.Fprintf(&b, "Git branch: %s\n", fc.Branch)
	}
	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: b.String()},
	}
}

// BuildRequestPayload serializes a workerRequest for the job directory.
func BuildRequestPayload(s *Settings, fc FailureContext) ([]byte, error) {
	req := workerRequest{
		BaseURL:  s.BaseURL,
		APIKey:   s.APIKey,
		Model:    s.Model,
		Messages: BuildMessages(fc),
	}
	return json.MarshalIndent(req, "", "  ")
}
