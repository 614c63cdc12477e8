package assist

import (
	"encoding/json"
	"strings"
)

// Suggestion is one remediation offer, replaced wholesale on each job
// completion.
type Suggestion struct {
	// Summary is a bounded single-sentence headline (≤72 printable columns).
	Summary string

	// Command is the single-line shell fix. Empty when the model offered
	// nothing actionable, or when the classifier withheld it.
	Command string

	// Why is optional free text from the model.
	Why string

	// Confidence is the model's self-reported confidence, clamped to [0,1].
	Confidence float64

	// Model tags which model produced the suggestion.
	Model string
}

// chatResponse mirrors the chat-completions envelope. Content may be a
// plain string or a list of {text} chunks depending on provider.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type contentChunk struct {
	Text string `json:"text"`
}

// suggestionPayload is the JSON object the system prompt demands.
type suggestionPayload struct {
	Summary    string  `json:"summary"`
	Command    string  `json:"command"`
	Why        string  `json:"why"`
	Confidence float64 `json:"confidence"`
}

// ParseResponse turns the worker's raw artifacts into a Suggestion.
// A non-zero worker status is an InvalidResponse carrying stderr.
func ParseResponse(status int, stdout, stderr []byte, model string) (*Suggestion, error) {
	if status != 0 {
		return nil, &InvalidResponseError{
			Reason: "worker exited non-zero",
			Stderr: strings.TrimSpace(string(stderr)),
		}
	}

	content, ok := extractContent(stdout)
	if !ok {
		return nil, &InvalidResponseError{
			Reason: "no assistant content in response",
			Stderr: strings.TrimSpace(string(stderr)),
		}
	}

	payload := extractPayload(content)

	s := &Suggestion{
		Summary:    SanitizeSummary(payload.Summary),
		Command:    SanitizeCommand(payload.Command),
		Why:        strings.TrimSpace(payload.Why),
		Confidence: clamp01(payload.Confidence),
		Model:      model,
	}

	// Diagnostic-only fixes are withheld but the headline still shows.
	if s.Command != "" && IsNonActionable(s.Command) {
		s.Command = ""
	}
	return s, nil
}

// extractContent pulls the assistant message text out of the envelope,
// accepting both the flat-string and list-of-chunks content shapes.
func extractContent(raw []byte) (string, bool) {
	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", false
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.Content) == 0 {
		return "", false
	}
	rawContent := resp.Choices[0].Message.Content

	var flat string
	if err := json.Unmarshal(rawContent, &flat); err == nil {
		if strings.TrimSpace(flat) == "" {
			return "", false
		}
		return flat, true
	}

	var chunks []contentChunk
	if err := json.Unmarshal(rawContent, &chunks); err == nil {
		var b strings.Builder
		for _, c := range chunks {
			b.WriteString(c.Text)
		}
		if strings.TrimSpace(b.String()) == "" {
			return "", false
		}
		return b.String(), true
	}

	return "", false
}

// extractPayload parses the assistant content leniently: whole-string JSON
// first, then the first-`{`-to-last-`}` substring (models like to wrap JSON
// in prose), and as a last resort the first line becomes the summary.
func extractPayload(content string) suggestionPayload {
	var p suggestionPayload
	trimmed := strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(trimmed), &p); err == nil && (p.Summary != "" || p.Command != "") {
		return p
	}

	if start, end := strings.Index(trimmed, "{"), strings.LastIndex(trimmed, "}"); start >= 0 && end > start {
		p = suggestionPayload{}
		if err := json.Unmarshal([]byte(trimmed[start:end+1]), &p); err == nil && (p.Summary != "" || p.Command != "") {
			return p
		}
	}

	firstLine := trimmed
	if i := strings.IndexByte(firstLine, '\n'); i >= 0 {
		firstLine = firstLine[:i]
	}
	return suggestionPayload{Summary: firstLine}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
