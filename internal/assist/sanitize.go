package assist

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// summaryMaxWidth is the printable-column budget for a suggestion headline.
const summaryMaxWidth = 72

// fallbackSummary replaces a summary that sanitizing reduced to nothing.
const fallbackSummary = "Fix the command and retry."

// boilerplatePrefixes are lead-ins models like to produce that waste the
// headline budget. Stripped case-insensitively, repeatedly.
var boilerplatePrefixes = []string{
	"the user typed",
	"the user ran",
	"this command",
	"the command",
	"it looks like",
	"it seems that",
	"it seems",
	"error:",
}

// parentheticalRe matches a parenthesized aside, which the headline format
// forbids.
var parentheticalRe = regexp.MustCompile(`\([^)]*\)`)

// SanitizeSummary normalizes a model-produced summary into a bounded,
// single-line headline: collapsed whitespace, no boilerplate lead-in, no
// parentheses, at most summaryMaxWidth printable columns cut at a word
// boundary with the terminal punctuation mark counted inside the budget.
func SanitizeSummary(raw string) string {
	s := parentheticalRe.ReplaceAllString(raw, "")
	s = strings.NewReplacer("(", "", ")", "").Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, " ,", ",")
	s = strings.ReplaceAll(s, " .", ".")

	for stripped := true; stripped; {
		stripped = false
		lower := strings.ToLower(s)
		for _, prefix := range boilerplatePrefixes {
			if strings.HasPrefix(lower, prefix) {
				s = strings.TrimLeft(s[len(prefix):], " \t:,-")
				stripped = true
				break
			}
		}
	}

	s = truncateAtWordBoundary(s, summaryMaxWidth)

	if s == "" {
		return fallbackSummary
	}
	if !strings.ContainsAny(s[len(s)-1:], ".!?") {
		s = strings.TrimRight(s, ",;:")
		if runewidth.StringWidth(s) >= summaryMaxWidth {
			s = strings.TrimRight(truncateAtWordBoundary(s, summaryMaxWidth-1), ",;:")
		}
		s += "."
	}
	return s
}

// truncateAtWordBoundary keeps whole words while the printable width stays
// within max. A single overlong word is cut hard as a fallback.
func truncateAtWordBoundary(s string, max int) string {
	if runewidth.StringWidth(s) <= max {
		return s
	}

	var out strings.Builder
	width := 0
	for i, word := range strings.Fields(s) {
		w := runewidth.StringWidth(word)
		sep := 0
		if i > 0 {
			sep = 1
		}
		if width+sep+w > max {
			if i == 0 {
				return runewidth.Truncate(word, max, "")
			}
			break
		}
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(word)
		width += sep + w
	}
	return out.String()
}

// SanitizeCommand reduces a model-produced fix to a single shell line:
// code-fence markers and a leading `$ ` prompt are stripped, and only the
// first non-empty line survives.
func SanitizeCommand(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	var line string
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimSpace(l)
		if l == "" || strings.HasPrefix(l, "```") {
			continue
		}
		line = l
		break
	}

	line = strings.Trim(line, "`")
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "$") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "$"))
	}
	return line
}
