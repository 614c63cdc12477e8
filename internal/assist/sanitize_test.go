package assist

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeSummary(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain sentence untouched",
			in:   "The binary is not on PATH.",
			want: "The binary is not on PATH.",
		},
		{
			name: "whitespace collapsed",
			in:   "  too \t many\n spaces.  ",
			want: "too many spaces.",
		},
		{
			name: "boilerplate prefix stripped",
			in:   "It looks like the git command has a typo.",
			want: "the git command has a typo.",
		},
		{
			name: "stacked prefixes stripped repeatedly",
			in:   "It seems that the command: this command failed to run.",
			want: "failed to run.",
		},
		{
			name: "punctuation appended",
			in:   "missing semicolon",
			want: "missing semicolon.",
		},
		{
			name: "trailing comma replaced",
			in:   "missing semicolon,",
			want: "missing semicolon.",
		},
		{
			name: "question mark kept",
			in:   "did you mean git status?",
			want: "did you mean git status?",
		},
		{
			name: "parenthetical aside removed",
			in:   "Typo (probably) in the git subcommand.",
			want: "Typo in the git subcommand.",
		},
		{
			name: "parenthetical before punctuation removed cleanly",
			in:   "Command not found (exit 127), check PATH.",
			want: "Command not found, check PATH.",
		},
		{
			name: "unbalanced parens removed",
			in:   "fix) the (flags",
			want: "fix the flags.",
		},
		{
			name: "empty falls back",
			in:   "   ",
			want: fallbackSummary,
		},
		{
			name: "pure boilerplate falls back",
			in:   "the command",
			want: fallbackSummary,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeSummary(tt.in))
		})
	}
}

func TestSanitizeSummaryWidthBound(t *testing.T) {
	long := strings.Repeat("word ", 40) + "end"
	got := SanitizeSummary(long)
	assert.LessOrEqual(t, runewidth.StringWidth(got), summaryMaxWidth)
	assert.True(t, strings.HasSuffix(got, "."))
	assert.NotContains(t, got, "  ")
}

func TestSanitizeSummaryPunctuationFitsBudget(t *testing.T) {
	// Exactly summaryMaxWidth columns, no terminal punctuation: appending
	// the period must not push the headline past the budget.
	in := strings.TrimSpace(strings.Repeat("abcdefgh ", 8))
	require.Equal(t, summaryMaxWidth-1, runewidth.StringWidth(in))
	in += "i"

	got := SanitizeSummary(in)
	assert.LessOrEqual(t, runewidth.StringWidth(got), summaryMaxWidth)
	assert.True(t, strings.HasSuffix(got, "."))
}

func TestSanitizeSummaryOverlongWord(t *testing.T) {
	got := SanitizeSummary(strings.Repeat("x", 200))
	assert.LessOrEqual(t, runewidth.StringWidth(got), summaryMaxWidth)
	assert.NotEqual(t, fallbackSummary, got)
}

func TestSanitizeCommand(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "git status", "git status"},
		{"leading prompt", "$ git status", "git status"},
		{"inline backticks", "`git status`", "git status"},
		{"fenced block", "```sh\ngit status\n```", "git status"},
		{"fenced with language and prose", "```\nmake build\nmake test\n```", "make build"},
		{"first line only", "git fetch\ngit pull", "git fetch"},
		{"empty", "", ""},
		{"only fences", "```\n```", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeCommand(tt.in))
		})
	}
}
