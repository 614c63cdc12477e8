package main

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeArgsMovesFlagsFirst(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.Bool("json", false, "")
	fs.Int("limit", 0, "")

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "flags after positional",
			in:   []string{"search", "term", "--json"},
			want: []string{"--json", "search", "term"},
		},
		{
			name: "value flag keeps its value",
			in:   []string{"term", "--limit", "5"},
			want: []string{"--limit", "5", "term"},
		},
		{
			name: "flag=value form",
			in:   []string{"term", "--limit=5"},
			want: []string{"--limit=5", "term"},
		},
		{
			name: "double dash stops parsing",
			in:   []string{"--json", "--", "--limit"},
			want: []string{"--json", "--limit"},
		},
		{
			name: "empty",
			in:   nil,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeArgs(fs, tt.in))
		})
	}
}

func TestCurrentPane(t *testing.T) {
	t.Setenv("TMUX_PANE", "%7")
	assert.Equal(t, "%3", currentPane("%3"), "explicit flag wins")
	assert.Equal(t, "%7", currentPane(""))

	t.Setenv("TMUX_PANE", "")
	assert.Equal(t, "", currentPane(""))
}
