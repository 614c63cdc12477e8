package configtui

import (
	"github.com/charmbracelet/lipgloss"
	dark "github.com/thiagokokada/dark-mode-go"
)

type palette struct {
	Title    lipgloss.Style
	Label    lipgloss.Style
	Selected lipgloss.Style
	Dim      lipgloss.Style
	Value    lipgloss.Style
	OK       lipgloss.Style
	Warn     lipgloss.Style
	Help     lipgloss.Style
	Frame    lipgloss.Style
}

// newPalette builds the styles, following the OS appearance when it can
// be detected.
func newPalette() palette {
	isDark, err := dark.IsDarkMode()
	if err != nil {
		isDark = true
	}

	text := lipgloss.Color("#e0e0e0")
	dim := lipgloss.Color("#707070")
	accent := lipgloss.Color("#5fd7ff")
	ok := lipgloss.Color("#5fff87")
	warn := lipgloss.Color("#ffaf5f")
	frame := lipgloss.Color("#444444")
	if !isDark {
		text = lipgloss.Color("#1c1c1c")
		dim = lipgloss.Color("#8a8a8a")
		accent = lipgloss.Color("#005f87")
		ok = lipgloss.Color("#00875f")
		warn = lipgloss.Color("#af5f00")
		frame = lipgloss.Color("#b0b0b0")
	}

	return palette{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		Label:    lipgloss.NewStyle().Foreground(text),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Dim:      lipgloss.NewStyle().Foreground(dim),
		Value:    lipgloss.NewStyle().Foreground(text),
		OK:       lipgloss.NewStyle().Foreground(ok).Bold(true),
		Warn:     lipgloss.NewStyle().Foreground(warn),
		Help:     lipgloss.NewStyle().Foreground(dim).MarginTop(1),
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(frame).
			Padding(1, 2),
	}
}
