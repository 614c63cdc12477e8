// Package configtui is the interactive editor for assistant.toml.
package configtui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kakuhq/kaku-assist/internal/assist"
)

// Editable fields, in display order.
const (
	fieldEnabled = iota
	fieldAPIKey
	fieldModel
	fieldBaseURL
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldEnabled: "Enabled",
	fieldAPIKey:  "API key",
	fieldModel:   "Model",
	fieldBaseURL: "Base URL",
}

// Model is the bubbletea model for the settings editor.
type Model struct {
	settings assist.Settings
	inputs   [fieldCount]textinput.Model
	cursor   int
	editing  bool
	saved    bool
	err      error
	quitting bool
	styles   palette

	// save is a seam for tests; defaults to assist.SaveSettings.
	save func(assist.Settings) error
}

// New builds the editor over the current on-disk settings.
func New() Model {
	s := assist.LoadSettings()

	var inputs [fieldCount]textinput.Model
	for i := range inputs {
		in := textinput.New()
		in.CharLimit = 256
		in.Width = 48
		inputs[i] = in
	}
	inputs[fieldAPIKey].Placeholder = "sk-..."
	inputs[fieldAPIKey].EchoMode = textinput.EchoPassword
	inputs[fieldAPIKey].EchoCharacter = '*'
	inputs[fieldAPIKey].SetValue(s.APIKey)
	inputs[fieldModel].Placeholder = assist.DefaultModel
	inputs[fieldModel].SetValue(s.Model)
	inputs[fieldBaseURL].Placeholder = assist.DefaultBaseURL
	inputs[fieldBaseURL].SetValue(s.BaseURL)

	return Model{
		settings: s,
		inputs:   inputs,
		styles:   newPalette(),
		save:     assist.SaveSettings,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.editing {
		return m.updateEditing(key)
	}
	return m.updateBrowsing(key)
}

func (m Model) updateBrowsing(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "esc", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		m.cursor--
		if m.cursor < 0 {
			m.cursor = fieldCount - 1
		}

	case "down", "j", "tab":
		m.cursor = (m.cursor + 1) % fieldCount

	case " ":
		if m.cursor == fieldEnabled {
			m.toggleEnabled()
		}

	case "enter":
		if m.cursor == fieldEnabled {
			m.toggleEnabled()
			break
		}
		m.editing = true
		m.inputs[m.cursor].Focus()
		return m, textinput.Blink

	case "s", "ctrl+s":
		return m.commit()
	}
	return m, nil
}

func (m Model) updateEditing(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		// Discard the edit, restore the stored value.
		m.editing = false
		m.inputs[m.cursor].Blur()
		m.inputs[m.cursor].SetValue(m.fieldValue(m.cursor))
		return m, nil

	case "enter":
		m.editing = false
		m.inputs[m.cursor].Blur()
		m.storeField(m.cursor)
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.cursor], cmd = m.inputs[m.cursor].Update(key)
	return m, cmd
}

func (m *Model) toggleEnabled() {
	v := !m.settings.IsEnabled()
	m.settings.Enabled = &v
	m.saved = false
}

func (m Model) fieldValue(field int) string {
	switch field {
	case fieldAPIKey:
		return m.settings.APIKey
	case fieldModel:
		return m.settings.Model
	case fieldBaseURL:
		return m.settings.BaseURL
	}
	return ""
}

func (m *Model) storeField(field int) {
	val := strings.TrimSpace(m.inputs[field].Value())
	switch field {
	case fieldAPIKey:
		m.settings.APIKey = val
	case fieldModel:
		m.settings.Model = val
	case fieldBaseURL:
		m.settings.BaseURL = val
	}
	m.saved = false
}

func (m Model) commit() (tea.Model, tea.Cmd) {
	if err := m.save(m.settings); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.saved = true
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("kaku-assist settings"))
	b.WriteString("\n")

	for i := 0; i < fieldCount; i++ {
		marker := "  "
		label := m.styles.Label.Render(fieldLabels[i])
		if i == m.cursor {
			marker = m.styles.Selected.Render("> ")
			label = m.styles.Selected.Render(fieldLabels[i])
		}

		var value string
		switch {
		case i == fieldEnabled:
			if m.settings.IsEnabled() {
				value = m.styles.OK.Render("on")
			} else {
				value = m.styles.Warn.Render("off")
			}
		case m.editing && i == m.cursor:
			value = m.inputs[i].View()
		default:
			value = m.styles.Value.Render(m.displayValue(i))
		}

		fmt.Fprintf(&b, "%s%-10s %s\n", marker, label, value)
	}

	switch {
	case m.err != nil:
		b.WriteString(m.styles.Warn.Render(fmt.Sprintf("save failed: %v", m.err)))
		b.WriteString("\n")
	case m.saved:
		b.WriteString(m.styles.OK.Render("saved"))
		b.WriteString("\n")
	}

	help := "up/down navigate · enter edit · space toggle · s save · q quit"
	if m.editing {
		help = "enter confirm · esc discard"
	}
	b.WriteString(m.styles.Help.Render(help))

	return m.styles.Frame.Render(b.String())
}

func (m Model) displayValue(field int) string {
	val := m.fieldValue(field)
	if field == fieldAPIKey {
		if val == "" {
			return m.styles.Dim.Render("(not set)")
		}
		return maskKey(val)
	}
	if val == "" {
		return m.styles.Dim.Render("(default)")
	}
	return val
}

// maskKey hides all but the last 4 characters of an API key.
func maskKey(key string) string {
	const visible = 4
	if len(key) <= visible {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-visible) + key[len(key)-visible:]
}

// Run launches the editor and blocks until the user quits.
func Run() error {
	_, err := tea.NewProgram(New()).Run()
	return err
}
