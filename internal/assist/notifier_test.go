package assist

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePane records pane operations in order. Safe for use from the
// manager's job goroutines.
type fakePane struct {
	mu  sync.Mutex
	ops []string
}

func (f *fakePane) record(op, arg string) error {
	if arg != "" {
		op += " " + arg
	}
	f.mu.Lock()
	f.ops = append(f.ops, op)
	f.mu.Unlock()
	return nil
}

// Ops returns a copy of the recorded operations.
func (f *fakePane) Ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

func (f *fakePane) SendKeys(text string) error         { return f.record("keys", text) }
func (f *fakePane) SendEnter() error                   { return f.record("enter", "") }
func (f *fakePane) SendCtrlU() error                   { return f.record("ctrl-u", "") }
func (f *fakePane) SendTextAndEnter(text string) error { return f.record("run", text) }
func (f *fakePane) DisplayMessage(text string) error   { return f.record("toast", text) }
func (f *fakePane) ShowText(block string) error        { return f.record("print", block) }

func fakeDialer() (*fakePane, PaneDialer) {
	p := &fakePane{}
	return p, func(string) PaneIO { return p }
}

func TestApplyRunsSafeCommand(t *testing.T) {
	pane, dial := fakeDialer()
	n := NewNotifier(dial)

	n.Apply("%1", Session{Suggestion: &Suggestion{Command: "git status"}})

	require.Len(t, pane.ops, 2)
	assert.Equal(t, "ctrl-u", pane.ops[0])
	assert.Equal(t, "run git status", pane.ops[1])
}

func TestApplyPastesDangerousWithoutEnter(t *testing.T) {
	pane, dial := fakeDialer()
	n := NewNotifier(dial)

	n.Apply("%1", Session{Suggestion: &Suggestion{Command: "rm -rf build"}})

	require.GreaterOrEqual(t, len(pane.ops), 2)
	assert.Equal(t, "ctrl-u", pane.ops[0])
	assert.Equal(t, "keys rm -rf build", pane.ops[1])
	for _, op := range pane.ops {
		assert.NotContains(t, op, "run ", "dangerous command must not auto-run")
	}
}

func TestApplyWithoutSuggestion(t *testing.T) {
	pane, dial := fakeDialer()
	n := NewNotifier(dial)

	n.Apply("%1", Session{})

	require.Len(t, pane.ops, 1)
	assert.Contains(t, pane.ops[0], "no suggestion available")
}

func TestApplyWithSummaryOnlySuggestion(t *testing.T) {
	pane, dial := fakeDialer()
	n := NewNotifier(dial)

	n.Apply("%1", Session{Suggestion: &Suggestion{Summary: "Service is down."}})

	require.Len(t, pane.ops, 1)
	assert.Contains(t, pane.ops[0], "no suggestion available")
}

func TestShowSuggestionTwoLines(t *testing.T) {
	pane, dial := fakeDialer()
	n := NewNotifier(dial)

	n.ShowSuggestion("%1", &Suggestion{Summary: "Typo in git.", Command: "git status"})

	require.Len(t, pane.ops, 1)
	assert.Contains(t, pane.ops[0], "Typo in git.")
	assert.Contains(t, pane.ops[0], "`git status`")
	assert.Contains(t, pane.ops[0], "kaku-assist apply")
}

func TestShowSuggestionSummaryOnly(t *testing.T) {
	pane, dial := fakeDialer()
	n := NewNotifier(dial)

	n.ShowSuggestion("%1", &Suggestion{Summary: "Network unreachable."})

	require.Len(t, pane.ops, 1)
	assert.Contains(t, pane.ops[0], "Network unreachable.")
	assert.NotContains(t, pane.ops[0], "apply")
}

func TestShowLoadingTruncatesCommand(t *testing.T) {
	pane, dial := fakeDialer()
	n := NewNotifier(dial)

	long := "some-very-long-command --with --plenty --of --flags --and --arguments"
	n.ShowLoading("%1", long)

	require.Len(t, pane.ops, 1)
	assert.Contains(t, pane.ops[0], "analyzing")
	assert.Less(t, len(pane.ops[0]), len(long)+30)
}
