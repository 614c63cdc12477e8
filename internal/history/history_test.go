package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInsertAndList(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Insert(Entry{
		Pane: "%1", Command: "gti status", ExitCode: 127,
		Summary: "Typo in git.", Suggestion: "git status",
		Model: "gpt-5-mini", Confidence: 0.95,
	}))
	require.NoError(t, s.Insert(Entry{
		Pane: "%2", Command: "make buidl", ExitCode: 2,
		Summary: "Unknown target.", Suggestion: "make build",
		Model: "gpt-5-mini", Confidence: 0.9,
		CreatedAt: time.Now().UTC().Add(time.Minute),
	}))

	entries, err := s.List(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "make build", entries[0].Suggestion)
	assert.Equal(t, "git status", entries[1].Suggestion)
	assert.Equal(t, 127, entries[1].ExitCode)
	assert.InDelta(t, 0.95, entries[1].Confidence, 0.001)
	assert.False(t, entries[1].CreatedAt.IsZero())
}

func TestListLimit(t *testing.T) {
	s := openTestStore(t)
	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Insert(Entry{
			Pane: "%1", Command: "x", Summary: "s", Suggestion: "y",
			Model: "m", CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}
	entries, err := s.List(3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestPrune(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.Insert(Entry{
		Pane: "%1", Command: "old", Summary: "s", Suggestion: "y", Model: "m",
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
	}))
	require.NoError(t, s.Insert(Entry{
		Pane: "%1", Command: "new", Summary: "s", Suggestion: "y", Model: "m",
	}))

	n, err := s.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	entries, err := s.List(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].Command)
}

func TestCloseNil(t *testing.T) {
	var s *Store
	assert.NoError(t, s.Close())
}
