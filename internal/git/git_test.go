package git

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gitAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, args := range [][]string{
		{"init", "-b", "main"},
		{"config", "user.email", "test@example.com"},
		{"config", "user.name", "test"},
		{"commit", "--allow-empty", "-m", "init"},
	} {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	return dir
}

func TestIsRepo(t *testing.T) {
	if !gitAvailable() {
		t.Skip("git not installed")
	}
	repo := initRepo(t)
	assert.True(t, IsRepo(repo))
	assert.False(t, IsRepo(t.TempDir()))
}

func TestCurrentBranch(t *testing.T) {
	if !gitAvailable() {
		t.Skip("git not installed")
	}
	repo := initRepo(t)
	assert.Equal(t, "main", CurrentBranch(repo))
	assert.Equal(t, "", CurrentBranch(t.TempDir()))
	assert.Equal(t, "", CurrentBranch(""))
}

func TestRepoRoot(t *testing.T) {
	if !gitAvailable() {
		t.Skip("git not installed")
	}
	repo := initRepo(t)
	root, ok := RepoRoot(repo)
	assert.True(t, ok)
	assert.NotEmpty(t, root)

	_, ok = RepoRoot(t.TempDir())
	assert.False(t, ok)
}
