// Package git provides the repository context kaku-assist attaches to
// analysis requests.
package git

import (
	"os/exec"
	"strings"
)

// IsRepo checks if the given directory is inside a git repository.
func IsRepo(dir string) bool {
	cmd := exec.Command("git", "-C", dir, "rev-parse", "--git-dir")
	return cmd.Run() == nil
}

// CurrentBranch returns the branch checked out at dir, or "" if dir is not
// a repository or HEAD is detached with no symbolic name. Best effort: the
// analysis prompt tolerates an empty branch.
func CurrentBranch(dir string) string {
	if dir == "" {
		return ""
	}
	cmd := exec.Command("git", "-C", dir, "rev-parse", "--abbrev-ref", "HEAD")
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	branch := strings.TrimSpace(string(out))
	if branch == "HEAD" {
		// Detached HEAD reports the literal string "HEAD".
		return ""
	}
	return branch
}

// RepoRoot returns the top-level directory of the repository containing dir.
func RepoRoot(dir string) (string, bool) {
	cmd := exec.Command("git", "-C", dir, "rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(out)), true
}
