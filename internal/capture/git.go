package capture

import (
	"os/exec"
	"path/filepath"
	"strings"
)

// detectGitRepo returns the repo name (last path segment of the
// worktree root) for the given directory, or "" outside a repo.
func detectGitRepo(cwd string) string {
	out, err := gitOutput(cwd, "rev-parse", "--show-toplevel")
	if err != nil || out == "" {
		return ""
	}
	return filepath.Base(out)
}

// detectGitBranch returns the current branch name, or "" when detached
// or outside a repo.
func detectGitBranch(cwd string) string {
	out, err := gitOutput(cwd, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil || out == "" || out == "HEAD" {
		return ""
	}
	return out
}

func gitOutput(cwd string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = cwd
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
