// Package gitops records journal updates in git.
package gitops

import (
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNotRepo is returned when a path is not inside a git work tree.
var ErrNotRepo = errors.New("not inside a git repository")

// RepoRoot returns the top-level directory of the work tree containing path.
func RepoRoot(path string) (string, error) {
	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%s: %w", dir, ErrNotRepo)
		}
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// IsRepo reports whether path lies inside a git work tree.
func IsRepo(path string) bool {
	_, err := RepoRoot(path)
	return err == nil
}

// CommitFile stages the file at path and commits the index with message.
// Unstaged changes to other files are left alone. Returns the short commit
// hash.
func CommitFile(path, message, authorName, authorEmail string) (string, error) {
	root, err := RepoRoot(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	// The work tree root may be a symlinked path (e.g. macOS /var).
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", fmt.Errorf("locating %s in %s: %w", path, root, err)
	}

	add := exec.Command("git", "add", "--", rel)
	add.Dir = root
	if out, err := add.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	author := fmt.Sprintf("%s <%s>", authorName, authorEmail)
	commit := exec.Command("git",
		"-c", "user.name="+authorName,
		"-c", "user.email="+authorEmail,
		"commit", "-m", message, "--author", author,
	)
	commit.Dir = root
	if out, err := commit.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	rev := exec.Command("git", "rev-parse", "--short", "HEAD")
	rev.Dir = root
	out, err := rev.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CommitMessage describes an import of n transactions from the named
// statements.
func CommitMessage(n int, statements []string) string {
	names := make([]string, len(statements))
	for i, s := range statements {
		names[i] = filepath.Base(s)
	}
	noun := "transactions"
	if n == 1 {
		noun = "transaction"
	}
	if len(names) == 0 {
		return fmt.Sprintf("import: %d %s", n, noun)
	}
	return fmt.Sprintf("import: %d %s from %s", n, noun, strings.Join(names, ", "))
}
