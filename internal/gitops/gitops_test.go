package gitops

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	cmd := exec.Command("git", "init", "-q")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, string(out))
	return dir
}

func gitLog(t *testing.T, dir, format string) string {
	t.Helper()
	cmd := exec.Command("git", "log", "--format="+format, "-1")
	cmd.Dir = dir
	out, err := cmd.Output()
	require.NoError(t, err)
	return string(out)
}

func TestIsRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	plain := t.TempDir()
	assert.False(t, IsRepo(filepath.Join(plain, "main.ledger")))

	repo := initRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "books"), 0o755))
	assert.True(t, IsRepo(filepath.Join(repo, "books", "main.ledger")))
}

func TestRepoRoot_NotRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	_, err := RepoRoot(filepath.Join(t.TempDir(), "main.ledger"))
	assert.ErrorIs(t, err, ErrNotRepo)
}

func TestCommitFile(t *testing.T) {
	dir := initRepo(t)
	journal := filepath.Join(dir, "main.ledger")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(journal, []byte("2021/01/05    Supermarket\n"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("untouched"), 0o644))

	hash, err := CommitFile(journal, "import: 1 transaction", "Test Author", "test@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.Contains(t, gitLog(t, dir, "%s"), "import: 1 transaction")
	assert.Contains(t, gitLog(t, dir, "%an <%ae>"), "Test Author <test@example.com>")

	files := exec.Command("git", "show", "--name-only", "--format=", "HEAD")
	files.Dir = dir
	out, err := files.Output()
	require.NoError(t, err)
	assert.Equal(t, "main.ledger\n", string(out), "only the journal is committed")
}

func TestCommitFile_Subdirectory(t *testing.T) {
	dir := initRepo(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "books"), 0o755))
	journal := filepath.Join(dir, "books", "2021.ledger")
	require.NoError(t, os.WriteFile(journal, []byte("; empty\n"), 0o644))

	_, err := CommitFile(journal, "import: 0 transactions", "A", "a@example.com")
	require.NoError(t, err)
	assert.Contains(t, gitLog(t, dir, "%s"), "import: 0 transactions")
}

func TestCommitFile_NotRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	journal := filepath.Join(t.TempDir(), "main.ledger")
	require.NoError(t, os.WriteFile(journal, nil, 0o644))

	_, err := CommitFile(journal, "msg", "A", "a@example.com")
	assert.ErrorIs(t, err, ErrNotRepo)
}

func TestCommitMessage(t *testing.T) {
	tests := []struct {
		n          int
		statements []string
		want       string
	}{
		{3, []string{"/tmp/checking.csv", "savings.csv"}, "import: 3 transactions from checking.csv, savings.csv"},
		{1, []string{"checking.csv"}, "import: 1 transaction from checking.csv"},
		{0, nil, "import: 0 transactions"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CommitMessage(tt.n, tt.statements))
	}
}
