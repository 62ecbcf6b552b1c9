package gitrepo

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, lerr := exec.LookPath("git"); lerr != nil {
		t.Skip("git not available, skipping repository integration test")
	}
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, rerr := cmd.CombinedOutput()
	require.NoError(t, rerr, "git %v: %s", args, out)
	return strings.TrimSpace(string(out))
}

// initWorkRepo creates a repository on branch main with commit
// identity configured, returning its directory.
func initWorkRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runGit(t, dir, "init", "-q", "-b", "main")
	runGit(t, dir, "config", "user.name", "Test User")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "commit.gpgsign", "false")
	return dir
}

func openRepo(t *testing.T, dir string) *Repository {
	t.Helper()
	repo, oerr := Open(dir)
	require.NoError(t, oerr)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func commitFile(t *testing.T, dir, name, content, message string) string {
	t.Helper()
	writeFile(t, dir, name, content)
	runGit(t, dir, "add", name)
	runGit(t, dir, "commit", "-q", "-m", message)
	return runGit(t, dir, "rev-parse", "HEAD")
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	content, rerr := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, rerr)
	return string(content)
}
