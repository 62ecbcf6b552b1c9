package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
	"github.com/utkarsh5026/gitpipe/pkg/config"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, lerr := exec.LookPath("git"); lerr != nil {
		t.Skip("git not available, skipping command integration test")
	}
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
	out, rerr := cmd.CombinedOutput()
	require.NoError(t, rerr, "git %v: %s", args, out)
	return strings.TrimSpace(string(out))
}

// initRepoAt turns dir into a repository on branch main with commit
// identity configured.
func initRepoAt(t *testing.T, dir string) {
	t.Helper()
	runGit(t, dir, "init", "-q", "-b", "main")
	runGit(t, dir, "config", "user.name", "Test User")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "commit.gpgsign", "false")
}

func writeFileIn(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func commitFileIn(t *testing.T, dir, name, content, message string) string {
	t.Helper()
	writeFileIn(t, dir, name, content)
	runGit(t, dir, "add", name)
	runGit(t, dir, "commit", "-q", "-m", message)
	return runGit(t, dir, "rev-parse", "HEAD")
}

// isolateConfig points configuration lookup at throwaway directories
// and blanks the GITPIPE_* overrides so commands never read the host's
// files.
func isolateConfig(t *testing.T) {
	t.Helper()

	// Registered before Setenv so it runs after the env restore and
	// re-reads the host's real values.
	t.Cleanup(func() { xdg.Reload() })

	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "user"))
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(base, "system"))
	xdg.Reload()

	for _, name := range []string{
		config.EnvBinary, config.EnvObjectMax, config.EnvQueueBound,
		config.EnvQueuePolicy, config.EnvLogLevel, config.EnvLogFormat,
	} {
		t.Setenv(name, "")
	}
}

// resetGlobals snapshots the process-wide command state and restores
// it after the test. Confirmations answer yes and styling is off, so
// commands run non-interactively with assertable output.
func resetGlobals(t *testing.T) {
	t.Helper()

	prevSettings := settings
	prevYes := assumeYes
	prevBinary := gitBinary
	prevStyled := ui.Styled()
	t.Cleanup(func() {
		settings = prevSettings
		assumeYes = prevYes
		gitBinary = prevBinary
		ui.SetStyled(prevStyled)
	})

	settings = config.Default()
	assumeYes = true
	gitBinary = ""
	ui.SetStyled(false)
}

// chdir reproduces testing.T.Chdir (Go 1.24) for older toolchains:
// enter dir, keep PWD in sync for the test's duration, and restore the
// original working directory during cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	oldwd, err := os.Open(".")
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	switch runtime.GOOS {
	case "windows", "plan9":
		// These platforms do not use the PWD variable.
	default:
		if !filepath.IsAbs(dir) {
			dir, err = os.Getwd()
			if err != nil {
				t.Fatal(err)
			}
		}
		t.Setenv("PWD", dir)
	}
	t.Cleanup(func() {
		err := oldwd.Chdir()
		oldwd.Close()
		if err != nil {
			// Not safe to continue testing if we cannot return to
			// the original working directory.
			panic("chdir: " + err.Error())
		}
	})
}

// cliTest drives command constructors against a real repository from
// inside its working tree.
type cliTest struct {
	t   *testing.T
	dir string
}

// newCliTest creates a repository and moves the test into it.
func newCliTest(t *testing.T) *cliTest {
	t.Helper()
	requireGit(t)
	isolateConfig(t)
	resetGlobals(t)

	dir := t.TempDir()
	initRepoAt(t, dir)
	chdir(t, dir)

	return &cliTest{t: t, dir: dir}
}

// newCliWorkspace prepares an isolated directory without a repository
// in it, for commands that create or find one themselves.
func newCliWorkspace(t *testing.T) string {
	t.Helper()
	requireGit(t)
	isolateConfig(t)
	resetGlobals(t)

	dir := t.TempDir()
	chdir(t, dir)
	return dir
}

// newCliRemotePair builds a working repository wired to a bare origin
// in a sibling directory, leaving the test inside the working tree.
func newCliRemotePair(t *testing.T) (*cliTest, string) {
	t.Helper()
	requireGit(t)
	isolateConfig(t)
	resetGlobals(t)

	base := t.TempDir()
	origin := filepath.Join(base, "origin.git")
	require.NoError(t, os.MkdirAll(origin, 0o755))
	runGit(t, origin, "init", "-q", "--bare", "-b", "main")

	work := filepath.Join(base, "work")
	require.NoError(t, os.MkdirAll(work, 0o755))
	initRepoAt(t, work)
	runGit(t, work, "remote", "add", "origin", origin)
	chdir(t, work)

	return &cliTest{t: t, dir: work}, origin
}

// clonePeer makes a second clone of the same origin, for commits that
// arrive from elsewhere.
func clonePeer(t *testing.T, origin string) *cliTest {
	t.Helper()
	base := t.TempDir()
	runGit(t, base, "clone", "-q", origin, "peer")
	peer := filepath.Join(base, "peer")
	runGit(t, peer, "config", "user.name", "Peer User")
	runGit(t, peer, "config", "user.email", "peer@example.com")
	runGit(t, peer, "config", "commit.gpgsign", "false")
	return &cliTest{t: t, dir: peer}
}

func (c *cliTest) git(args ...string) string {
	c.t.Helper()
	return runGit(c.t, c.dir, args...)
}

func (c *cliTest) writeFile(name, content string) {
	c.t.Helper()
	writeFileIn(c.t, c.dir, name, content)
}

func (c *cliTest) commitFile(name, content, message string) string {
	c.t.Helper()
	return commitFileIn(c.t, c.dir, name, content, message)
}

// run executes one freshly built command with the given arguments and
// returns everything it printed.
func (c *cliTest) run(build func() *cobra.Command, args ...string) (string, error) {
	c.t.Helper()
	return runCommand(c.t, build, args...)
}

func runCommand(t *testing.T, build func() *cobra.Command, args ...string) (string, error) {
	t.Helper()
	cmd := build()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
