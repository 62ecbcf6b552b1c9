package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedRepo builds a repository with one commit outside the test's
// working directory, for use as a clone source.
func seedRepo(t *testing.T, name string) (string, string) {
	t.Helper()
	src := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(src, 0o755))
	initRepoAt(t, src)
	head := commitFileIn(t, src, "a.txt", "one\n", "first")
	return src, head
}

func TestCloneCommand(t *testing.T) {
	t.Run("clones into a named directory", func(t *testing.T) {
		ws := newCliWorkspace(t)
		src, head := seedRepo(t, "seed")

		out, err := runCommand(t, newCloneCmd, src, "copy")
		require.NoError(t, err)
		assert.Contains(t, out, "cloned into")
		assert.Contains(t, out, "copy")
		assert.Equal(t, head, runGit(t, filepath.Join(ws, "copy"), "rev-parse", "HEAD"))
	})

	t.Run("derives the directory from the url", func(t *testing.T) {
		ws := newCliWorkspace(t)
		src, head := seedRepo(t, "project.git")

		out, err := runCommand(t, newCloneCmd, src)
		require.NoError(t, err)
		assert.Contains(t, out, "cloned into")
		assert.Contains(t, out, "project")
		assert.Equal(t, head, runGit(t, filepath.Join(ws, "project"), "rev-parse", "HEAD"))
	})

	t.Run("bare clone has no working tree", func(t *testing.T) {
		ws := newCliWorkspace(t)
		src, _ := seedRepo(t, "seed")

		_, err := runCommand(t, newCloneCmd, "--bare", src, "mirror.git")
		require.NoError(t, err)
		assert.Equal(t, "true", runGit(t, filepath.Join(ws, "mirror.git"), "rev-parse", "--is-bare-repository"))
	})

	t.Run("checks out a requested branch", func(t *testing.T) {
		ws := newCliWorkspace(t)
		src, _ := seedRepo(t, "seed")
		runGit(t, src, "branch", "side")

		_, err := runCommand(t, newCloneCmd, "-b", "side", src, "sided")
		require.NoError(t, err)
		assert.Equal(t, "side", runGit(t, filepath.Join(ws, "sided"), "rev-parse", "--abbrev-ref", "HEAD"))
	})

	t.Run("missing source fails", func(t *testing.T) {
		ws := newCliWorkspace(t)

		_, err := runCommand(t, newCloneCmd, filepath.Join(ws, "nowhere"), "copy")
		require.Error(t, err)
	})
}

func TestCloneDir(t *testing.T) {
	cases := map[string]string{
		"https://example.com/team/project.git": "project",
		"git@example.com:team/project.git":     "project",
		"/var/repos/seed/":                     "seed",
		"project":                              "project",
		"":                                     "repository",
	}
	for url, want := range cases {
		assert.Equal(t, want, cloneDir(url), "url %q", url)
	}
}
