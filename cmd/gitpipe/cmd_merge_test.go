package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// divergedRepo builds main and a feature branch that share one root
// commit, with the worktree back on main.
func divergedRepo(t *testing.T) *cliTest {
	t.Helper()
	c := newCliTest(t)
	c.commitFile("a.txt", "base\n", "base")
	c.git("checkout", "-q", "-b", "feature")
	c.commitFile("b.txt", "feature work\n", "feature commit")
	c.git("checkout", "-q", "main")
	return c
}

func TestMergeCommand(t *testing.T) {
	t.Run("fast forwards when possible", func(t *testing.T) {
		c := divergedRepo(t)

		out, err := c.run(newMergeCmd, "feature")
		require.NoError(t, err)
		assert.Contains(t, out, "fast-forwarded to")
		assert.Equal(t, c.git("rev-parse", "feature"), c.git("rev-parse", "HEAD"))
	})

	t.Run("no-ff records a merge commit", func(t *testing.T) {
		c := divergedRepo(t)

		out, err := c.run(newMergeCmd, "--no-ff", "-m", "join feature", "feature")
		require.NoError(t, err)
		assert.Contains(t, out, "merged as")
		assert.Equal(t, c.git("rev-parse", "feature"), c.git("rev-parse", "HEAD^2"))
		assert.Equal(t, "join feature", c.git("log", "-1", "--pretty=%s"))
	})

	t.Run("already up to date", func(t *testing.T) {
		c := newCliTest(t)
		c.commitFile("a.txt", "one\n", "first")
		c.git("branch", "old")
		c.commitFile("a.txt", "two\n", "second")

		out, err := c.run(newMergeCmd, "old")
		require.NoError(t, err)
		assert.Contains(t, out, "Already up to date.")
	})

	t.Run("conflict lists paths and fails", func(t *testing.T) {
		c := newCliTest(t)
		c.commitFile("a.txt", "base\n", "base")
		c.git("checkout", "-q", "-b", "feature")
		c.commitFile("a.txt", "feature side\n", "feature edit")
		c.git("checkout", "-q", "main")
		c.commitFile("a.txt", "main side\n", "main edit")

		out, err := c.run(newMergeCmd, "feature")
		require.Error(t, err)
		assert.Contains(t, out, "merge stopped on conflicts")
		assert.Contains(t, out, "a.txt")
		assert.Contains(t, c.git("status", "--porcelain"), "UU a.txt")
	})

	t.Run("ff-only refuses a diverged merge", func(t *testing.T) {
		c := divergedRepo(t)
		c.commitFile("c.txt", "main work\n", "main commit")

		_, err := c.run(newMergeCmd, "--ff-only", "feature")
		require.Error(t, err)
	})

	t.Run("squash stages without committing", func(t *testing.T) {
		c := divergedRepo(t)

		out, err := c.run(newMergeCmd, "--squash", "feature")
		require.NoError(t, err)
		assert.Contains(t, out, "squashed changes staged")
		assert.Contains(t, c.git("status", "--porcelain"), "A  b.txt")
		assert.Equal(t, "1", c.git("rev-list", "--count", "HEAD"))
	})

	t.Run("ff-only and no-ff are mutually exclusive", func(t *testing.T) {
		c := newCliTest(t)
		_, err := c.run(newMergeCmd, "--ff-only", "--no-ff", "feature")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "mutually exclusive")
	})
}
