package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/objects"
	"github.com/utkarsh5026/gitpipe/pkg/progress"
)

func TestSequencerOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts SequencerOptions
		ok   bool
	}{
		{"revs only", SequencerOptions{Revs: []string{"abc"}}, true},
		{"continue only", SequencerOptions{Continue: true}, true},
		{"abort only", SequencerOptions{Abort: true}, true},
		{"nothing", SequencerOptions{}, false},
		{"revs with verb", SequencerOptions{Revs: []string{"abc"}, Abort: true}, false},
		{"two verbs", SequencerOptions{Continue: true, Quit: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := tt.opts.validate("cherry_pick")
			if tt.ok {
				assert.NoError(t, verr)
				return
			}
			require.Error(t, verr)
			assert.True(t, commonerr.IsCode(verr, commonerr.CodeInvalidInput))
		})
	}
}

func TestSequencerOptionsArgs(t *testing.T) {
	assert.Equal(t,
		[]string{"cherry-pick", "--abort"},
		SequencerOptions{Abort: true, Revs: nil}.args("cherry-pick"))
	assert.Equal(t,
		[]string{"revert", "--mainline", "1", "--no-commit", "abc"},
		SequencerOptions{Mainline: 1, NoCommit: true, Revs: []string{"abc"}}.args("revert"))
}

func TestSequencerWantHead(t *testing.T) {
	assert.True(t, SequencerOptions{Revs: []string{"abc"}}.wantHead())
	assert.True(t, SequencerOptions{Continue: true}.wantHead())
	assert.False(t, SequencerOptions{NoCommit: true, Revs: []string{"abc"}}.wantHead())
	assert.False(t, SequencerOptions{Abort: true}.wantHead())
}

func TestCherryPickAppliesCommit(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	commitFile(t, dir, "a.txt", "base\n", "base")
	runGit(t, dir, "checkout", "-q", "-b", "topic")
	picked := commitFile(t, dir, "feature.txt", "feature\n", "add feature")
	runGit(t, dir, "checkout", "-q", "main")
	repo := openRepo(t, dir)
	ctx := context.Background()

	res, perr := repo.CherryPick(ctx, SequencerOptions{Revs: []string{picked}})
	require.NoError(t, perr)
	require.NotNil(t, res)
	assert.NotEqual(t, objects.ZeroId, res.Head)
	assert.NotEqual(t, picked, res.Head.String(), "pick creates a new commit")

	_, serr := os.Stat(filepath.Join(dir, "feature.txt"))
	assert.NoError(t, serr)
	assert.Equal(t, "add feature", runGit(t, dir, "log", "-1", "--pretty=%s"))
}

func TestCherryPickNoCommit(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	head := commitFile(t, dir, "a.txt", "base\n", "base")
	runGit(t, dir, "checkout", "-q", "-b", "topic")
	picked := commitFile(t, dir, "feature.txt", "feature\n", "add feature")
	runGit(t, dir, "checkout", "-q", "main")
	repo := openRepo(t, dir)
	ctx := context.Background()

	res, perr := repo.CherryPick(ctx, SequencerOptions{Revs: []string{picked}, NoCommit: true})
	require.NoError(t, perr)
	require.NotNil(t, res)
	assert.Equal(t, objects.ZeroId, res.Head, "no commit means no new head to resolve")
	assert.Equal(t, head, runGit(t, dir, "rev-parse", "HEAD"))

	status, serr := repo.Status(ctx, StatusOptions{})
	require.NoError(t, serr)
	assert.False(t, status.Clean(), "picked change stays staged")
}

func TestCherryPickConflictAndAbort(t *testing.T) {
	requireGit(t)
	dir := divergedRepo(t, true)
	repo := openRepo(t, dir)
	ctx := context.Background()

	before, herr := repo.RevParse(ctx, "HEAD")
	require.NoError(t, herr)

	res, perr := repo.CherryPick(ctx, SequencerOptions{Revs: []string{"topic"}})
	require.Error(t, perr)
	assert.ErrorIs(t, perr, gitcmd.ErrMergeConflict)
	require.NotNil(t, res)
	assert.Equal(t, progress.OutcomeConflicted, res.Outcome)
	assert.Contains(t, res.Conflicts, "a.txt")

	_, aerr := repo.CherryPick(ctx, SequencerOptions{Abort: true})
	require.NoError(t, aerr)

	after, werr := repo.RevParse(ctx, "HEAD")
	require.NoError(t, werr)
	assert.Equal(t, before, after)

	status, serr := repo.Status(ctx, StatusOptions{})
	require.NoError(t, serr)
	assert.True(t, status.Clean())
}

func TestRevertUndoesCommit(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	commitFile(t, dir, "a.txt", "good\n", "good state")
	bad := commitFile(t, dir, "a.txt", "regression\n", "bad change")
	repo := openRepo(t, dir)
	ctx := context.Background()

	res, rerr := repo.Revert(ctx, SequencerOptions{Revs: []string{bad}})
	require.NoError(t, rerr)
	require.NotNil(t, res)
	assert.NotEqual(t, objects.ZeroId, res.Head)
	assert.Equal(t, "good\n", readFile(t, dir, "a.txt"))
}

func TestCherryPickValidatesOptions(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	repo := openRepo(t, dir)

	_, perr := repo.CherryPick(context.Background(), SequencerOptions{})
	require.Error(t, perr)
	assert.True(t, commonerr.IsCode(perr, commonerr.CodeInvalidInput))
}
