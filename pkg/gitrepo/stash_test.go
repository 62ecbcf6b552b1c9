package gitrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
)

func TestParseStashLine(t *testing.T) {
	entry, perr := parseStashLine("stash@{0}\x00" + hexA + "\x00WIP on main: 1234abc first")
	require.NoError(t, perr)
	assert.Equal(t, 0, entry.Index)
	assert.Equal(t, hexA, entry.Id.String())
	assert.Equal(t, "main", entry.Branch)
	assert.Equal(t, "WIP on main: 1234abc first", entry.Subject)
	assert.Equal(t, "stash@{0}", entry.Name())
}

func TestParseStashLineCustomMessage(t *testing.T) {
	entry, perr := parseStashLine("stash@{3}\x00" + hexB + "\x00On feature: half-done refactor")
	require.NoError(t, perr)
	assert.Equal(t, 3, entry.Index)
	assert.Equal(t, "feature", entry.Branch)
	assert.Equal(t, "On feature: half-done refactor", entry.Subject)
}

func TestParseStashLineNoBranch(t *testing.T) {
	entry, perr := parseStashLine("stash@{1}\x00" + hexC + "\x00autostash")
	require.NoError(t, perr)
	assert.Empty(t, entry.Branch)
}

func TestParseStashLineErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"short record", "stash@{0}\x00" + hexA},
		{"bad selector", "stash(0)\x00" + hexA + "\x00WIP on main: x"},
		{"bad index", "stash@{x}\x00" + hexA + "\x00WIP on main: x"},
		{"bad id", "stash@{0}\x00nothex\x00WIP on main: x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, perr := parseStashLine(tt.line)
			require.Error(t, perr)
			assert.True(t, commonerr.IsCode(perr, commonerr.CodeInvalidFormat))
		})
	}
}

func TestParseStashUpdatedFiles(t *testing.T) {
	stdout := "On branch main\n" +
		"Changes not staged for commit:\n" +
		" M a.txt\n" +
		"M  staged.txt\n" +
		"?? loose.txt\n" +
		"Dropped refs/stash@{0} (0123abc)\n"

	files := parseStashUpdatedFiles(stdout)
	require.Len(t, files, 3)
	assert.Equal(t, StashUpdatedFile{Path: "a.txt", Staged: ' ', Worktree: 'M'}, files[0])
	assert.Equal(t, StashUpdatedFile{Path: "staged.txt", Staged: 'M', Worktree: ' '}, files[1])
	assert.Equal(t, StashUpdatedFile{Path: "loose.txt", Staged: '?', Worktree: '?'}, files[2])
}

func TestStashPushAndPop(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	commitFile(t, dir, "a.txt", "committed\n", "first")
	writeFile(t, dir, "a.txt", "half-done work\n")
	repo := openRepo(t, dir)
	ctx := context.Background()

	require.NoError(t, repo.StashPush(ctx, StashPushOptions{Message: "wip"}))
	assert.Equal(t, "committed\n", readFile(t, dir, "a.txt"))

	entries, lerr := repo.StashList(ctx)
	require.NoError(t, lerr)
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].Index)
	assert.Equal(t, "main", entries[0].Branch)
	assert.Contains(t, entries[0].Subject, "wip")

	files, perr := repo.StashPop(ctx, 0)
	require.NoError(t, perr)
	assert.Equal(t, "half-done work\n", readFile(t, dir, "a.txt"))

	var touched bool
	for _, file := range files {
		if file.Path == "a.txt" {
			touched = true
		}
	}
	assert.True(t, touched, "pop reports the files it rewrote")

	after, aerr := repo.StashList(ctx)
	require.NoError(t, aerr)
	assert.Empty(t, after)
}

func TestStashApplyKeepsEntry(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	commitFile(t, dir, "a.txt", "committed\n", "first")
	writeFile(t, dir, "a.txt", "stashed edit\n")
	repo := openRepo(t, dir)
	ctx := context.Background()

	require.NoError(t, repo.StashPush(ctx, StashPushOptions{}))
	_, aerr := repo.StashApply(ctx, 0)
	require.NoError(t, aerr)
	assert.Equal(t, "stashed edit\n", readFile(t, dir, "a.txt"))

	entries, lerr := repo.StashList(ctx)
	require.NoError(t, lerr)
	assert.Len(t, entries, 1, "apply keeps the entry on the stack")
}

func TestStashIncludeUntracked(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	commitFile(t, dir, "a.txt", "committed\n", "first")
	writeFile(t, dir, "loose.txt", "untracked\n")
	repo := openRepo(t, dir)
	ctx := context.Background()

	require.NoError(t, repo.StashPush(ctx, StashPushOptions{IncludeUntracked: true}))

	status, serr := repo.Status(ctx, StatusOptions{})
	require.NoError(t, serr)
	assert.True(t, status.Clean(), "untracked file went into the stash")

	_, perr := repo.StashPop(ctx, 0)
	require.NoError(t, perr)
	assert.Equal(t, "untracked\n", readFile(t, dir, "loose.txt"))
}

func TestStashDropAndClear(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	commitFile(t, dir, "a.txt", "committed\n", "first")
	repo := openRepo(t, dir)
	ctx := context.Background()

	writeFile(t, dir, "a.txt", "edit one\n")
	require.NoError(t, repo.StashPush(ctx, StashPushOptions{Message: "one"}))
	writeFile(t, dir, "a.txt", "edit two\n")
	require.NoError(t, repo.StashPush(ctx, StashPushOptions{Message: "two"}))

	require.NoError(t, repo.StashDrop(ctx, 0))
	entries, lerr := repo.StashList(ctx)
	require.NoError(t, lerr)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Subject, "one")

	require.NoError(t, repo.StashClear(ctx))
	after, aerr := repo.StashList(ctx)
	require.NoError(t, aerr)
	assert.Empty(t, after)
}

func TestStashPopEmptyStack(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	commitFile(t, dir, "a.txt", "committed\n", "first")
	repo := openRepo(t, dir)

	_, perr := repo.StashPop(context.Background(), 0)
	require.Error(t, perr, "popping an empty stack must fail")

	entries, lerr := repo.StashList(context.Background())
	require.NoError(t, lerr)
	assert.Empty(t, entries)
}
