package gitrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
)

func TestParseBranchLine(t *testing.T) {
	line := "main\x00" + hexA + "\x00*\x00origin/main\x00[ahead 2, behind 1]\x00tip subject"

	info, perr := parseBranchLine(line)
	require.NoError(t, perr)
	assert.Equal(t, "main", info.Name)
	assert.Equal(t, hexA, info.Id.String())
	assert.True(t, info.Current)
	assert.Equal(t, "origin/main", info.Upstream)
	assert.Equal(t, 2, info.Ahead)
	assert.Equal(t, 1, info.Behind)
	assert.False(t, info.UpstreamGone)
	assert.Equal(t, "tip subject", info.Subject)
}

func TestParseBranchLineNoUpstream(t *testing.T) {
	line := "topic\x00" + hexB + "\x00\x00\x00\x00work in progress"

	info, perr := parseBranchLine(line)
	require.NoError(t, perr)
	assert.Equal(t, "topic", info.Name)
	assert.False(t, info.Current)
	assert.Empty(t, info.Upstream)
	assert.Zero(t, info.Ahead)
	assert.Zero(t, info.Behind)
}

func TestParseBranchLineErrors(t *testing.T) {
	_, perr := parseBranchLine("too\x00short")
	require.Error(t, perr)
	assert.True(t, commonerr.IsCode(perr, commonerr.CodeInvalidFormat))

	_, ierr := parseBranchLine("main\x00nothex\x00*\x00\x00\x00subject")
	require.Error(t, ierr)
	assert.True(t, commonerr.IsCode(ierr, commonerr.CodeInvalidFormat))
}

func TestParseUpstreamTrack(t *testing.T) {
	tests := []struct {
		track  string
		ahead  int
		behind int
		gone   bool
	}{
		{"", 0, 0, false},
		{"[ahead 1]", 1, 0, false},
		{"[behind 3]", 0, 3, false},
		{"[ahead 4, behind 2]", 4, 2, false},
		{"[gone]", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.track, func(t *testing.T) {
			ahead, behind, gone := parseUpstreamTrack(tt.track)
			assert.Equal(t, tt.ahead, ahead)
			assert.Equal(t, tt.behind, behind)
			assert.Equal(t, tt.gone, gone)
		})
	}
}

func TestBranchLifecycle(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	head := commitFile(t, dir, "a.txt", "one\n", "tip subject")
	repo := openRepo(t, dir)
	ctx := context.Background()

	require.NoError(t, repo.CreateBranch(ctx, "topic", CreateBranchOptions{}))

	branches, berr := repo.Branches(ctx)
	require.NoError(t, berr)
	require.Len(t, branches, 2)

	byName := make(map[string]BranchInfo)
	for _, branch := range branches {
		byName[branch.Name] = branch
	}
	require.Contains(t, byName, "main")
	require.Contains(t, byName, "topic")
	assert.True(t, byName["main"].Current)
	assert.False(t, byName["topic"].Current)
	assert.Equal(t, head, byName["topic"].Id.String())
	assert.Equal(t, "tip subject", byName["topic"].Subject)

	require.NoError(t, repo.RenameBranch(ctx, "topic", "feature", false))
	require.NoError(t, repo.DeleteBranch(ctx, "feature", false))

	after, aerr := repo.Branches(ctx)
	require.NoError(t, aerr)
	require.Len(t, after, 1)
	assert.Equal(t, "main", after[0].Name)
}

func TestCreateBranchStartPoint(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	first := commitFile(t, dir, "a.txt", "one\n", "first")
	commitFile(t, dir, "a.txt", "two\n", "second")
	repo := openRepo(t, dir)
	ctx := context.Background()

	require.NoError(t, repo.CreateBranch(ctx, "from-first", CreateBranchOptions{StartPoint: first}))

	id, rerr := repo.RevParse(ctx, "from-first")
	require.NoError(t, rerr)
	assert.Equal(t, first, id.String())
}

func TestCreateBranchAlreadyExists(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	commitFile(t, dir, "a.txt", "one\n", "first")
	repo := openRepo(t, dir)
	ctx := context.Background()

	require.NoError(t, repo.CreateBranch(ctx, "dup", CreateBranchOptions{}))
	cerr := repo.CreateBranch(ctx, "dup", CreateBranchOptions{})
	require.Error(t, cerr)
	assert.ErrorIs(t, cerr, gitcmd.ErrBranchExists)
}

func TestCurrentBranch(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	commitFile(t, dir, "a.txt", "one\n", "first")
	repo := openRepo(t, dir)
	ctx := context.Background()

	name, cerr := repo.CurrentBranch(ctx)
	require.NoError(t, cerr)
	assert.Equal(t, "main", name)
}

func TestCurrentBranchDetached(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	head := commitFile(t, dir, "a.txt", "one\n", "first")
	runGit(t, dir, "checkout", "-q", "--detach", head)
	repo := openRepo(t, dir)

	_, cerr := repo.CurrentBranch(context.Background())
	require.Error(t, cerr)
	assert.ErrorIs(t, cerr, gitcmd.ErrDetachedHead)
}
