package gitrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
)

func ignoreFixture(t *testing.T) string {
	t.Helper()
	dir := initWorkRepo(t)
	commitFile(t, dir, ".gitignore", "*.log\n!keep.log\nbuild/\n", "ignore rules")
	return dir
}

func TestCheckIgnoreVerdicts(t *testing.T) {
	requireGit(t)
	dir := ignoreFixture(t)
	repo := openRepo(t, dir)

	decisions, derr := repo.CheckIgnore(context.Background(),
		[]string{"app.log", "keep.log", "src/main.go", "build/out.o"})
	require.NoError(t, derr)
	require.Len(t, decisions, 4)

	ignored := decisions[0]
	assert.Equal(t, "app.log", ignored.Path)
	assert.True(t, ignored.Ignored)
	assert.Equal(t, "*.log", ignored.Pattern)
	assert.Equal(t, ".gitignore", ignored.Source)
	assert.Equal(t, 1, ignored.Line)

	negated := decisions[1]
	assert.Equal(t, "keep.log", negated.Path)
	assert.False(t, negated.Ignored, "negation patterns keep the path")
	assert.Equal(t, "!keep.log", negated.Pattern)
	assert.Equal(t, 2, negated.Line)

	clean := decisions[2]
	assert.Equal(t, "src/main.go", clean.Path)
	assert.False(t, clean.Ignored)
	assert.Empty(t, clean.Pattern)
	assert.Empty(t, clean.Source)
	assert.Zero(t, clean.Line)

	nested := decisions[3]
	assert.True(t, nested.Ignored)
	assert.Equal(t, "build/", nested.Pattern)
}

func TestCheckIgnoreSessionReuse(t *testing.T) {
	requireGit(t)
	dir := ignoreFixture(t)
	repo := openRepo(t, dir)
	ctx := context.Background()

	first, ferr := repo.CheckIgnore(ctx, []string{"a.log"})
	require.NoError(t, ferr)
	require.Len(t, first, 1)
	assert.True(t, first[0].Ignored)

	second, serr := repo.CheckIgnore(ctx, []string{"b.go"})
	require.NoError(t, serr)
	require.Len(t, second, 1)
	assert.False(t, second[0].Ignored)
}

func TestCheckIgnoreEmptyInput(t *testing.T) {
	requireGit(t)
	dir := ignoreFixture(t)
	repo := openRepo(t, dir)

	decisions, derr := repo.CheckIgnore(context.Background(), nil)
	require.NoError(t, derr)
	assert.Nil(t, decisions)
}

func TestCheckIgnoreRejectsBadPath(t *testing.T) {
	requireGit(t)
	dir := ignoreFixture(t)
	repo := openRepo(t, dir)
	ctx := context.Background()

	_, derr := repo.CheckIgnore(ctx, []string{"ok.log", "bad\x00path"})
	require.Error(t, derr)
	assert.True(t, commonerr.IsCode(derr, commonerr.CodeInvalidInput))

	decisions, rerr := repo.CheckIgnore(ctx, []string{"other.log"})
	require.NoError(t, rerr, "a rejected input must not poison the session")
	require.Len(t, decisions, 1)
	assert.True(t, decisions[0].Ignored)
}

func TestCheckIgnoreCancelledContext(t *testing.T) {
	requireGit(t)
	dir := ignoreFixture(t)
	repo := openRepo(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, derr := repo.CheckIgnore(ctx, []string{"a.log"})
	require.Error(t, derr)
	assert.True(t, commonerr.IsCode(derr, commonerr.CodeCancelled))
}

func TestIsIgnored(t *testing.T) {
	requireGit(t)
	dir := ignoreFixture(t)
	repo := openRepo(t, dir)
	ctx := context.Background()

	yes, yerr := repo.IsIgnored(ctx, "trace.log")
	require.NoError(t, yerr)
	assert.True(t, yes)

	no, nerr := repo.IsIgnored(ctx, "main.go")
	require.NoError(t, nerr)
	assert.False(t, no)
}
