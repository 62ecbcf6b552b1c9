package gitrepo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/objects"
)

func TestOpenFindsRepoFromSubdirectory(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	nested := filepath.Join(dir, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	repo, oerr := Open(nested)
	require.NoError(t, oerr)
	defer repo.Close()

	assert.Equal(t, dir, repo.WorkTree())
	assert.Equal(t, filepath.Join(dir, ".git"), repo.GitDir())
	assert.False(t, repo.Bare())
}

func TestOpenGitFileIndirection(t *testing.T) {
	requireGit(t)
	main := initWorkRepo(t)
	linked := t.TempDir()
	gitDir := filepath.Join(main, ".git")
	require.NoError(t, os.WriteFile(
		filepath.Join(linked, ".git"), []byte("gitdir: "+gitDir+"\n"), 0o644))

	repo, oerr := Open(linked)
	require.NoError(t, oerr)
	defer repo.Close()

	assert.Equal(t, linked, repo.WorkTree())
	assert.Equal(t, gitDir, repo.GitDir())
}

func TestOpenGitFileRelativeTarget(t *testing.T) {
	requireGit(t)
	root := t.TempDir()
	store := filepath.Join(root, "store")
	runGit(t, root, "init", "-q", "--bare", "-b", "main", store)

	linked := filepath.Join(root, "tree")
	require.NoError(t, os.MkdirAll(linked, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(linked, ".git"), []byte("gitdir: ../store"), 0o644))

	repo, oerr := Open(linked)
	require.NoError(t, oerr)
	defer repo.Close()
	assert.Equal(t, store, repo.GitDir())
}

func TestOpenRejectsMalformedGitFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git"), []byte("nonsense"), 0o644))

	_, oerr := Open(dir)
	require.Error(t, oerr)
	assert.True(t, commonerr.IsCode(oerr, commonerr.CodeInvalidFormat))
}

func TestOpenOutsideRepository(t *testing.T) {
	_, oerr := Open(t.TempDir())
	require.Error(t, oerr)
	assert.True(t, commonerr.IsCode(oerr, commonerr.CodeNotFound))
	assert.ErrorIs(t, oerr, gitcmd.ErrNotARepository)
}

func TestInitCreatesWorkingRepository(t *testing.T) {
	requireGit(t)
	dir := filepath.Join(t.TempDir(), "fresh")

	repo, ierr := Init(context.Background(), dir, InitOptions{InitialBranch: "main"})
	require.NoError(t, ierr)
	defer repo.Close()

	assert.False(t, repo.Bare())
	assert.Equal(t, dir, repo.WorkTree())
	info, serr := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, serr)
	assert.True(t, info.IsDir())
}

func TestInitBareRepository(t *testing.T) {
	requireGit(t)
	dir := filepath.Join(t.TempDir(), "store.git")

	repo, ierr := Init(context.Background(), dir, InitOptions{Bare: true, InitialBranch: "main"})
	require.NoError(t, ierr)
	defer repo.Close()

	assert.True(t, repo.Bare())
	assert.Equal(t, "", repo.WorkTree())
	assert.Equal(t, dir, repo.GitDir())
}

func TestVersionReportsEngineVersion(t *testing.T) {
	requireGit(t)
	version, verr := Version(context.Background())
	require.NoError(t, verr)
	require.NotEmpty(t, version)
	assert.True(t, unicode.IsDigit(rune(version[0])), "version %q should start with a digit", version)
}

func TestRevParseResolvesRevisions(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	first := commitFile(t, dir, "a.txt", "one\n", "first")
	second := commitFile(t, dir, "a.txt", "two\n", "second")
	repo := openRepo(t, dir)
	ctx := context.Background()

	head, herr := repo.RevParse(ctx, "HEAD")
	require.NoError(t, herr)
	assert.Equal(t, second, head.String())

	parent, perr := repo.RevParse(ctx, "HEAD~1")
	require.NoError(t, perr)
	assert.Equal(t, first, parent.String())
}

func TestRevParseUnknownRevision(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	commitFile(t, dir, "a.txt", "one\n", "first")
	repo := openRepo(t, dir)

	_, rerr := repo.RevParse(context.Background(), "no-such-rev")
	require.Error(t, rerr)
	assert.ErrorIs(t, rerr, gitcmd.ErrMissingObject)
}

func TestIsAncestor(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	first := commitFile(t, dir, "a.txt", "one\n", "first")
	second := commitFile(t, dir, "a.txt", "two\n", "second")
	repo := openRepo(t, dir)
	ctx := context.Background()

	yes, aerr := repo.IsAncestor(ctx, first, second)
	require.NoError(t, aerr)
	assert.True(t, yes)

	no, berr := repo.IsAncestor(ctx, second, first)
	require.NoError(t, berr)
	assert.False(t, no)
}

func TestMergeBase(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	base := commitFile(t, dir, "a.txt", "one\n", "base")
	runGit(t, dir, "checkout", "-q", "-b", "topic")
	commitFile(t, dir, "b.txt", "branch\n", "on topic")
	runGit(t, dir, "checkout", "-q", "main")
	commitFile(t, dir, "a.txt", "two\n", "on main")
	repo := openRepo(t, dir)

	id, merr := repo.MergeBase(context.Background(), "main", "topic")
	require.NoError(t, merr)
	assert.Equal(t, base, id.String())
}

func TestMergeBaseNeedsTwoRevisions(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	commitFile(t, dir, "a.txt", "one\n", "first")
	repo := openRepo(t, dir)

	_, merr := repo.MergeBase(context.Background(), "HEAD")
	require.Error(t, merr)
	assert.True(t, commonerr.IsCode(merr, commonerr.CodeInvalidInput))
}

func TestObjectsSharedClient(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	head := commitFile(t, dir, "a.txt", "hello\n", "first")
	repo := openRepo(t, dir)

	client, cerr := repo.Objects()
	require.NoError(t, cerr)

	commit, rerr := client.ReadCommit(context.Background(), head)
	require.NoError(t, rerr)
	assert.Equal(t, head, commit.Id.String())

	again, aerr := repo.Objects()
	require.NoError(t, aerr)
	assert.Same(t, client, again)
}

func TestClosedRepositoryRefusesWork(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	repo, oerr := Open(dir)
	require.NoError(t, oerr)

	require.NoError(t, repo.Close())
	require.NoError(t, repo.Close())

	_, cerr := repo.Objects()
	require.Error(t, cerr)
	assert.True(t, commonerr.IsCode(cerr, commonerr.CodeClosed))

	_, ierr := repo.CheckIgnore(context.Background(), []string{"a.txt"})
	require.Error(t, ierr)
	assert.True(t, commonerr.IsCode(ierr, commonerr.CodeClosed))
}

func TestRevParseZeroIdNeverSilentlyReturned(t *testing.T) {
	requireGit(t)
	dir := initWorkRepo(t)
	commitFile(t, dir, "a.txt", "one\n", "first")
	repo := openRepo(t, dir)

	id, rerr := repo.RevParse(context.Background(), "HEAD")
	require.NoError(t, rerr)
	assert.NotEqual(t, objects.ZeroId, id)
}

func TestOpenErrorCarriesPackageAndOp(t *testing.T) {
	_, oerr := Open(t.TempDir())
	require.Error(t, oerr)

	var ce *commonerr.Error
	require.True(t, errors.As(oerr, &ce))
	assert.Equal(t, "gitrepo", ce.Package)
	assert.Equal(t, "open", ce.Op)
}
