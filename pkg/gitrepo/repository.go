// Package gitrepo is the typed operation surface over a repository:
// open by discovery, then drive the engine through context-accepting
// methods that parse its output into structs. Every method builds on
// the gitcmd capture or streaming layer; nothing here touches the
// object database or the working tree directly.
package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/utkarsh5026/gitpipe/pkg/catfile"
	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/objects"
	"github.com/utkarsh5026/gitpipe/pkg/progress"
)

const pkgName = "gitrepo"

// Repository is an open repository handle. Methods are safe for
// concurrent use; the lazily spawned helper subprocesses (object
// reads, ignore probes) are shared and serialized internally.
type Repository struct {
	workTree string // empty for bare repositories
	gitDir   string
	binary   string
	env      []string
	progOpts []progress.Option

	mu      sync.Mutex
	objects *catfile.Client
	ignore  *ignoreSession
	closed  bool
}

// RepoOption adjusts how a repository handle drives the engine.
type RepoOption func(*repoConfig)

type repoConfig struct {
	binary   string
	env      []string
	progOpts []progress.Option
}

// WithBinary overrides the engine executable resolved from PATH.
func WithBinary(binary string) RepoOption {
	return func(c *repoConfig) { c.binary = binary }
}

// WithEnv appends KEY=value pairs to every spawned engine process.
func WithEnv(env ...string) RepoOption {
	return func(c *repoConfig) { c.env = append(c.env, env...) }
}

// WithProgressOptions sets queue options for every streamed operation
// run through this handle (merge, clone, fetch, pull, push).
func WithProgressOptions(opts ...progress.Option) RepoOption {
	return func(c *repoConfig) { c.progOpts = append(c.progOpts, opts...) }
}

func applyOptions(opts []RepoOption) repoConfig {
	var cfg repoConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Open finds the repository containing path by walking toward the
// filesystem root, honoring both .git directories and gitfile
// indirection (worktrees, submodules). Bare repositories are
// recognized by their layout.
func Open(path string, opts ...RepoOption) (*Repository, error) {
	cfg := applyOptions(opts)

	abs, aerr := filepath.Abs(path)
	if aerr != nil {
		return nil, commonerr.New(pkgName, commonerr.CodeInvalidInput, "open",
			"cannot resolve path", aerr).WithContext("path", path)
	}

	for dir := abs; ; {
		gitPath := filepath.Join(dir, ".git")
		info, serr := os.Stat(gitPath)
		switch {
		case serr == nil && info.IsDir():
			return newRepository(dir, gitPath, cfg), nil
		case serr == nil:
			target, gerr := readGitFile(gitPath)
			if gerr != nil {
				return nil, gerr
			}
			return newRepository(dir, target, cfg), nil
		}

		if looksLikeGitDir(dir) {
			return newRepository("", dir, cfg), nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, commonerr.New(pkgName, commonerr.CodeNotFound, "open",
				"no repository found", gitcmd.ErrNotARepository).
				WithContext("path", abs)
		}
		dir = parent
	}
}

func newRepository(workTree, gitDir string, cfg repoConfig) *Repository {
	return &Repository{
		workTree: workTree,
		gitDir:   gitDir,
		binary:   cfg.binary,
		env:      cfg.env,
		progOpts: cfg.progOpts,
	}
}

// readGitFile resolves "gitdir: <path>" indirection. A relative target
// is taken from the gitfile's directory.
func readGitFile(path string) (string, error) {
	content, rerr := os.ReadFile(path)
	if rerr != nil {
		return "", commonerr.New(pkgName, commonerr.CodeInternal, "open",
			"cannot read gitfile", rerr).WithContext("path", path)
	}

	target, ok := strings.CutPrefix(strings.TrimSpace(string(content)), "gitdir:")
	if !ok {
		return "", commonerr.New(pkgName, commonerr.CodeInvalidFormat, "open",
			"gitfile does not carry a gitdir pointer", nil).WithContext("path", path)
	}
	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return filepath.Clean(target), nil
}

// looksLikeGitDir recognizes the layout every repository directory
// carries, which is how bare repositories announce themselves.
func looksLikeGitDir(dir string) bool {
	if info, serr := os.Stat(filepath.Join(dir, "HEAD")); serr != nil || info.IsDir() {
		return false
	}
	if info, serr := os.Stat(filepath.Join(dir, "objects")); serr != nil || !info.IsDir() {
		return false
	}
	info, serr := os.Stat(filepath.Join(dir, "refs"))
	return serr == nil && info.IsDir()
}

// InitOptions configure repository creation.
type InitOptions struct {
	// Bare creates a repository without a working tree.
	Bare bool

	// InitialBranch names the first branch instead of the engine's
	// configured default.
	InitialBranch string
}

// Init creates a repository at path and opens it.
func Init(ctx context.Context, path string, opts InitOptions, ropts ...RepoOption) (*Repository, error) {
	cfg := applyOptions(ropts)

	args := []string{"init"}
	if opts.Bare {
		args = append(args, "--bare")
	}
	if opts.InitialBranch != "" {
		args = append(args, "--initial-branch", opts.InitialBranch)
	}
	args = append(args, path)

	if _, rerr := gitcmd.Run(ctx, gitcmd.Spec{
		Binary: cfg.binary,
		Args:   args,
		Env:    cfg.env,
		Op:     gitcmd.OpGeneric,
	}); rerr != nil {
		return nil, rerr
	}
	return Open(path, ropts...)
}

// WorkTree returns the working-tree root, or "" for a bare repository.
func (r *Repository) WorkTree() string { return r.workTree }

// GitDir returns the repository directory.
func (r *Repository) GitDir() string { return r.gitDir }

// Bare reports whether the repository has no working tree.
func (r *Repository) Bare() bool { return r.workTree == "" }

// dir is where engine commands run: the working tree when there is
// one, the repository directory otherwise.
func (r *Repository) dir() string {
	if r.workTree != "" {
		return r.workTree
	}
	return r.gitDir
}

func (r *Repository) spec(op gitcmd.Op, args ...string) gitcmd.Spec {
	return gitcmd.Spec{
		Binary: r.binary,
		Args:   args,
		Dir:    r.dir(),
		Env:    r.env,
		Op:     op,
	}
}

func (r *Repository) run(ctx context.Context, op gitcmd.Op, args ...string) (*gitcmd.Result, error) {
	return gitcmd.Run(ctx, r.spec(op, args...))
}

// Objects returns the shared object-database client, spawning it on
// first use. The client stays alive until Close.
func (r *Repository) Objects() (*catfile.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, commonerr.New(pkgName, commonerr.CodeClosed, "objects",
			"repository is closed", nil)
	}
	if r.objects == nil {
		r.objects = catfile.New(catfile.Options{
			Dir:    r.dir(),
			Binary: r.binary,
			Env:    r.env,
		})
	}
	return r.objects, nil
}

// Close shuts down the helper subprocesses. The handle must not be
// used afterward.
func (r *Repository) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	objClient := r.objects
	ignoreSess := r.ignore
	r.objects = nil
	r.ignore = nil
	r.mu.Unlock()

	var first error
	if objClient != nil {
		first = objClient.Close()
	}
	if ignoreSess != nil {
		if cerr := ignoreSess.close(); first == nil {
			first = cerr
		}
	}
	return first
}

// Version reports the engine's version string, e.g. "2.43.0".
func Version(ctx context.Context, opts ...RepoOption) (string, error) {
	cfg := applyOptions(opts)
	result, rerr := gitcmd.Run(ctx, gitcmd.Spec{
		Binary: cfg.binary,
		Args:   []string{"version"},
		Env:    cfg.env,
		Op:     gitcmd.OpGeneric,
	})
	if rerr != nil {
		return "", rerr
	}
	return strings.TrimPrefix(strings.TrimSpace(result.Stdout), "git version "), nil
}

// RevParse resolves a revision expression to its object id.
func (r *Repository) RevParse(ctx context.Context, rev string) (objects.ObjectId, error) {
	spec := r.spec(gitcmd.OpRevParse, "rev-parse", "--verify", "--end-of-options", rev)
	spec.ExtraRules = []gitcmd.ErrorRule{
		{Kind: gitcmd.KindMissingObject, Prefix: "fatal: Needed a single revision"},
	}
	result, rerr := gitcmd.Run(ctx, spec)
	if rerr != nil {
		return objects.ZeroId, rerr
	}
	id, perr := objects.ParseId(strings.TrimSpace(result.Stdout))
	if perr != nil {
		return objects.ZeroId, commonerr.New(pkgName, commonerr.CodeInvalidFormat, "rev_parse",
			"engine returned a malformed object id", perr).
			WithContext("output", strings.TrimSpace(result.Stdout))
	}
	return id, nil
}

// MergeBase returns the best common ancestor of the given revisions.
// ErrNoMergeBase reports disjoint histories.
func (r *Repository) MergeBase(ctx context.Context, revs ...string) (objects.ObjectId, error) {
	if len(revs) < 2 {
		return objects.ZeroId, commonerr.New(pkgName, commonerr.CodeInvalidInput, "merge_base",
			"merge base needs at least two revisions", nil)
	}
	spec := r.spec(gitcmd.OpRevParse, append([]string{"merge-base"}, revs...)...)
	spec.SafeCodes = []int{1}
	result, rerr := gitcmd.Run(ctx, spec)
	if rerr != nil {
		return objects.ZeroId, rerr
	}
	if result.ExitCode == 1 {
		return objects.ZeroId, commonerr.New(pkgName, commonerr.CodeNotFound, "merge_base",
			"revisions share no common ancestor", ErrNoMergeBase)
	}
	id, perr := objects.ParseId(strings.TrimSpace(result.Stdout))
	if perr != nil {
		return objects.ZeroId, commonerr.New(pkgName, commonerr.CodeInvalidFormat, "merge_base",
			"engine returned a malformed object id", perr)
	}
	return id, nil
}

// IsAncestor reports whether ancestor is reachable from descendant,
// using the engine's soft exit code for "no".
func (r *Repository) IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error) {
	spec := r.spec(gitcmd.OpRevParse, "merge-base", "--is-ancestor", ancestor, descendant)
	spec.SafeCodes = []int{1}
	result, rerr := gitcmd.Run(ctx, spec)
	if rerr != nil {
		return false, rerr
	}
	return result.ExitCode == 0, nil
}
