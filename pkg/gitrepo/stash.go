package gitrepo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/objects"
)

// StashEntry is one saved stash.
type StashEntry struct {
	// Index is the position in the stash stack, 0 being the newest.
	Index int

	// Id is the stash commit.
	Id objects.ObjectId

	// Branch is the branch the stash was taken on, when recorded.
	Branch string

	// Subject is the descriptive text ("WIP on main: ..." or the
	// message given at push time).
	Subject string
}

// Name returns the engine's reflog spelling of the entry.
func (e StashEntry) Name() string { return fmt.Sprintf("stash@{%d}", e.Index) }

// StashUpdatedFile is one working-tree path touched by applying a
// stash, with the engine's two short-status letters.
type StashUpdatedFile struct {
	Path     string
	Staged   byte
	Worktree byte
}

// StashPushOptions configure saving the working state.
type StashPushOptions struct {
	// Message labels the entry.
	Message string

	// IncludeUntracked stashes untracked files too.
	IncludeUntracked bool

	// KeepIndex leaves already-staged changes in the index.
	KeepIndex bool

	// Paths restricts the stash to the given pathspecs.
	Paths []string
}

// StashPush saves the working state onto the stash stack.
func (r *Repository) StashPush(ctx context.Context, opts StashPushOptions) error {
	args := []string{"stash", "push"}
	if opts.IncludeUntracked {
		args = append(args, "--include-untracked")
	}
	if opts.KeepIndex {
		args = append(args, "--keep-index")
	}
	if opts.Message != "" {
		args = append(args, "-m", opts.Message)
	}
	if len(opts.Paths) > 0 {
		args = append(args, "--")
		args = append(args, opts.Paths...)
	}
	_, rerr := r.run(ctx, gitcmd.OpStash, args...)
	return rerr
}

// stashListFormat emits reflog selector, commit id, and reflog subject
// per entry.
const stashListFormat = "%gd%x00%H%x00%gs"

// StashList returns the stash stack, newest first.
func (r *Repository) StashList(ctx context.Context) ([]StashEntry, error) {
	result, rerr := r.run(ctx, gitcmd.OpStash,
		"stash", "list", "--pretty=tformat:"+stashListFormat)
	if rerr != nil {
		return nil, rerr
	}

	var entries []StashEntry
	for _, line := range strings.Split(result.Stdout, "\n") {
		if line == "" {
			continue
		}
		entry, perr := parseStashLine(line)
		if perr != nil {
			return nil, perr
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// parseStashLine decodes one list line: "stash@{N}" NUL id NUL
// subject.
func parseStashLine(line string) (StashEntry, error) {
	fields := strings.SplitN(line, "\x00", 3)
	if len(fields) != 3 {
		return StashEntry{}, stashParseError(line, "short stash record")
	}

	selector := fields[0]
	open := strings.IndexByte(selector, '{')
	closing := strings.IndexByte(selector, '}')
	if open < 0 || closing < open {
		return StashEntry{}, stashParseError(line, "malformed stash selector")
	}
	index, ierr := strconv.Atoi(selector[open+1 : closing])
	if ierr != nil {
		return StashEntry{}, stashParseError(line, "malformed stash selector")
	}

	id, perr := objects.ParseId(fields[1])
	if perr != nil {
		return StashEntry{}, stashParseError(line, "malformed stash commit id")
	}

	subject := fields[2]
	branch := ""
	if rest, ok := strings.CutPrefix(subject, "WIP on "); ok {
		branch, _, _ = strings.Cut(rest, ":")
	} else if rest, ok := strings.CutPrefix(subject, "On "); ok {
		branch, _, _ = strings.Cut(rest, ":")
	}

	return StashEntry{Index: index, Id: id, Branch: branch, Subject: subject}, nil
}

// StashApply reapplies a stash entry, keeping it on the stack, and
// reports the files it touched.
func (r *Repository) StashApply(ctx context.Context, index int) ([]StashUpdatedFile, error) {
	return r.stashRestore(ctx, "apply", index)
}

// StashPop reapplies a stash entry and drops it on success.
func (r *Repository) StashPop(ctx context.Context, index int) ([]StashUpdatedFile, error) {
	return r.stashRestore(ctx, "pop", index)
}

// stashRestore runs apply or pop. The inner status report is forced
// into the short format so the touched files can be scraped from it.
func (r *Repository) stashRestore(ctx context.Context, verb string, index int) ([]StashUpdatedFile, error) {
	result, rerr := r.run(ctx, gitcmd.OpStash,
		"-c", "status.short=true", "stash", verb, fmt.Sprintf("stash@{%d}", index))
	if result == nil {
		return nil, rerr
	}
	return parseStashUpdatedFiles(result.Stdout), rerr
}

// StashDrop removes one entry from the stack.
func (r *Repository) StashDrop(ctx context.Context, index int) error {
	_, rerr := r.run(ctx, gitcmd.OpStash,
		"stash", "drop", fmt.Sprintf("stash@{%d}", index))
	return rerr
}

// StashClear removes every entry.
func (r *Repository) StashClear(ctx context.Context) error {
	_, rerr := r.run(ctx, gitcmd.OpStash, "stash", "clear")
	return rerr
}

// stashStatusLetters are the short-status letters an apply report can
// carry.
const stashStatusLetters = " MADRCU?"

// parseStashUpdatedFiles scrapes the short-status block an apply or
// pop prints. Non-status lines (the trailing "Dropped ..." note, blank
// lines) are skipped.
func parseStashUpdatedFiles(stdout string) []StashUpdatedFile {
	var files []StashUpdatedFile
	for _, line := range strings.Split(stdout, "\n") {
		if len(line) < 4 || line[2] != ' ' {
			continue
		}
		staged, worktree := line[0], line[1]
		if !strings.ContainsRune(stashStatusLetters, rune(staged)) ||
			!strings.ContainsRune(stashStatusLetters, rune(worktree)) {
			continue
		}
		files = append(files, StashUpdatedFile{
			Path:     line[3:],
			Staged:   staged,
			Worktree: worktree,
		})
	}
	return files
}

func stashParseError(line, reason string) error {
	return commonerr.New(pkgName, commonerr.CodeInvalidFormat, "stash", reason, nil).
		WithContext("line", line)
}
