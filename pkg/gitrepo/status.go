package gitrepo

import (
	"context"
	"strconv"
	"strings"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/objects"
)

// StatusKind classifies one status entry.
type StatusKind int

const (
	// StatusOrdinary is a tracked file with index or worktree changes.
	StatusOrdinary StatusKind = iota + 1
	// StatusRenamed is a rename or copy detected in the index.
	StatusRenamed
	// StatusUnmerged is a conflicted path awaiting resolution.
	StatusUnmerged
	// StatusUntracked is a path the index does not know.
	StatusUntracked
	// StatusIgnored is a path matched by an ignore pattern.
	StatusIgnored
)

var statusKindNames = map[StatusKind]string{
	StatusOrdinary:  "ordinary",
	StatusRenamed:   "renamed",
	StatusUnmerged:  "unmerged",
	StatusUntracked: "untracked",
	StatusIgnored:   "ignored",
}

func (k StatusKind) String() string {
	if name, ok := statusKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// FileStatus is one entry of the working-tree status. Staged and
// Worktree carry the engine's two status letters ('.' means
// unmodified); for unmerged entries they are the two conflict sides.
type FileStatus struct {
	Kind     StatusKind
	Path     string
	OrigPath string

	Staged   byte
	Worktree byte

	// Submodule is the raw submodule state field ("N..." for plain
	// files).
	Submodule string

	ModeHead     objects.FileMode
	ModeIndex    objects.FileMode
	ModeWorktree objects.FileMode
	IdHead       objects.ObjectId
	IdIndex      objects.ObjectId

	// RenameScore is the similarity percentage for renamed entries.
	RenameScore int

	// StageModes and StageIds hold the three conflict stages of an
	// unmerged entry (base, ours, theirs).
	StageModes [3]objects.FileMode
	StageIds   [3]objects.ObjectId
}

// BranchStatus is the header block of a status report. Oid and Head
// keep the engine's placeholder spellings "(initial)" and "(detached)"
// verbatim.
type BranchStatus struct {
	Oid      string
	Head     string
	Upstream string
	Ahead    int
	Behind   int
}

// Detached reports whether HEAD points at a commit rather than a
// branch.
func (b BranchStatus) Detached() bool { return b.Head == "(detached)" }

// Status is a full working-tree status snapshot.
type Status struct {
	Branch BranchStatus
	Files  []FileStatus
}

// Clean reports whether nothing differs between HEAD, the index, and
// the working tree.
func (s *Status) Clean() bool { return len(s.Files) == 0 }

// StatusOptions adjust the status snapshot.
type StatusOptions struct {
	// Ignored includes entries matched by ignore patterns.
	Ignored bool

	// Paths restricts the snapshot to the given pathspecs.
	Paths []string
}

// Status captures the working-tree state via the machine-readable
// status format.
func (r *Repository) Status(ctx context.Context, opts StatusOptions) (*Status, error) {
	args := []string{"status", "--porcelain=v2", "-z", "--branch", "--untracked-files=all"}
	if opts.Ignored {
		args = append(args, "--ignored=matching")
	}
	if len(opts.Paths) > 0 {
		args = append(args, "--")
		args = append(args, opts.Paths...)
	}

	result, rerr := r.run(ctx, gitcmd.OpGeneric, args...)
	if rerr != nil {
		return nil, rerr
	}
	return parseStatus(result.Stdout)
}

// parseStatus decodes the NUL-terminated v2 porcelain stream. Rename
// records consume the following token as their origin path.
func parseStatus(raw string) (*Status, error) {
	status := &Status{}
	tokens := strings.Split(raw, "\x00")

	for i := 0; i < len(tokens); i++ {
		record := tokens[i]
		if record == "" {
			continue
		}

		switch record[0] {
		case '#':
			parseStatusHeader(record, &status.Branch)
		case '1':
			entry, perr := parseOrdinaryEntry(record)
			if perr != nil {
				return nil, perr
			}
			status.Files = append(status.Files, entry)
		case '2':
			if i+1 >= len(tokens) || tokens[i+1] == "" {
				return nil, statusParseError(record, "rename record without origin path")
			}
			entry, perr := parseRenameEntry(record, tokens[i+1])
			if perr != nil {
				return nil, perr
			}
			i++
			status.Files = append(status.Files, entry)
		case 'u':
			entry, perr := parseUnmergedEntry(record)
			if perr != nil {
				return nil, perr
			}
			status.Files = append(status.Files, entry)
		case '?':
			status.Files = append(status.Files, FileStatus{
				Kind: StatusUntracked, Path: record[2:], Staged: '?', Worktree: '?',
			})
		case '!':
			status.Files = append(status.Files, FileStatus{
				Kind: StatusIgnored, Path: record[2:], Staged: '!', Worktree: '!',
			})
		default:
			return nil, statusParseError(record, "unrecognized record tag")
		}
	}
	return status, nil
}

func parseStatusHeader(record string, branch *BranchStatus) {
	switch {
	case strings.HasPrefix(record, "# branch.oid "):
		branch.Oid = record[len("# branch.oid "):]
	case strings.HasPrefix(record, "# branch.head "):
		branch.Head = record[len("# branch.head "):]
	case strings.HasPrefix(record, "# branch.upstream "):
		branch.Upstream = record[len("# branch.upstream "):]
	case strings.HasPrefix(record, "# branch.ab "):
		for _, field := range strings.Fields(record[len("# branch.ab "):]) {
			if n, cerr := strconv.Atoi(field); cerr == nil {
				if n >= 0 && strings.HasPrefix(field, "+") {
					branch.Ahead = n
				} else {
					branch.Behind = -n
				}
			}
		}
	}
}

func parseOrdinaryEntry(record string) (FileStatus, error) {
	fields := strings.SplitN(record, " ", 9)
	if len(fields) != 9 {
		return FileStatus{}, statusParseError(record, "short ordinary record")
	}
	entry := FileStatus{
		Kind:      StatusOrdinary,
		Staged:    fields[1][0],
		Worktree:  fields[1][1],
		Submodule: fields[2],
		Path:      fields[8],
	}
	if perr := parseStatusModes(fields[3:6], record,
		&entry.ModeHead, &entry.ModeIndex, &entry.ModeWorktree); perr != nil {
		return FileStatus{}, perr
	}
	if perr := parseStatusIds(fields[6:8], record, &entry.IdHead, &entry.IdIndex); perr != nil {
		return FileStatus{}, perr
	}
	return entry, nil
}

func parseRenameEntry(record, origPath string) (FileStatus, error) {
	fields := strings.SplitN(record, " ", 10)
	if len(fields) != 10 {
		return FileStatus{}, statusParseError(record, "short rename record")
	}
	entry := FileStatus{
		Kind:      StatusRenamed,
		Staged:    fields[1][0],
		Worktree:  fields[1][1],
		Submodule: fields[2],
		Path:      fields[9],
		OrigPath:  origPath,
	}
	if perr := parseStatusModes(fields[3:6], record,
		&entry.ModeHead, &entry.ModeIndex, &entry.ModeWorktree); perr != nil {
		return FileStatus{}, perr
	}
	if perr := parseStatusIds(fields[6:8], record, &entry.IdHead, &entry.IdIndex); perr != nil {
		return FileStatus{}, perr
	}

	score := fields[8]
	if len(score) < 2 {
		return FileStatus{}, statusParseError(record, "malformed rename score")
	}
	n, cerr := strconv.Atoi(score[1:])
	if cerr != nil {
		return FileStatus{}, statusParseError(record, "malformed rename score")
	}
	entry.RenameScore = n
	return entry, nil
}

func parseUnmergedEntry(record string) (FileStatus, error) {
	fields := strings.SplitN(record, " ", 11)
	if len(fields) != 11 {
		return FileStatus{}, statusParseError(record, "short unmerged record")
	}
	entry := FileStatus{
		Kind:      StatusUnmerged,
		Staged:    fields[1][0],
		Worktree:  fields[1][1],
		Submodule: fields[2],
		Path:      fields[10],
	}
	if perr := parseStatusModes(fields[3:6], record,
		&entry.StageModes[0], &entry.StageModes[1], &entry.StageModes[2]); perr != nil {
		return FileStatus{}, perr
	}
	mode, merr := objects.FromOctalString(fields[6])
	if merr != nil {
		return FileStatus{}, statusParseError(record, "malformed mode field")
	}
	entry.ModeWorktree = mode
	for i, field := range fields[7:10] {
		id, perr := objects.ParseId(field)
		if perr != nil {
			return FileStatus{}, statusParseError(record, "malformed object id")
		}
		entry.StageIds[i] = id
	}
	return entry, nil
}

func parseStatusModes(fields []string, record string, dst ...*objects.FileMode) error {
	for i, field := range fields {
		mode, merr := objects.FromOctalString(field)
		if merr != nil {
			return statusParseError(record, "malformed mode field")
		}
		*dst[i] = mode
	}
	return nil
}

func parseStatusIds(fields []string, record string, dst ...*objects.ObjectId) error {
	for i, field := range fields {
		id, perr := objects.ParseId(field)
		if perr != nil {
			return statusParseError(record, "malformed object id")
		}
		*dst[i] = id
	}
	return nil
}

func statusParseError(record, reason string) error {
	return commonerr.New(pkgName, commonerr.CodeInvalidFormat, "status", reason, nil).
		WithContext("record", record)
}
