package gitrepo

import (
	"context"
	"strconv"
	"strings"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/objects"
)

// ChangeKind is the per-path change classification of a tree
// difference.
type ChangeKind int

const (
	ChangeUnknown ChangeKind = iota
	ChangeAdded
	ChangeCopied
	ChangeDeleted
	ChangeModified
	ChangeRenamed
	ChangeTypeChanged
	ChangeUnmerged
)

var changeKindNames = map[ChangeKind]string{
	ChangeUnknown:     "unknown",
	ChangeAdded:       "added",
	ChangeCopied:      "copied",
	ChangeDeleted:     "deleted",
	ChangeModified:    "modified",
	ChangeRenamed:     "renamed",
	ChangeTypeChanged: "type changed",
	ChangeUnmerged:    "unmerged",
}

func (k ChangeKind) String() string {
	if name, ok := changeKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Letter returns the engine's single-letter spelling of the change.
func (k ChangeKind) Letter() byte {
	switch k {
	case ChangeAdded:
		return 'A'
	case ChangeCopied:
		return 'C'
	case ChangeDeleted:
		return 'D'
	case ChangeModified:
		return 'M'
	case ChangeRenamed:
		return 'R'
	case ChangeTypeChanged:
		return 'T'
	case ChangeUnmerged:
		return 'U'
	default:
		return 'X'
	}
}

func changeKindOf(letter byte) ChangeKind {
	switch letter {
	case 'A':
		return ChangeAdded
	case 'C':
		return ChangeCopied
	case 'D':
		return ChangeDeleted
	case 'M':
		return ChangeModified
	case 'R':
		return ChangeRenamed
	case 'T':
		return ChangeTypeChanged
	case 'U':
		return ChangeUnmerged
	default:
		return ChangeUnknown
	}
}

// TreeDifferenceEntry is one path-level difference between two trees
// or between a tree and the working state. For renames and copies,
// Path is the destination and OldPath the source; Score is the
// similarity percentage.
type TreeDifferenceEntry struct {
	OldMode objects.FileMode
	NewMode objects.FileMode
	OldId   objects.ObjectId
	NewId   objects.ObjectId
	Change  ChangeKind
	Score   int
	Path    string
	OldPath string
}

// DiffOptions select what to compare.
type DiffOptions struct {
	// From and To are tree-ish revisions. Both set compares the two
	// trees; only From compares it against the working state; neither
	// compares the index (or HEAD, with Cached) against the working
	// tree.
	From string
	To   string

	// Cached compares the index instead of the working tree.
	Cached bool

	// FindRenames enables rename detection.
	FindRenames bool

	// Paths restricts the comparison to the given pathspecs.
	Paths []string
}

// Diff compares trees or working state and returns raw-format entries.
func (r *Repository) Diff(ctx context.Context, opts DiffOptions) ([]TreeDifferenceEntry, error) {
	flags := []string{"--raw", "-z", "--no-abbrev"}
	if opts.FindRenames {
		flags = append(flags, "--find-renames")
	}

	var args []string
	switch {
	case opts.From != "" && opts.To != "":
		args = append([]string{"diff-tree", "-r"}, flags...)
		args = append(args, opts.From, opts.To)
	default:
		args = append([]string{"diff"}, flags...)
		if opts.Cached {
			args = append(args, "--cached")
		}
		if opts.From != "" {
			args = append(args, opts.From)
		}
	}
	if len(opts.Paths) > 0 {
		args = append(args, "--")
		args = append(args, opts.Paths...)
	}

	result, rerr := r.run(ctx, gitcmd.OpDiff, args...)
	if rerr != nil {
		return nil, rerr
	}
	return parseRawDiff(result.Stdout)
}

// parseRawDiff decodes the NUL-separated raw difference stream:
//
//	:<oldmode> <newmode> <oldid> <newid> <letter>[score] NUL <path> NUL
//
// with renames and copies carrying source then destination paths.
func parseRawDiff(raw string) ([]TreeDifferenceEntry, error) {
	tokens := strings.Split(raw, "\x00")
	var entries []TreeDifferenceEntry

	for i := 0; i < len(tokens); i++ {
		meta := tokens[i]
		if meta == "" {
			continue
		}
		if meta[0] != ':' {
			return nil, diffParseError("record does not start with a colon", meta)
		}

		fields := strings.Fields(meta[1:])
		if len(fields) != 5 {
			return nil, diffParseError("raw record needs five fields", meta)
		}

		entry, perr := parseRawMeta(fields, meta)
		if perr != nil {
			return nil, perr
		}

		pathsNeeded := 1
		if entry.Change == ChangeRenamed || entry.Change == ChangeCopied {
			pathsNeeded = 2
		}
		if i+pathsNeeded >= len(tokens) {
			return nil, diffParseError("record truncated before its paths", meta)
		}
		if pathsNeeded == 2 {
			entry.OldPath = tokens[i+1]
			entry.Path = tokens[i+2]
		} else {
			entry.Path = tokens[i+1]
		}
		if entry.Path == "" || (pathsNeeded == 2 && entry.OldPath == "") {
			return nil, diffParseError("record truncated before its paths", meta)
		}
		i += pathsNeeded

		entries = append(entries, entry)
	}
	return entries, nil
}

func parseRawMeta(fields []string, record string) (TreeDifferenceEntry, error) {
	var entry TreeDifferenceEntry

	oldMode, oerr := objects.FromOctalString(fields[0])
	if oerr != nil {
		return entry, diffParseError("malformed old mode", record)
	}
	newMode, nerr := objects.FromOctalString(fields[1])
	if nerr != nil {
		return entry, diffParseError("malformed new mode", record)
	}
	oldId, oierr := objects.ParseId(fields[2])
	if oierr != nil {
		return entry, diffParseError("malformed old id", record)
	}
	newId, nierr := objects.ParseId(fields[3])
	if nierr != nil {
		return entry, diffParseError("malformed new id", record)
	}

	status := fields[4]
	entry.OldMode = oldMode
	entry.NewMode = newMode
	entry.OldId = oldId
	entry.NewId = newId
	entry.Change = changeKindOf(status[0])
	if len(status) > 1 {
		score, serr := strconv.Atoi(status[1:])
		if serr != nil {
			return entry, diffParseError("malformed similarity score", record)
		}
		entry.Score = score
	}
	return entry, nil
}

func diffParseError(reason, record string) error {
	return commonerr.New(pkgName, commonerr.CodeInvalidFormat, "diff", reason, nil).
		WithContext("record", record)
}
