package gitrepo

import (
	"context"
	"strconv"
	"strings"
	"time"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/objects"
)

// logFormat emits one NUL-separated record per commit; the trailing
// field separator plus the record's own newline delimit records
// unambiguously because commit text cannot contain NUL.
const logFormat = "%H%x00%P%x00%an%x00%ae%x00%aI%x00%cn%x00%ce%x00%cI%x00%s%x00%b%x00"

const logFieldCount = 10

// CommitSummary is one history entry as reported by the log walker.
// It is a presentation-side record, not the object parser's Commit.
type CommitSummary struct {
	Id        objects.ObjectId
	Parents   []objects.ObjectId
	Author    objects.Signature
	Committer objects.Signature
	Subject   string
	Body      string
}

// LogOptions shape a history walk.
type LogOptions struct {
	// Rev is the starting revision; empty means HEAD.
	Rev string

	// Paths restricts history to commits touching the pathspecs.
	Paths []string

	// MaxCount caps the number of commits returned; zero means no cap.
	MaxCount int

	// Skip drops that many commits before emitting, for pagination.
	Skip int

	// All walks every ref instead of one revision.
	All bool

	// FirstParent follows only the first parent at merges.
	FirstParent bool

	// Reverse emits oldest first.
	Reverse bool
}

// Log walks history and returns typed commit summaries.
func (r *Repository) Log(ctx context.Context, opts LogOptions) ([]CommitSummary, error) {
	args := []string{"log", "--pretty=tformat:" + logFormat}
	if opts.MaxCount > 0 {
		args = append(args, "--max-count", strconv.Itoa(opts.MaxCount))
	}
	if opts.Skip > 0 {
		args = append(args, "--skip", strconv.Itoa(opts.Skip))
	}
	if opts.All {
		args = append(args, "--all")
	}
	if opts.FirstParent {
		args = append(args, "--first-parent")
	}
	if opts.Reverse {
		args = append(args, "--reverse")
	}
	if opts.Rev != "" {
		args = append(args, opts.Rev)
	}
	if len(opts.Paths) > 0 {
		args = append(args, "--")
		args = append(args, opts.Paths...)
	}

	spec := r.spec(gitcmd.OpLog, args...)
	spec.ExtraRules = []gitcmd.ErrorRule{
		{Kind: gitcmd.KindMissingObject, Prefix: "fatal: your current branch",
			Suffix: "does not have any commits yet"},
	}
	result, rerr := gitcmd.Run(ctx, spec)
	if rerr != nil {
		return nil, rerr
	}
	return parseLog(result.Stdout)
}

// Commits is the common pagination shorthand: up to n commits starting
// at rev.
func (r *Repository) Commits(ctx context.Context, rev string, n int) ([]CommitSummary, error) {
	return r.Log(ctx, LogOptions{Rev: rev, MaxCount: n})
}

// parseLog slices the NUL-field stream into records. Each record after
// the first begins with the newline the record format appends, which
// lands at the front of the next id field and is stripped there.
func parseLog(raw string) ([]CommitSummary, error) {
	fields := strings.Split(raw, "\x00")
	if len(fields) > 0 {
		fields = fields[:len(fields)-1]
	}
	if len(fields) == 0 {
		return nil, nil
	}
	if len(fields)%logFieldCount != 0 {
		return nil, commonerr.New(pkgName, commonerr.CodeInvalidFormat, "log",
			"truncated log record stream", nil).
			WithContext("fields", strconv.Itoa(len(fields)))
	}

	commits := make([]CommitSummary, 0, len(fields)/logFieldCount)
	for i := 0; i < len(fields); i += logFieldCount {
		record := fields[i : i+logFieldCount]
		record[0] = strings.TrimPrefix(record[0], "\n")

		summary, perr := parseLogRecord(record)
		if perr != nil {
			return nil, perr
		}
		commits = append(commits, summary)
	}
	return commits, nil
}

func parseLogRecord(record []string) (CommitSummary, error) {
	id, ierr := objects.ParseId(record[0])
	if ierr != nil {
		return CommitSummary{}, logParseError("malformed commit id", record[0], ierr)
	}

	var parents []objects.ObjectId
	if record[1] != "" {
		for _, hex := range strings.Fields(record[1]) {
			parent, perr := objects.ParseId(hex)
			if perr != nil {
				return CommitSummary{}, logParseError("malformed parent id", hex, perr)
			}
			parents = append(parents, parent)
		}
	}

	author, aerr := parseLogIdentity(record[2], record[3], record[4])
	if aerr != nil {
		return CommitSummary{}, aerr
	}
	committer, cerr := parseLogIdentity(record[5], record[6], record[7])
	if cerr != nil {
		return CommitSummary{}, cerr
	}

	return CommitSummary{
		Id:        id,
		Parents:   parents,
		Author:    author,
		Committer: committer,
		Subject:   record[8],
		Body:      strings.TrimRight(record[9], "\n"),
	}, nil
}

func parseLogIdentity(name, email, stamp string) (objects.Signature, error) {
	when, terr := time.Parse(time.RFC3339, stamp)
	if terr != nil {
		return objects.Signature{}, logParseError("malformed timestamp", stamp, terr)
	}
	return objects.Signature{Name: name, Email: email, When: when}, nil
}

func logParseError(reason, value string, cause error) error {
	return commonerr.New(pkgName, commonerr.CodeInvalidFormat, "log", reason, cause).
		WithContext("value", value)
}
