package gitrepo

import (
	"context"
	"strings"

	commonerr "github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/objects"
)

// TagInfo describes one tag. For annotated tags Id is the tag object
// itself; for lightweight tags it is the commit.
type TagInfo struct {
	Name      string
	Id        objects.ObjectId
	Annotated bool
	Subject   string
}

// TagOptions configure tag creation.
type TagOptions struct {
	// Message makes the tag annotated with this message.
	Message string

	// Annotate forces an annotated tag; requires Message since the
	// library never opens an editor.
	Annotate bool

	// Ref is the tagged revision; empty means HEAD.
	Ref string

	// Force replaces an existing tag of the same name.
	Force bool
}

// CreateTag creates a lightweight or annotated tag.
func (r *Repository) CreateTag(ctx context.Context, name string, opts TagOptions) error {
	annotated := opts.Annotate || opts.Message != ""
	if annotated && opts.Message == "" {
		return commonerr.New(pkgName, commonerr.CodeInvalidInput, "tag",
			"annotated tag requires a message", nil)
	}

	args := []string{"tag"}
	if annotated {
		args = append(args, "-a", "-m", opts.Message)
	}
	if opts.Force {
		args = append(args, "--force")
	}
	args = append(args, name)
	if opts.Ref != "" {
		args = append(args, opts.Ref)
	}
	_, rerr := r.run(ctx, gitcmd.OpTag, args...)
	return rerr
}

// DeleteTag removes a tag.
func (r *Repository) DeleteTag(ctx context.Context, name string) error {
	_, rerr := r.run(ctx, gitcmd.OpTag, "tag", "-d", name)
	return rerr
}

const tagListFormat = "%(refname:short)%00%(objectname)%00%(objecttype)%00%(contents:subject)"

// Tags lists tags in name order.
func (r *Repository) Tags(ctx context.Context) ([]TagInfo, error) {
	result, rerr := r.run(ctx, gitcmd.OpTag,
		"for-each-ref", "--format", tagListFormat, "refs/tags")
	if rerr != nil {
		return nil, rerr
	}

	var tags []TagInfo
	for _, line := range strings.Split(result.Stdout, "\n") {
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\x00", 4)
		if len(fields) != 4 {
			return nil, commonerr.New(pkgName, commonerr.CodeInvalidFormat, "tags",
				"short tag record", nil).WithContext("line", line)
		}
		id, perr := objects.ParseId(fields[1])
		if perr != nil {
			return nil, commonerr.New(pkgName, commonerr.CodeInvalidFormat, "tags",
				"malformed tag id", perr).WithContext("line", line)
		}
		tags = append(tags, TagInfo{
			Name:      fields[0],
			Id:        id,
			Annotated: fields[2] == "tag",
			Subject:   fields[3],
		})
	}
	return tags, nil
}
