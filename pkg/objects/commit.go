package objects

import (
	"fmt"
	"strings"
)

// Commit is a parsed commit object.
//
// Commit object content:
//
//	tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904
//	parent 1234567890abcdef1234567890abcdef12345678   (zero or more)
//	author John Doe <john@example.com> 1609459200 +0000
//	committer John Doe <john@example.com> 1609459200 +0000
//
//	commit message
//
// Commits form a DAG: most commits have one parent, merge commits have
// several, the initial commit has none. Constructed only by the
// parser; read-only after construction.
type Commit struct {
	Id        ObjectId
	Tree      ObjectId
	Parents   []ObjectId
	Author    Signature
	Committer Signature
	Message   string
}

// ParseCommitContent parses commit content (payload without the loose
// storage header). Unrecognized header fields (gpgsig, encoding,
// mergetag and their indented continuation lines) are skipped: the
// engine writes more fields than a client needs to understand.
func ParseCommitContent(id ObjectId, content []byte) (*Commit, error) {
	commit := &Commit{Id: id}

	lines := strings.Split(string(content), "\n")
	messageStart := len(lines)

	for i, line := range lines {
		if line == "" {
			messageStart = i + 1
			break
		}
		if strings.HasPrefix(line, " ") {
			// continuation of a multi-line field such as gpgsig
			continue
		}
		if err := parseCommitLine(commit, line); err != nil {
			return nil, fmt.Errorf("commit %s: %w", id.Short(), err)
		}
	}

	if commit.Tree.IsZero() {
		return nil, fmt.Errorf("commit %s: missing tree header", id.Short())
	}

	if messageStart < len(lines) {
		commit.Message = strings.Join(lines[messageStart:], "\n")
	}
	return commit, nil
}

// parseCommitLine parses a single header line
func parseCommitLine(commit *Commit, line string) error {
	field, rest, ok := strings.Cut(line, " ")
	if !ok {
		return fmt.Errorf("malformed header line: %q", line)
	}

	switch field {
	case "tree":
		if !commit.Tree.IsZero() {
			return fmt.Errorf("multiple tree entries found")
		}
		tree, err := ParseId(rest)
		if err != nil {
			return fmt.Errorf("invalid tree id: %w", err)
		}
		commit.Tree = tree

	case "parent":
		parent, err := ParseId(rest)
		if err != nil {
			return fmt.Errorf("invalid parent id: %w", err)
		}
		commit.Parents = append(commit.Parents, parent)

	case "author":
		author, err := ParseSignature(rest)
		if err != nil {
			return fmt.Errorf("invalid author: %w", err)
		}
		commit.Author = author

	case "committer":
		committer, err := ParseSignature(rest)
		if err != nil {
			return fmt.Errorf("invalid committer: %w", err)
		}
		commit.Committer = committer
	}
	return nil
}

// Type returns the object type
func (c *Commit) Type() ObjectType {
	return CommitType
}

// Summary returns the first line of the commit message.
func (c *Commit) Summary() string {
	if i := strings.IndexByte(c.Message, '\n'); i >= 0 {
		return c.Message[:i]
	}
	return c.Message
}

// IsInitialCommit returns true if this commit has no parents
func (c *Commit) IsInitialCommit() bool {
	return len(c.Parents) == 0
}

// IsMergeCommit returns true if this commit has multiple parents
func (c *Commit) IsMergeCommit() bool {
	return len(c.Parents) > 1
}

// HasParent checks if the commit has a specific parent id
func (c *Commit) HasParent(parent ObjectId) bool {
	for _, p := range c.Parents {
		if p == parent {
			return true
		}
	}
	return false
}

// String returns a human-readable representation
func (c *Commit) String() string {
	return fmt.Sprintf("Commit{id: %s, tree: %s, parents: %d, message: %.50s}",
		c.Id.Short(), c.Tree.Short(), len(c.Parents), c.Summary())
}
