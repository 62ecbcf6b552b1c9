package objects

import (
	"bytes"
	"fmt"
	"strconv"
)

// TreeEntry is a single entry of a tree object.
//
// Serialized format in tree content:
//
//	[octal mode] [space] [name] [null byte] [20-byte binary id]
//
// Example for a "hello.txt" file:
//
//	"100644 hello.txt\0[20 bytes]"
type TreeEntry struct {
	Mode FileMode
	Name string
	Id   ObjectId
}

// Type returns the object kind this entry points at, derived from its
// mode: directories reference trees, gitlinks reference submodule
// commits, everything else references blobs.
func (e TreeEntry) Type() ObjectType {
	switch {
	case e.Mode.IsDirectory():
		return TreeType
	case e.Mode.IsGitlink():
		return SubmoduleType
	default:
		return BlobType
	}
}

// String returns a human-readable representation
func (e TreeEntry) String() string {
	return fmt.Sprintf("%s %s %s\t%s", e.Mode.ToOctalString(), e.Type(), e.Id, e.Name)
}

// Tree is a parsed tree object: an ordered directory listing. Entries
// keep the engine's on-disk order. Read-only after construction.
type Tree struct {
	Id      ObjectId
	Entries []TreeEntry
}

// ParseTreeContent parses tree content (payload without the loose
// storage header).
func ParseTreeContent(id ObjectId, content []byte) (*Tree, error) {
	tree := &Tree{Id: id}

	offset := 0
	for offset < len(content) {
		entry, next, err := parseTreeEntry(content, offset)
		if err != nil {
			return nil, fmt.Errorf("tree %s: entry at offset %d: %w", id.Short(), offset, err)
		}
		tree.Entries = append(tree.Entries, entry)
		offset = next
	}
	return tree, nil
}

// parseTreeEntry decodes one entry starting at offset and returns the
// offset of the next entry.
func parseTreeEntry(content []byte, offset int) (TreeEntry, int, error) {
	rest := content[offset:]

	spaceIndex := bytes.IndexByte(rest, SpaceByte)
	if spaceIndex <= 0 {
		return TreeEntry{}, 0, fmt.Errorf("missing mode terminator")
	}
	mode, err := strconv.ParseUint(string(rest[:spaceIndex]), 8, 32)
	if err != nil {
		return TreeEntry{}, 0, fmt.Errorf("invalid mode %q: %w", rest[:spaceIndex], err)
	}

	nameStart := spaceIndex + 1
	nullOffset := bytes.IndexByte(rest[nameStart:], NullByte)
	if nullOffset < 0 {
		return TreeEntry{}, 0, fmt.Errorf("missing name terminator")
	}
	if nullOffset == 0 {
		return TreeEntry{}, 0, fmt.Errorf("empty entry name")
	}
	name := string(rest[nameStart : nameStart+nullOffset])

	idStart := nameStart + nullOffset + 1
	if len(rest) < idStart+RawLength {
		return TreeEntry{}, 0, fmt.Errorf("truncated object id")
	}
	id, err := IdFromBytes(rest[idStart : idStart+RawLength])
	if err != nil {
		return TreeEntry{}, 0, err
	}

	entry := TreeEntry{
		Mode: FileMode(mode),
		Name: name,
		Id:   id,
	}
	return entry, offset + idStart + RawLength, nil
}

// Type returns the object type
func (t *Tree) Type() ObjectType {
	return TreeType
}

// IsEmpty returns true if the tree has no entries
func (t *Tree) IsEmpty() bool {
	return len(t.Entries) == 0
}

// Find returns the entry with the given name, or false when absent.
func (t *Tree) Find(name string) (TreeEntry, bool) {
	for _, entry := range t.Entries {
		if entry.Name == name {
			return entry, true
		}
	}
	return TreeEntry{}, false
}

// String returns a human-readable representation
func (t *Tree) String() string {
	return fmt.Sprintf("Tree{id: %s, entries: %d}", t.Id.Short(), len(t.Entries))
}
