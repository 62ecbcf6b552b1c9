package objects

import "fmt"

// ObjectType is the closed set of object kinds. Blob, commit, tag and
// tree are the engine's wire names; Submodule only ever appears as a
// tree-entry target (gitlink mode), never in a batch response header.
type ObjectType int

const (
	UnknownType ObjectType = iota
	BlobType
	CommitType
	TagType
	TreeType
	SubmoduleType
)

const (
	NullByte  = byte(0)
	SpaceByte = byte(' ')
)

// typeNames is the fixed decode table for wire type names.
var typeNames = map[string]ObjectType{
	"blob":   BlobType,
	"commit": CommitType,
	"tag":    TagType,
	"tree":   TreeType,
}

// String implements the Stringer interface
func (o ObjectType) String() string {
	switch o {
	case BlobType:
		return "blob"
	case CommitType:
		return "commit"
	case TagType:
		return "tag"
	case TreeType:
		return "tree"
	case SubmoduleType:
		return "submodule"
	default:
		return "unknown"
	}
}

// ParseObjectType decodes a wire type name via the fixed table.
// An unrecognized name is a hard error, never silently Unknown.
func ParseObjectType(s string) (ObjectType, error) {
	if t, ok := typeNames[s]; ok {
		return t, nil
	}
	return UnknownType, fmt.Errorf("unknown object type: %q", s)
}

// ObjectHeader identifies one object without its payload: the id, the
// decoded kind, and the payload size in bytes. Produced by parsing one
// batch response line; consumed immediately to size the payload read
// and select the typed parser.
type ObjectHeader struct {
	Id   ObjectId
	Type ObjectType
	Size int64
}

// String returns a human-readable representation
func (h ObjectHeader) String() string {
	return fmt.Sprintf("%s %s %d", h.Id, h.Type, h.Size)
}
