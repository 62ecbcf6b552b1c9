package objects

import (
	"fmt"
	"strings"
)

// Tag is a parsed annotated-tag object.
//
// Tag object content:
//
//	object 1234567890abcdef1234567890abcdef12345678
//	type commit
//	tag v1.0.0
//	tagger John Doe <john@example.com> 1609459200 +0000
//
//	tag message
//
// The tagger line is optional; tags written by ancient tooling omit
// it.
type Tag struct {
	Id         ObjectId
	Object     ObjectId
	TargetType ObjectType
	Name       string
	Tagger     Signature
	HasTagger  bool
	Message    string
}

// ParseTagContent parses tag content (payload without the loose
// storage header).
func ParseTagContent(id ObjectId, content []byte) (*Tag, error) {
	tag := &Tag{Id: id}

	lines := strings.Split(string(content), "\n")
	messageStart := len(lines)

	for i, line := range lines {
		if line == "" {
			messageStart = i + 1
			break
		}
		if strings.HasPrefix(line, " ") {
			continue
		}
		if err := parseTagLine(tag, line); err != nil {
			return nil, fmt.Errorf("tag %s: %w", id.Short(), err)
		}
	}

	if tag.Object.IsZero() {
		return nil, fmt.Errorf("tag %s: missing object header", id.Short())
	}
	if tag.TargetType == UnknownType {
		return nil, fmt.Errorf("tag %s: missing type header", id.Short())
	}
	if tag.Name == "" {
		return nil, fmt.Errorf("tag %s: missing tag header", id.Short())
	}

	if messageStart < len(lines) {
		tag.Message = strings.Join(lines[messageStart:], "\n")
	}
	return tag, nil
}

// parseTagLine parses a single header line
func parseTagLine(tag *Tag, line string) error {
	field, rest, ok := strings.Cut(line, " ")
	if !ok {
		return fmt.Errorf("malformed header line: %q", line)
	}

	switch field {
	case "object":
		object, err := ParseId(rest)
		if err != nil {
			return fmt.Errorf("invalid object id: %w", err)
		}
		tag.Object = object

	case "type":
		targetType, err := ParseObjectType(rest)
		if err != nil {
			return fmt.Errorf("invalid target type: %w", err)
		}
		tag.TargetType = targetType

	case "tag":
		tag.Name = rest

	case "tagger":
		tagger, err := ParseSignature(rest)
		if err != nil {
			return fmt.Errorf("invalid tagger: %w", err)
		}
		tag.Tagger = tagger
		tag.HasTagger = true
	}
	return nil
}

// Type returns the object type
func (t *Tag) Type() ObjectType {
	return TagType
}

// Summary returns the first line of the tag message.
func (t *Tag) Summary() string {
	if i := strings.IndexByte(t.Message, '\n'); i >= 0 {
		return t.Message[:i]
	}
	return t.Message
}

// String returns a human-readable representation
func (t *Tag) String() string {
	return fmt.Sprintf("Tag{name: %s, object: %s, type: %s}",
		t.Name, t.Object.Short(), t.TargetType)
}
