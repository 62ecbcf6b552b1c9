package objects

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// Blob is a parsed blob object holding an owned copy of its payload.
type Blob struct {
	Id   ObjectId
	data []byte
}

// NewBlob builds a blob from payload bytes. The payload is copied so
// the blob stays valid after the source buffer is reused.
func NewBlob(id ObjectId, data []byte) *Blob {
	owned := make([]byte, len(data))
	copy(owned, data)
	return &Blob{Id: id, data: owned}
}

// Type returns the object type
func (b *Blob) Type() ObjectType {
	return BlobType
}

// Content returns the raw content of the blob
func (b *Blob) Content() []byte {
	return b.data
}

// Size returns the size of the content in bytes
func (b *Blob) Size() int64 {
	return int64(len(b.data))
}

// binaryProbeSize bounds how many leading bytes the binary heuristic
// inspects, matching the engine's own probe window.
const binaryProbeSize = 8000

// IsBinary applies the engine's heuristic: content containing a NUL
// byte in its leading window is treated as binary.
func (b *Blob) IsBinary() bool {
	probe := b.data
	if len(probe) > binaryProbeSize {
		probe = probe[:binaryProbeSize]
	}
	return bytes.IndexByte(probe, NullByte) >= 0
}

// Text returns the content as a string when it is valid UTF-8 text.
func (b *Blob) Text() (string, bool) {
	if b.IsBinary() || !utf8.Valid(b.data) {
		return "", false
	}
	return string(b.data), true
}

// String returns a human-readable representation
func (b *Blob) String() string {
	return fmt.Sprintf("Blob{id: %s, size: %d}", b.Id.Short(), len(b.data))
}
