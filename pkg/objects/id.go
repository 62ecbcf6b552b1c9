package objects

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// HexLength is the length of a full object id in hex (40 characters)
	HexLength = 40
	// RawLength is the length of an object id in bytes (20 bytes)
	RawLength = 20
	// ShortLength is the default length for abbreviated ids (7 characters)
	ShortLength = 7
)

// ObjectId is a 20-byte content hash identifying one object. It is an
// immutable value type: == compares byte-wise, the zero value is the
// "no object" sentinel.
type ObjectId [RawLength]byte

// ZeroId is the all-zero sentinel meaning "no object".
var ZeroId ObjectId

// ParseId creates an ObjectId from a 40-character hex string.
// Upper-case input is accepted and normalized.
func ParseId(s string) (ObjectId, error) {
	if len(s) != HexLength {
		return ZeroId, fmt.Errorf("object id must be %d characters long, got %d", HexLength, len(s))
	}

	var id ObjectId
	if _, err := hex.Decode(id[:], []byte(strings.ToLower(s))); err != nil {
		return ZeroId, fmt.Errorf("object id must contain only hex characters: %w", err)
	}
	return id, nil
}

// IdFromBytes creates an ObjectId from a 20-byte binary hash.
func IdFromBytes(b []byte) (ObjectId, error) {
	if len(b) != RawLength {
		return ZeroId, fmt.Errorf("object id must be %d bytes long, got %d", RawLength, len(b))
	}

	var id ObjectId
	copy(id[:], b)
	return id, nil
}

// String returns the id as a 40-character lowercase hex string.
func (id ObjectId) String() string {
	return hex.EncodeToString(id[:])
}

// Short returns the abbreviated id (first 7 hex characters).
func (id ObjectId) Short() string {
	return id.String()[:ShortLength]
}

// ShortN returns the first n hex characters of the id.
func (id ObjectId) ShortN(n int) string {
	if n <= 0 {
		n = ShortLength
	}
	if n > HexLength {
		n = HexLength
	}
	return id.String()[:n]
}

// Bytes returns a copy of the raw 20-byte hash.
func (id ObjectId) Bytes() []byte {
	b := make([]byte, RawLength)
	copy(b, id[:])
	return b
}

// IsZero returns true if this is the "no object" sentinel.
func (id ObjectId) IsZero() bool {
	return id == ZeroId
}

// Equal compares two ids for equality.
func (id ObjectId) Equal(other ObjectId) bool {
	return id == other
}

// HasPrefix returns true if the hex form starts with the given prefix.
func (id ObjectId) HasPrefix(prefix string) bool {
	return strings.HasPrefix(id.String(), strings.ToLower(prefix))
}

// MarshalText implements encoding.TextMarshaler
func (id ObjectId) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (id *ObjectId) UnmarshalText(text []byte) error {
	parsed, err := ParseId(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// IsHexId reports whether s is a well-formed 40-character hex id.
func IsHexId(s string) bool {
	if len(s) != HexLength {
		return false
	}
	for _, c := range s {
		if !isHexChar(c) {
			return false
		}
	}
	return true
}

// isHexChar returns true if the character is a valid hex character
func isHexChar(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
