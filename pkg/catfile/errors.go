package catfile

import (
	"fmt"

	"github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/objects"
)

const pkgName = "catfile"

// ProtocolParseError indicates a malformed batch response: broken
// header framing, an unknown type name, an undecodable size, or a
// stream that ended mid-response. It carries a snapshot of the raw
// buffer and the parse cursor for diagnosis. Non-retryable: the
// session is desynced and gets restarted before the next query.
type ProtocolParseError struct {
	baseError *err.Error
	Reason    string
	Snapshot  []byte
	Cursor    int
}

// NewProtocolParseError builds a parse error with a bounded copy of
// the session buffer.
func NewProtocolParseError(op, reason string, snapshot []byte, cursor int, cause error) *ProtocolParseError {
	owned := make([]byte, len(snapshot))
	copy(owned, snapshot)
	return &ProtocolParseError{
		baseError: err.New(pkgName, err.CodeProtocol, op, reason, cause).
			WithContext("cursor", cursor).
			WithContext("buffered", len(owned)),
		Reason:   reason,
		Snapshot: owned,
		Cursor:   cursor,
	}
}

// Error implements the error interface
func (e *ProtocolParseError) Error() string {
	return e.baseError.Error()
}

// Unwrap returns the underlying structured error
func (e *ProtocolParseError) Unwrap() error {
	return e.baseError
}

// MissingObjectError indicates the engine reported the queried
// revision as absent.
type MissingObjectError struct {
	baseError *err.Error
	Spec      string
}

// NewMissingObjectError creates a missing-object error for a query.
func NewMissingObjectError(spec string) *MissingObjectError {
	return &MissingObjectError{
		baseError: err.New(pkgName, err.CodeMissingObject, "read_header",
			fmt.Sprintf("object %q does not exist", spec), nil),
		Spec: spec,
	}
}

// Error implements the error interface
func (e *MissingObjectError) Error() string {
	return e.baseError.Error()
}

// Unwrap returns the underlying structured error
func (e *MissingObjectError) Unwrap() error {
	return e.baseError
}

// ObjectTooLargeError indicates an object exceeding the whole-object
// materialization cap. The streaming path has no cap and can serve
// such objects.
type ObjectTooLargeError struct {
	baseError *err.Error
	Id        objects.ObjectId
	Size      int64
	Limit     int64
}

// NewObjectTooLargeError creates an oversize error for an object.
func NewObjectTooLargeError(id objects.ObjectId, size, limit int64) *ObjectTooLargeError {
	return &ObjectTooLargeError{
		baseError: err.New(pkgName, err.CodeObjectTooLarge, "read_payload",
			fmt.Sprintf("object %s is %d bytes, limit is %d", id.Short(), size, limit), nil),
		Id:    id,
		Size:  size,
		Limit: limit,
	}
}

// Error implements the error interface
func (e *ObjectTooLargeError) Error() string {
	return e.baseError.Error()
}

// Unwrap returns the underlying structured error
func (e *ObjectTooLargeError) Unwrap() error {
	return e.baseError
}

// TypeMismatchError indicates the decoded object kind differs from the
// kind the caller asked for. The payload is still consumed, so the
// session stays in sync.
type TypeMismatchError struct {
	baseError *err.Error
	Spec      string
	Want      objects.ObjectType
	Got       objects.ObjectType
}

// NewTypeMismatchError creates a mismatch error for a typed read.
func NewTypeMismatchError(spec string, want, got objects.ObjectType) *TypeMismatchError {
	return &TypeMismatchError{
		baseError: err.New(pkgName, err.CodeTypeMismatch, "dispatch",
			fmt.Sprintf("object %q is a %s, not a %s", spec, got, want), nil),
		Spec: spec,
		Want: want,
		Got:  got,
	}
}

// Error implements the error interface
func (e *TypeMismatchError) Error() string {
	return e.baseError.Error()
}

// Unwrap returns the underlying structured error
func (e *TypeMismatchError) Unwrap() error {
	return e.baseError
}
