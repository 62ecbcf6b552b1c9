package catfile

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/utkarsh5026/gitpipe/pkg/common/bytebuf"
	"github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/objects"
)

// snapshotMax bounds how much buffered context a parse error carries.
const snapshotMax = 512

// missingSuffix is the engine's miss marker: the response line echoes
// the query followed by this literal.
const missingSuffix = "missing"

// session is one live batch subprocess plus its parse state: the
// shared read buffer and the [index, count) window of unconsumed
// bytes. A session serves one query at a time; the client serializes.
type session struct {
	exec *gitcmd.Execution
	in   io.Writer
	out  io.Reader

	buf   *bytebuf.ByteBuffer
	index int
	count int

	// poisoned marks a protocol desync. The session is killed and
	// respawned before it serves another query.
	poisoned bool
}

func newSession(exec *gitcmd.Execution) *session {
	return &session{
		exec: exec,
		in:   exec.Stdin(),
		out:  exec.Stdout(),
		buf:  bytebuf.Acquire(bytebuf.BlockSize),
	}
}

// send writes one query line. The spec must not contain protocol
// delimiters.
func (s *session) send(spec string) error {
	if strings.ContainsAny(spec, "\n\x00") || spec == "" {
		return err.New(pkgName, err.CodeInvalidInput, "query",
			"revision spec must be a single non-empty line", nil).WithContext("spec", spec)
	}
	if _, werr := io.WriteString(s.in, spec+"\n"); werr != nil {
		s.poisoned = true
		return NewProtocolParseError("query", "failed to write query", s.snapshot(), s.index, werr)
	}
	return nil
}

// fill reads more response bytes into the buffer, compacting or
// growing via MakeSpace when the write window is exhausted.
func (s *session) fill() error {
	if s.count == s.buf.Len() {
		s.index, s.count = s.buf.MakeSpace(s.index, s.count)
	}
	n, rerr := s.out.Read(s.buf.Window(s.count, s.buf.Len()))
	if n > 0 {
		s.count += n
		return nil
	}
	if rerr != nil {
		s.poisoned = true
		return NewProtocolParseError("fill", "stream ended mid-response", s.snapshot(), s.index, rerr)
	}
	return nil
}

// ensureLine fills until a complete response line is buffered and
// returns the absolute index of its terminating newline.
func (s *session) ensureLine() (int, error) {
	for {
		if nl := s.buf.FirstIndexOf('\n', s.index, s.count); nl >= 0 {
			return nl, nil
		}
		if ferr := s.fill(); ferr != nil {
			return 0, ferr
		}
	}
}

// require fills until at least need unconsumed bytes are buffered.
func (s *session) require(need int) error {
	for s.count-s.index < need {
		if ferr := s.fill(); ferr != nil {
			return ferr
		}
	}
	return nil
}

// readHeader parses one response header line:
//
//	[<40-hex-oid>][<type>][<decimal-size>]\n
//
// or the miss line, which ends with the "missing" literal. On success
// the line is consumed and the cursor sits on the first payload byte.
func (s *session) readHeader(spec string) (objects.ObjectHeader, error) {
	var hdr objects.ObjectHeader

	nl, lerr := s.ensureLine()
	if lerr != nil {
		return hdr, lerr
	}

	if s.lineEndsWithMissing(nl) {
		s.index = nl + 1
		return hdr, NewMissingObjectError(spec)
	}

	var groups [3][2]int
	pos := s.index
	for g := 0; g < 3; g++ {
		open := s.buf.FirstIndexOf('[', pos, nl)
		if open < 0 {
			return hdr, s.parseFailure("read_header", "response header is missing a bracket group")
		}
		closing := s.buf.FirstIndexOf(']', open+1, nl)
		if closing < 0 {
			return hdr, s.parseFailure("read_header", "response header bracket group is unterminated")
		}
		groups[g] = [2]int{open + 1, closing}
		pos = closing + 1
	}

	oidStart, oidEnd := groups[0][0], groups[0][1]
	if oidEnd-oidStart != objects.HexLength {
		return hdr, s.parseFailure("read_header", "object id field has wrong width")
	}
	id, perr := objects.ParseId(s.buf.DecodeString(oidStart, oidEnd-oidStart))
	if perr != nil {
		return hdr, s.parseFailureCause("read_header", "object id field is not hex", perr)
	}

	typeName := s.buf.DecodeString(groups[1][0], groups[1][1]-groups[1][0])
	objType, terr := objects.ParseObjectType(typeName)
	if terr != nil {
		return hdr, s.parseFailureCause("read_header", "unrecognized object type name", terr)
	}

	sizeText := s.buf.DecodeString(groups[2][0], groups[2][1]-groups[2][0])
	size, serr := strconv.ParseInt(sizeText, 10, 64)
	if serr != nil || size < 0 {
		return hdr, s.parseFailureCause("read_header", "object size field is not a decimal number", serr)
	}

	s.index = nl + 1
	hdr = objects.ObjectHeader{Id: id, Type: objType, Size: size}
	return hdr, nil
}

// lineEndsWithMissing tests the buffered line [index, nl) against the
// miss literal's tail.
func (s *session) lineEndsWithMissing(nl int) bool {
	if nl-s.index < len(missingSuffix) {
		return false
	}
	return s.buf.StartsWith(missingSuffix, nl-len(missingSuffix))
}

// consumePayload buffers the whole payload plus the trailing newline,
// returns the payload window, and leaves the cursor past the newline.
// The returned slice is only valid until the next fill or reset.
func (s *session) consumePayload(size int) ([]byte, error) {
	if rerr := s.require(size + 1); rerr != nil {
		return nil, rerr
	}
	payload := s.buf.Window(s.index, s.index+size)
	if s.buf.At(s.index+size) != '\n' {
		s.poisoned = true
		return nil, NewProtocolParseError("read_payload",
			"payload is not newline-terminated", s.snapshot(), s.index+size, nil)
	}
	s.index += size + 1
	return payload, nil
}

// discardPayload consumes and throws away a payload plus its trailing
// newline without materializing it, keeping the session on a response
// boundary.
func (s *session) discardPayload(size int64) error {
	remaining := size
	for remaining > 0 {
		if s.index == s.count {
			if ferr := s.fill(); ferr != nil {
				return ferr
			}
		}
		n := int64(s.count - s.index)
		if n > remaining {
			n = remaining
		}
		s.index += int(n)
		remaining -= n
	}
	if rerr := s.require(1); rerr != nil {
		return rerr
	}
	if s.buf.At(s.index) != '\n' {
		s.poisoned = true
		return NewProtocolParseError("discard",
			"payload is not newline-terminated", s.snapshot(), s.index, nil)
	}
	s.index++
	return nil
}

// reset recycles the buffer between queries once everything buffered
// has been consumed, returning oversized buffers to the canonical
// block size.
func (s *session) reset() {
	if s.index != s.count {
		return
	}
	s.index, s.count = s.buf.MakeSpace(s.index, s.count)
	for s.buf.Len() > bytebuf.BlockSize {
		s.buf.Shrink()
	}
}

// parseFailure poisons the session and builds the diagnostic error.
func (s *session) parseFailure(op, reason string) error {
	return s.parseFailureCause(op, reason, nil)
}

func (s *session) parseFailureCause(op, reason string, cause error) error {
	s.poisoned = true
	return NewProtocolParseError(op, reason, s.snapshot(), s.index, cause)
}

// snapshot copies the leading buffered bytes for error context.
func (s *session) snapshot() []byte {
	end := s.count
	if end > snapshotMax {
		end = snapshotMax
	}
	if end <= 0 {
		return nil
	}
	return s.buf.Window(0, end)
}

// shutdown kills the subprocess and releases the buffer. Used for
// poisoned sessions, where the engine's cursor position is unknown.
func (s *session) shutdown() {
	if s.exec != nil {
		s.exec.Stop()
		s.exec.Close()
		s.exec = nil
	}
	s.releaseBuffer()
}

// finish closes a healthy session through the orderly shutdown
// protocol: stdin close, bounded wait for exit, stderr drain. The
// protocol falls back to a kill when ctx expires first.
func (s *session) finish(ctx context.Context) {
	if s.exec == nil {
		s.releaseBuffer()
		return
	}
	if s.poisoned {
		s.shutdown()
		return
	}
	s.exec.Finish(ctx, "")
	s.exec = nil
	s.releaseBuffer()
}

func (s *session) releaseBuffer() {
	if s.buf != nil {
		s.buf.Release()
		s.buf = nil
	}
}
