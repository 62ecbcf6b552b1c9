// Package catfile maintains long-lived `git cat-file --batch` sessions
// and parses their framed responses into typed objects. One subprocess
// serves arbitrarily many object reads, so repeated lookups avoid the
// per-spawn cost of a fresh engine process.
//
// The client owns two lazily started sessions: a payload session
// (--batch) for full object reads and a header session (--batch-check)
// for size and type probes. Requests are serialized through a single
// gate; a session that desyncs is killed and respawned transparently
// on the next query.
package catfile

import (
	"context"
	"time"

	"github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/gitcmd"
	"github.com/utkarsh5026/gitpipe/pkg/objects"
)

// ObjectSizeMaximum caps how many payload bytes a whole-object read
// will materialize. Larger objects are rejected eagerly, before any
// payload is buffered; StreamBlob has no such cap.
const ObjectSizeMaximum = 512 * 1024

// batchFormat brackets each header field so the parser can frame them
// without guessing at spaces inside future fields.
const batchFormat = "[%(objectname)][%(objecttype)][%(objectsize)]"

// closeTimeout bounds the orderly-shutdown wait per session before
// Close falls back to killing it.
const closeTimeout = 3 * time.Second

// Options configures a Client.
type Options struct {
	// Dir is the working directory the engine resolves the repository
	// from. Empty means the current directory.
	Dir string

	// Binary overrides the engine executable. Empty resolves "git"
	// from PATH.
	Binary string

	// Env appends extra environment entries for the sessions.
	Env []string
}

// Client reads repository objects over persistent batch sessions.
//
// All methods are safe for concurrent use. Context cancellation covers
// waiting for the request gate; once a request holds a session the
// pipe reads run to completion and are only interrupted by Close.
type Client struct {
	opts Options

	// sem serializes session access with capacity one. A channel
	// rather than a mutex: StreamBlob's drain goroutine releases the
	// slot its caller acquired.
	sem chan struct{}

	batch  *session // --batch, payload reads
	check  *session // --batch-check, header probes
	closed bool
}

// New creates a client for the repository at opts.Dir. No subprocess
// is started until the first read.
func New(opts Options) *Client {
	return &Client{
		opts: opts,
		sem:  make(chan struct{}, 1),
	}
}

func (c *Client) acquire(ctx context.Context) error {
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return err.New(pkgName, err.CodeCancelled, "acquire",
			"cancelled while waiting for a session", ctx.Err())
	}
	if c.closed {
		c.release()
		return err.New(pkgName, err.CodeClosed, "acquire", "client is closed", nil)
	}
	return nil
}

func (c *Client) release() { <-c.sem }

// spawn starts one batch subprocess in the requested mode.
func (c *Client) spawn(mode string) (*session, error) {
	exec, serr := gitcmd.Start(gitcmd.Spec{
		Binary: c.opts.Binary,
		Args:   []string{"cat-file", mode},
		Dir:    c.opts.Dir,
		Env:    c.opts.Env,
		Op:     gitcmd.OpCatFile,
	})
	if serr != nil {
		return nil, serr
	}
	return newSession(exec), nil
}

// payloadSession returns the --batch session, respawning it first if
// the previous query desynced it or the engine died.
func (c *Client) payloadSession() (*session, error) {
	s, serr := c.ensure(c.batch, "--batch="+batchFormat)
	c.batch = s
	return s, serr
}

// headerSession returns the --batch-check session under the same
// respawn policy.
func (c *Client) headerSession() (*session, error) {
	s, serr := c.ensure(c.check, "--batch-check="+batchFormat)
	c.check = s
	return s, serr
}

func (c *Client) ensure(s *session, mode string) (*session, error) {
	if s != nil && (s.poisoned || !s.exec.Alive()) {
		s.shutdown()
		s = nil
	}
	if s == nil {
		return c.spawn(mode)
	}
	return s, nil
}

// query runs one whole-object request on the payload session: send,
// parse the header, enforce the size cap, buffer the payload. The
// returned bytes are an owned copy.
func (c *Client) query(spec string) (objects.ObjectHeader, []byte, error) {
	s, serr := c.payloadSession()
	if serr != nil {
		return objects.ObjectHeader{}, nil, serr
	}
	if werr := s.send(spec); werr != nil {
		return objects.ObjectHeader{}, nil, werr
	}
	hdr, herr := s.readHeader(spec)
	if herr != nil {
		s.reset()
		return objects.ObjectHeader{}, nil, herr
	}
	if hdr.Size > ObjectSizeMaximum {
		// The payload stays unread, so the session is desynced and
		// will be respawned before the next query.
		s.poisoned = true
		return objects.ObjectHeader{}, nil, NewObjectTooLargeError(hdr.Id, hdr.Size, ObjectSizeMaximum)
	}
	payload, perr := s.consumePayload(int(hdr.Size))
	if perr != nil {
		return objects.ObjectHeader{}, nil, perr
	}
	owned := make([]byte, len(payload))
	copy(owned, payload)
	s.reset()
	return hdr, owned, nil
}

// ReadObject reads any object whole, returning its header and raw
// content. Objects over ObjectSizeMaximum are rejected; use StreamBlob
// for those.
func (c *Client) ReadObject(ctx context.Context, spec string) (objects.ObjectHeader, []byte, error) {
	if aerr := c.acquire(ctx); aerr != nil {
		return objects.ObjectHeader{}, nil, aerr
	}
	defer c.release()
	return c.query(spec)
}

// ReadBlob reads a blob whole. Non-blob objects yield a
// TypeMismatchError.
func (c *Client) ReadBlob(ctx context.Context, spec string) (*objects.Blob, error) {
	hdr, data, rerr := c.ReadObject(ctx, spec)
	if rerr != nil {
		return nil, rerr
	}
	if hdr.Type != objects.BlobType {
		return nil, NewTypeMismatchError(spec, objects.BlobType, hdr.Type)
	}
	return objects.NewBlob(hdr.Id, data), nil
}

// ReadCommit reads and parses a commit object.
func (c *Client) ReadCommit(ctx context.Context, spec string) (*objects.Commit, error) {
	hdr, data, rerr := c.ReadObject(ctx, spec)
	if rerr != nil {
		return nil, rerr
	}
	if hdr.Type != objects.CommitType {
		return nil, NewTypeMismatchError(spec, objects.CommitType, hdr.Type)
	}
	return objects.ParseCommitContent(hdr.Id, data)
}

// ReadTag reads and parses an annotated tag object.
func (c *Client) ReadTag(ctx context.Context, spec string) (*objects.Tag, error) {
	hdr, data, rerr := c.ReadObject(ctx, spec)
	if rerr != nil {
		return nil, rerr
	}
	if hdr.Type != objects.TagType {
		return nil, NewTypeMismatchError(spec, objects.TagType, hdr.Type)
	}
	return objects.ParseTagContent(hdr.Id, data)
}

// ReadTree reads and parses a tree object.
func (c *Client) ReadTree(ctx context.Context, spec string) (*objects.Tree, error) {
	hdr, data, rerr := c.ReadObject(ctx, spec)
	if rerr != nil {
		return nil, rerr
	}
	if hdr.Type != objects.TreeType {
		return nil, NewTypeMismatchError(spec, objects.TreeType, hdr.Type)
	}
	return objects.ParseTreeContent(hdr.Id, data)
}

// ReadHeader resolves a revision spec to its id, type and size without
// transferring the payload. Runs on the dedicated --batch-check
// session, so it never competes with payload transfers for framing.
func (c *Client) ReadHeader(ctx context.Context, spec string) (objects.ObjectHeader, error) {
	if aerr := c.acquire(ctx); aerr != nil {
		return objects.ObjectHeader{}, aerr
	}
	defer c.release()

	s, serr := c.headerSession()
	if serr != nil {
		return objects.ObjectHeader{}, serr
	}
	if werr := s.send(spec); werr != nil {
		return objects.ObjectHeader{}, werr
	}
	hdr, herr := s.readHeader(spec)
	s.reset()
	return hdr, herr
}

// StreamBlob reads a blob of any size incrementally. The returned
// reader holds the client's request gate until its payload is fully
// drained from the session, so other reads wait; closing the reader
// early discards the remainder in the background and then releases
// the gate.
func (c *Client) StreamBlob(ctx context.Context, spec string) (*BlobReader, error) {
	if aerr := c.acquire(ctx); aerr != nil {
		return nil, aerr
	}

	s, serr := c.payloadSession()
	if serr != nil {
		c.release()
		return nil, serr
	}
	if werr := s.send(spec); werr != nil {
		c.release()
		return nil, werr
	}
	hdr, herr := s.readHeader(spec)
	if herr != nil {
		s.reset()
		c.release()
		return nil, herr
	}
	if hdr.Type != objects.BlobType {
		// Drain the unwanted payload so the session stays usable.
		derr := s.discardPayload(hdr.Size)
		s.reset()
		c.release()
		if derr != nil {
			return nil, derr
		}
		return nil, NewTypeMismatchError(spec, objects.BlobType, hdr.Type)
	}

	br := newBlobReader(hdr)
	go c.drainStream(s, hdr.Size, br)
	return br, nil
}

// drainStream pumps the session payload into the reader and releases
// the request gate when the session is back on a response boundary.
func (c *Client) drainStream(s *session, size int64, br *BlobReader) {
	defer c.release()

	remaining := size
	for remaining > 0 {
		if s.index == s.count {
			if ferr := s.fill(); ferr != nil {
				br.finish(ferr)
				return
			}
		}
		n := int64(s.count - s.index)
		n = min(n, remaining)
		br.feed(s.buf.Window(s.index, s.index+int(n)))
		s.index += int(n)
		remaining -= n
	}
	if rerr := s.require(1); rerr != nil {
		br.finish(rerr)
		return
	}
	if s.buf.At(s.index) != '\n' {
		s.poisoned = true
		br.finish(NewProtocolParseError("stream",
			"payload is not newline-terminated", s.snapshot(), s.index, nil))
		return
	}
	s.index++
	s.reset()
	br.finish(nil)
}

// Close shuts both sessions down and rejects further reads. It waits
// for an in-flight request, including a streaming drain, to finish
// first.
func (c *Client) Close() error {
	c.sem <- struct{}{}
	defer c.release()
	if c.closed {
		return nil
	}
	c.closed = true

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if c.batch != nil {
		c.batch.finish(ctx)
		c.batch = nil
	}
	if c.check != nil {
		c.check.finish(ctx)
		c.check = nil
	}
	return nil
}
