package catfile

import (
	"io"
	"sync"

	"github.com/utkarsh5026/gitpipe/pkg/objects"
)

// BlobReader streams one blob payload from a batch session. A
// background drain feeds it as bytes arrive, so the reader never
// blocks the session mid-response: closing early discards the
// remainder while the drain finishes positioning the session on the
// next response boundary.
type BlobReader struct {
	header objects.ObjectHeader

	mu     sync.Mutex
	cond   *sync.Cond
	data   []byte
	rpos   int
	done   bool
	err    error
	closed bool
}

func newBlobReader(hdr objects.ObjectHeader) *BlobReader {
	br := &BlobReader{header: hdr}
	br.cond = sync.NewCond(&br.mu)
	return br
}

// Header returns the blob's id, type and size.
func (b *BlobReader) Header() objects.ObjectHeader { return b.header }

// Size returns the payload size in bytes.
func (b *BlobReader) Size() int64 { return b.header.Size }

// Read implements io.Reader. Buffered bytes are always delivered
// before any stream error; a fully delivered payload ends with io.EOF.
func (b *BlobReader) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for {
		if b.closed {
			return 0, io.ErrClosedPipe
		}
		if b.rpos < len(b.data) {
			n := copy(p, b.data[b.rpos:])
			b.rpos += n
			if b.rpos == len(b.data) {
				b.data = b.data[:0]
				b.rpos = 0
			}
			return n, nil
		}
		if b.err != nil {
			return 0, b.err
		}
		if b.done {
			return 0, io.EOF
		}
		b.cond.Wait()
	}
}

// feed appends a copy of chunk for the consumer. Dropped silently
// after Close.
func (b *BlobReader) feed(chunk []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.data = append(b.data, chunk...)
	b.cond.Broadcast()
}

// finish marks the payload complete, or failed when e is non-nil.
func (b *BlobReader) finish(e error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.done = true
	b.err = e
	b.cond.Broadcast()
}

// Close releases the reader. Idempotent. Subsequent Reads return
// io.ErrClosedPipe; the session keeps draining in the background.
func (b *BlobReader) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	b.data = nil
	b.rpos = 0
	b.cond.Broadcast()
	return nil
}
