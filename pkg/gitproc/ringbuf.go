package gitproc

import (
	"io"
	"sync"
)

// RingBuffer is a fixed-capacity circular byte buffer safe for one
// producer and one consumer on separate goroutines. Read blocks until
// data arrives or the buffer closes; Write blocks until space frees up
// or the buffer closes. It decouples a pipe's OS-level buffering from
// the pace of the goroutine consuming it.
type RingBuffer struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	buf    []byte
	read   int
	write  int
	stored int
	closed bool
}

// NewRingBuffer creates a ring buffer holding up to capacity bytes.
func NewRingBuffer(capacity int) *RingBuffer {
	rb := &RingBuffer{buf: make([]byte, capacity)}
	rb.notEmpty = sync.NewCond(&rb.mu)
	rb.notFull = sync.NewCond(&rb.mu)
	return rb
}

// Read copies up to len(p) buffered bytes into p, blocking while the
// buffer is empty and open. After Close, remaining bytes are drained
// first; once empty it returns io.EOF.
func (rb *RingBuffer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	rb.mu.Lock()
	defer rb.mu.Unlock()

	for rb.stored == 0 && !rb.closed {
		rb.notEmpty.Wait()
	}
	if rb.stored == 0 {
		return 0, io.EOF
	}

	n := rb.stored
	if n > len(p) {
		n = len(p)
	}
	first := len(rb.buf) - rb.read
	if first > n {
		first = n
	}
	copy(p[:first], rb.buf[rb.read:rb.read+first])
	copy(p[first:n], rb.buf[:n-first])
	rb.read = (rb.read + n) % len(rb.buf)
	rb.stored -= n
	rb.notFull.Broadcast()
	return n, nil
}

// Write copies all of p into the buffer, blocking while it is full.
// Writing to a closed buffer returns io.ErrClosedPipe; a close during a
// blocked write abandons the remainder.
func (rb *RingBuffer) Write(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	written := 0
	for written < len(p) {
		for rb.stored == len(rb.buf) && !rb.closed {
			rb.notFull.Wait()
		}
		if rb.closed {
			return written, io.ErrClosedPipe
		}

		n := len(rb.buf) - rb.stored
		if rest := len(p) - written; n > rest {
			n = rest
		}
		first := len(rb.buf) - rb.write
		if first > n {
			first = n
		}
		copy(rb.buf[rb.write:rb.write+first], p[written:written+first])
		copy(rb.buf[:n-first], p[written+first:written+n])
		rb.write = (rb.write + n) % len(rb.buf)
		rb.stored += n
		written += n
		rb.notEmpty.Broadcast()
	}
	return written, nil
}

// Close marks the buffer closed and wakes all blocked readers and
// writers. Blocked readers drain what is stored and then see io.EOF;
// blocked writers fail with io.ErrClosedPipe. Close is idempotent.
func (rb *RingBuffer) Close() error {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.closed {
		return nil
	}
	rb.closed = true
	rb.notEmpty.Broadcast()
	rb.notFull.Broadcast()
	return nil
}

// Len returns the number of buffered bytes.
func (rb *RingBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.stored
}

// Closed reports whether Close has been called.
func (rb *RingBuffer) Closed() bool {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.closed
}
