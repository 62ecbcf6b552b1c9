package gitproc

import (
	"io"
	"sync"
	"time"

	"github.com/utkarsh5026/gitpipe/pkg/common/err"
	"github.com/utkarsh5026/gitpipe/pkg/common/logger"
)

// Direction selects which way bytes flow through a Pipe.
type Direction int

const (
	// DirectionRead pumps bytes from the OS stream into the ring
	// buffer; the caller reads from the pipe.
	DirectionRead Direction = iota

	// DirectionWrite pumps bytes from the ring buffer to the OS
	// stream; the caller writes to the pipe.
	DirectionWrite
)

func (d Direction) String() string {
	switch d {
	case DirectionRead:
		return "read"
	case DirectionWrite:
		return "write"
	default:
		return "unknown"
	}
}

// workerJoinTimeout bounds how long Close waits for a pipe's pump
// goroutine before abandoning it. An abandoned worker exits on its own
// once the OS handle close propagates; it is logged, never killed.
const workerJoinTimeout = 3 * time.Second

// Pipe is one directional byte channel between a child process stream
// and the calling goroutine. A dedicated pump goroutine moves bytes
// between the OS handle and an internal ring buffer, so callers get
// blocking Read/Write semantics independent of OS pipe capacity.
//
// Exactly one direction is valid per pipe: Read on a write pipe (and
// Write on a read pipe) fails. Pipes are not seekable.
type Pipe struct {
	name string
	dir  Direction

	ring       *RingBuffer
	file       io.Closer
	workerDone chan struct{}

	closeOnce sync.Once
}

// newReadPipe wraps src, pumping it into a ring of the given capacity.
func newReadPipe(name string, src io.ReadCloser, capacity int) *Pipe {
	p := &Pipe{
		name:       name,
		dir:        DirectionRead,
		ring:       NewRingBuffer(capacity),
		file:       src,
		workerDone: make(chan struct{}),
	}
	go p.pumpIn(src)
	return p
}

// newWritePipe wraps dst, pumping ring contents out to it. The worker
// closes dst once the ring is closed and fully flushed, which is how
// EOF reaches the child's stdin.
func newWritePipe(name string, dst io.WriteCloser, capacity int) *Pipe {
	p := &Pipe{
		name:       name,
		dir:        DirectionWrite,
		ring:       NewRingBuffer(capacity),
		file:       dst,
		workerDone: make(chan struct{}),
	}
	go p.pumpOut(dst)
	return p
}

// pumpIn moves OS stream bytes into the ring until EOF or error, then
// closes the ring so blocked readers drain and finish.
func (p *Pipe) pumpIn(src io.Reader) {
	defer close(p.workerDone)
	defer p.ring.Close()

	buf := make([]byte, 32*1024)
	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			if _, writeErr := p.ring.Write(buf[:n]); writeErr != nil {
				return
			}
		}
		if readErr != nil {
			return
		}
	}
}

// pumpOut moves ring bytes out to the OS stream until the ring closes
// and drains, then closes the OS handle.
func (p *Pipe) pumpOut(dst io.WriteCloser) {
	defer close(p.workerDone)
	defer dst.Close()

	buf := make([]byte, 32*1024)
	for {
		n, readErr := p.ring.Read(buf)
		if n > 0 {
			if _, writeErr := dst.Write(buf[:n]); writeErr != nil {
				return
			}
		}
		if readErr != nil {
			return
		}
	}
}

// Read pulls buffered bytes, blocking until data is available or the
// pipe closes (io.EOF). Only valid on read pipes.
func (p *Pipe) Read(b []byte) (int, error) {
	if p.dir != DirectionRead {
		return 0, err.New(pkgName, err.CodeInvalidInput, "read",
			"read on write-direction pipe", nil).WithContext("pipe", p.name)
	}
	return p.ring.Read(b)
}

// Write queues bytes for the child, blocking while the ring is full.
// Only valid on write pipes.
func (p *Pipe) Write(b []byte) (int, error) {
	if p.dir != DirectionWrite {
		return 0, err.New(pkgName, err.CodeInvalidInput, "write",
			"write on read-direction pipe", nil).WithContext("pipe", p.name)
	}
	return p.ring.Write(b)
}

// Close shuts the pipe down: the ring closes first (unblocking any
// blocked Read/Write), then the OS handle, then the pump goroutine is
// joined with a bounded timeout. A worker that does not exit in time is
// abandoned with a warning.
//
// For write pipes the worker owns the OS handle so the final flush can
// complete before the child sees EOF.
func (p *Pipe) Close() error {
	p.closeOnce.Do(func() {
		p.ring.Close()
		if p.dir == DirectionRead {
			p.file.Close()
		}
		select {
		case <-p.workerDone:
		case <-time.After(workerJoinTimeout):
			logger.Warn("pipe worker did not exit, abandoning",
				"pipe", p.name, "direction", p.dir.String())
			// Last resort: yank the handle so a blocked OS write
			// fails and the worker can exit on its own.
			p.file.Close()
		}
	})
	return nil
}
