package bytebuf

import (
	"sync"

	"github.com/utkarsh5026/gitpipe/pkg/common/err"
)

// backing stores hold exactly BlockSize bytes; anything larger is
// allocated directly and never pooled.
var pool = sync.Pool{
	New: func() any {
		s := make([]byte, BlockSize)
		return &s
	},
}

// Acquire rents a buffer with logical length n. Lengths up to BlockSize
// are served from the shared pool; larger requests allocate directly.
func Acquire(n int) *ByteBuffer {
	if n <= 0 {
		panic(err.New(pkgName, err.CodeInvalidInput, "acquire", "non-positive length", nil).
			WithContext("length", n))
	}
	if n <= BlockSize {
		s := pool.Get().(*[]byte)
		return &ByteBuffer{data: (*s)[:n], length: n}
	}
	return &ByteBuffer{data: make([]byte, n), length: n}
}

// Release returns the buffer's storage to the pool when it is still the
// canonical block size; grown storage is dropped for the garbage
// collector. The buffer must not be used afterwards.
func (b *ByteBuffer) Release() {
	b.enter()
	defer b.leave()
	b.released = true
	if cap(b.data) != BlockSize {
		b.data = nil
		return
	}
	s := b.data[:BlockSize]
	for i := range s {
		s[i] = 0
	}
	b.data = nil
	pool.Put(&s)
}
