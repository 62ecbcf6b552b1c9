// Package bytebuf provides a pooled, growable byte buffer used by the
// streaming protocol parsers.
//
// A ByteBuffer is a single-owner arena: one goroutine fills it from a
// pipe, scans it for delimiters, consumes complete records, and calls
// MakeSpace to reclaim room for the next read. Buffers are rented from
// a process-wide pool and returned on Release, so steady-state parsing
// performs no allocations.
//
// ByteBuffer is not safe for concurrent use. Unlike the usual
// documented-only convention, misuse is enforced: concurrent access and
// use-after-release are detected at runtime in every build and panic
// with a descriptive error.
package bytebuf

import (
	"bytes"
	"sync/atomic"

	"github.com/utkarsh5026/gitpipe/pkg/common/err"
)

const (
	// BlockSize is the growth quantum and the pool's canonical
	// allocation size. Only backing arrays of exactly this size are
	// returned to the pool on Release; grown arrays are left to the
	// garbage collector so the pool's memory stays bounded.
	BlockSize = 64 * 1024

	pkgName = "bytebuf"
)

// ByteBuffer is a resizable byte arena with cursor-relative scan
// helpers. The zero value is not usable; obtain instances via Acquire.
type ByteBuffer struct {
	data   []byte
	length int

	busy     atomic.Bool
	released bool
}

// enter marks the buffer as in use by the calling goroutine.
// Every exported method passes through here, so concurrent access
// from two goroutines trips the guard no matter which methods race.
func (b *ByteBuffer) enter() {
	if !b.busy.CompareAndSwap(false, true) {
		panic(err.New(pkgName, err.CodeInternal, "access", "concurrent use of single-owner buffer", nil))
	}
	if b.released {
		b.busy.Store(false)
		panic(err.New(pkgName, err.CodeInternal, "access", "use of released buffer", nil))
	}
}

func (b *ByteBuffer) leave() {
	b.busy.Store(false)
}

// Len returns the buffer's logical length.
func (b *ByteBuffer) Len() int {
	b.enter()
	defer b.leave()
	return b.length
}

// Cap returns the capacity of the backing storage.
func (b *ByteBuffer) Cap() int {
	b.enter()
	defer b.leave()
	return cap(b.data)
}

// At returns the byte at index i. Panics if i is out of range.
func (b *ByteBuffer) At(i int) byte {
	b.enter()
	defer b.leave()
	b.check(i)
	return b.data[i]
}

// Set stores v at index i. Panics if i is out of range.
func (b *ByteBuffer) Set(i int, v byte) {
	b.enter()
	defer b.leave()
	b.check(i)
	b.data[i] = v
}

func (b *ByteBuffer) check(i int) {
	if i < 0 || i >= b.length {
		panic(err.New(pkgName, err.CodeInvalidInput, "index",
			"index out of range", nil).WithContext("index", i).WithContext("length", b.length))
	}
}

// Window returns the byte range [from, to) as a slice sharing the
// buffer's storage. The slice is only valid until the next Grow,
// MakeSpace, or Release.
func (b *ByteBuffer) Window(from, to int) []byte {
	b.enter()
	defer b.leave()
	if from < 0 || to < from || to > b.length {
		panic(err.New(pkgName, err.CodeInvalidInput, "window",
			"invalid range", nil).WithContext("from", from).WithContext("to", to).WithContext("length", b.length))
	}
	return b.data[from:to]
}

// Bytes returns the full logical window [0, Len()).
func (b *ByteBuffer) Bytes() []byte {
	b.enter()
	defer b.leave()
	return b.data[:b.length]
}

// Grow extends the logical length by one block, enlarging the backing
// storage geometrically when it no longer fits.
func (b *ByteBuffer) Grow() {
	b.enter()
	defer b.leave()
	b.grow(b.length + BlockSize)
}

// GrowTo extends the logical length to at least n. It never shrinks.
func (b *ByteBuffer) GrowTo(n int) {
	b.enter()
	defer b.leave()
	if n > b.length {
		b.grow(n)
	}
}

func (b *ByteBuffer) grow(n int) {
	if n <= cap(b.data) {
		b.data = b.data[:n]
		b.length = n
		return
	}
	newCap := cap(b.data)
	if newCap == 0 {
		newCap = BlockSize
	}
	for newCap < n {
		newCap *= 2
	}
	grown := make([]byte, n, newCap)
	copy(grown, b.data[:b.length])
	b.data = grown
	b.length = n
}

// Shrink reduces the logical length by one block, to no less than one
// block. The backing storage is kept.
func (b *ByteBuffer) Shrink() {
	b.enter()
	defer b.leave()
	if b.length <= BlockSize {
		return
	}
	b.length -= BlockSize
	b.data = b.data[:b.length]
}

// FirstIndexOf returns the absolute index of the first occurrence of
// needle in [start, end), or -1 when absent.
func (b *ByteBuffer) FirstIndexOf(needle byte, start, end int) int {
	b.enter()
	defer b.leave()
	if start < 0 || end > b.length || start >= end {
		return -1
	}
	i := bytes.IndexByte(b.data[start:end], needle)
	if i < 0 {
		return -1
	}
	return start + i
}

// LastIndexOf returns the absolute index of the last occurrence of
// needle in [start, end), or -1 when absent.
func (b *ByteBuffer) LastIndexOf(needle byte, start, end int) int {
	b.enter()
	defer b.leave()
	if start < 0 || end > b.length || start >= end {
		return -1
	}
	i := bytes.LastIndexByte(b.data[start:end], needle)
	if i < 0 {
		return -1
	}
	return start + i
}

// StartsWith reports whether the bytes at offset at match the ASCII
// string prefix in full.
func (b *ByteBuffer) StartsWith(prefix string, at int) bool {
	b.enter()
	defer b.leave()
	if at < 0 || at+len(prefix) > b.length {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if b.data[at+i] != prefix[i] {
			return false
		}
	}
	return true
}

// DecodeString returns the bytes [from, from+count) as a string.
func (b *ByteBuffer) DecodeString(from, count int) string {
	b.enter()
	defer b.leave()
	if from < 0 || count < 0 || from+count > b.length {
		panic(err.New(pkgName, err.CodeInvalidInput, "decode_string",
			"invalid range", nil).WithContext("from", from).WithContext("count", count))
	}
	return string(b.data[from : from+count])
}

// MakeSpace reclaims room for further reads given the caller's parse
// cursors: index is the first unconsumed byte, count the first unfilled
// byte (0 <= index <= count <= Len).
//
// When index is zero nothing can be compacted, so the buffer grows by a
// block if it is full. Otherwise the unconsumed tail [index, count) is
// slid down to offset zero. The returned cursors address the same
// unconsumed bytes: (0, count-index).
func (b *ByteBuffer) MakeSpace(index, count int) (newIndex, newCount int) {
	b.enter()
	defer b.leave()
	if index < 0 || index > count || count > b.length {
		panic(err.New(pkgName, err.CodeInvalidInput, "make_space",
			"invalid cursors", nil).WithContext("index", index).WithContext("count", count).WithContext("length", b.length))
	}
	if index == 0 {
		if count == b.length {
			b.grow(b.length + BlockSize)
		}
		return 0, count
	}
	copy(b.data, b.data[index:count])
	return 0, count - index
}
