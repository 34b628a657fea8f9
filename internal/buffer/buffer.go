package buffer

import (
	"fmt"

	"github.com/indigo-web/utils/uf"
)

// growthFloor is the smallest capacity a non-empty buffer may have. Starting
// reasonably big avoids constant reallocation when responses are built by many
// small appends.
const growthFloor = 256

// Recorder observes buffer memory traffic. Used to feed the optional server
// counters without the buffer knowing about them.
type Recorder interface {
	BufferAllocated(capacity int)
	BufferReallocated(capacity int)
	BufferFreed()
}

// Buffer is a growable byte buffer hosting a single contiguous value, e.g. a
// request body or a response being rendered. The capacity always strictly
// exceeds the length, and the byte at the length offset is always zero, so the
// contents stay addressable as a terminated string.
type Buffer struct {
	contents []byte // len(contents) is the capacity
	length   int
	rec      Recorder
}

func New() Buffer {
	return Buffer{}
}

// Observed returns a buffer reporting its allocations into rec.
func Observed(rec Recorder) Buffer {
	return Buffer{rec: rec}
}

func (b *Buffer) Len() int {
	return b.length
}

func (b *Buffer) Cap() int {
	return len(b.contents)
}

// Bytes returns the current contents. The returned slice is invalidated by any
// subsequent mutation.
func (b *Buffer) Bytes() []byte {
	return b.contents[:b.length]
}

// String returns the contents as a zero-copy string view.
func (b *Buffer) String() string {
	return uf.B2S(b.contents[:b.length])
}

// SetTo replaces the contents.
func (b *Buffer) SetTo(s string) {
	b.grow(len(s) + 1)
	b.length = copy(b.contents, s)
	b.contents[b.length] = 0
}

// AppendByte appends a single byte.
func (b *Buffer) AppendByte(c byte) {
	b.grow(b.length + 2)
	b.contents[b.length] = c
	b.length++
	b.contents[b.length] = 0
}

// Append appends the passed bytes. Appending nothing is a no-op and never
// allocates.
func (b *Buffer) Append(p []byte) {
	if len(p) == 0 {
		return
	}

	b.grow(b.length + len(p) + 1)
	b.length += copy(b.contents[b.length:], p)
	b.contents[b.length] = 0
}

func (b *Buffer) AppendString(s string) {
	b.Append(uf.S2B(s))
}

// Appendf appends formatted text.
func (b *Buffer) Appendf(format string, args ...any) {
	b.Append(fmt.Appendf(nil, format, args...))
}

// Reserve pre-sizes the buffer to hold at least n content bytes without
// further reallocation. Unlike append growth, the capacity is exact: bodies
// are sized once from the declared content length and never grow past it.
func (b *Buffer) Reserve(n int) {
	if n+1 <= len(b.contents) {
		return
	}

	b.realloc(n + 1)
}

// Free releases the backing storage. Freeing an empty buffer is a no-op.
func (b *Buffer) Free() {
	if b.contents == nil {
		return
	}

	b.contents = nil
	b.length = 0
	if b.rec != nil {
		b.rec.BufferFreed()
	}
}

// Clear resets the length, keeping the storage for reuse.
func (b *Buffer) Clear() {
	b.length = 0
	if b.contents != nil {
		b.contents[0] = 0
	}
}

func (b *Buffer) grow(minCapacity int) {
	if minCapacity <= len(b.contents) {
		return
	}

	b.realloc(nextAllocationSize(minCapacity))
}

func (b *Buffer) realloc(capacity int) {
	contents := make([]byte, capacity)
	copy(contents, b.contents[:b.length])
	reallocated := b.contents != nil
	b.contents = contents

	if b.rec != nil {
		if reallocated {
			b.rec.BufferReallocated(capacity)
		} else {
			b.rec.BufferAllocated(capacity)
		}
	}
}

// nextAllocationSize rounds up to the next power of two, starting from the
// growth floor, so repeated small appends cost amortized O(1).
func nextAllocationSize(required int) int {
	powerOf2 := growthFloor
	for powerOf2 < required {
		powerOf2 *= 2
	}

	return powerOf2
}
