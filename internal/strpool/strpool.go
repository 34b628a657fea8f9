package strpool

import (
	"github.com/indigo-web/utils/uf"
)

// Pool is a fixed-capacity byte arena supplying storage for parsed header
// names and values of a single request. Strings are carved off sequentially
// and never individually freed; the whole pool is bulk-reset between
// requests. Spans reference the memory by integer offsets, so there are no
// dangling views to invalidate.
type Pool struct {
	memory []byte
	offset int
}

// Span identifies a string inside the pool. The zero value is an empty string.
type Span struct {
	begin, length int
}

func (s Span) Len() int {
	return s.length
}

func New(size int) Pool {
	return Pool{
		memory: make([]byte, size),
	}
}

// Begin starts a new string at the current position. Beginning a string on an
// exhausted pool is allowed: the resulting span is valid and empty, appends to
// it will just fail.
func (s *Pool) Begin() Span {
	return Span{begin: s.offset}
}

// Append grows the passed span by one byte. Only the most recently begun span
// may grow; false is reported once the pool is exhausted, in which case the
// span stays intact and the byte is lost.
func (s *Pool) Append(span Span, c byte) (Span, bool) {
	if s.offset >= len(s.memory) {
		return span, false
	}

	s.memory[s.offset] = c
	s.offset++
	span.length++

	return span, true
}

func (s *Pool) Bytes(span Span) []byte {
	return s.memory[span.begin : span.begin+span.length]
}

// String returns a zero-copy view of the span. The view stays valid until
// Reset, as the backing array is never reallocated.
func (s *Pool) String(span Span) string {
	return uf.B2S(s.Bytes(span))
}

// Used reports how many bytes of the pool are occupied.
func (s *Pool) Used() int {
	return s.offset
}

// Reset discards all strings. Previously returned spans must not be resolved
// afterwards.
func (s *Pool) Reset() {
	s.offset = 0
}
