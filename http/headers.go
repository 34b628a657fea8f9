package http

import (
	"github.com/indigo-web/iter"
	"github.com/indigo-web/utils/strcomp"
)

type Pair struct {
	Key, Value string
}

// Headers is an ordered collection of header pairs. Lookups are
// case-insensitive linear scans, which beats a map on the few dozen entries a
// request may carry at most. The stored strings are non-owning views into the
// connection's header string pool and stay valid until the request is reset.
type Headers struct {
	pairs []Pair
}

func NewHeaders(prealloc int) *Headers {
	return &Headers{
		pairs: make([]Pair, 0, prealloc),
	}
}

// Add appends a new pair, preserving arrival order.
func (h *Headers) Add(key, value string) *Headers {
	h.pairs = append(h.pairs, Pair{
		Key:   key,
		Value: value,
	})
	return h
}

// Value returns the first value corresponding to the key, or an empty string.
func (h *Headers) Value(key string) string {
	value, _ := h.Get(key)
	return value
}

// Get returns the first value corresponding to the key and whether it was
// found at all.
func (h *Headers) Get(key string) (value string, found bool) {
	for _, pair := range h.pairs {
		if strcomp.EqualFold(key, pair.Key) {
			return pair.Value, true
		}
	}

	return "", false
}

func (h *Headers) Has(key string) bool {
	_, found := h.Get(key)
	return found
}

// Iter returns an iterator over the pairs in arrival order.
func (h *Headers) Iter() iter.Iterator[Pair] {
	return iter.Slice(h.pairs)
}

// Expose exposes the underlying pairs slice.
func (h *Headers) Expose() []Pair {
	return h.pairs
}

func (h *Headers) Len() int {
	return len(h.pairs)
}

// Clear drops all the entries, keeping the allocated space.
func (h *Headers) Clear() *Headers {
	h.pairs = h.pairs[:0]
	return h
}
