package http

import (
	"github.com/emberhttp/ember/internal/buffer"
)

// ParseState is the position of the incremental request parser. The zero
// value is StateMethod, so a zeroed request is ready for its first byte.
type ParseState uint8

const (
	StateMethod ParseState = iota
	StatePath
	StateVersion
	StateHeaderName
	StateHeaderValue
	StateCR
	StateCRLF
	StateCRLFCR
	StateBody
	StateDone
)

// Warnings are soft parsing anomalies. They never abort parsing; the engine
// logs them once the request is complete so the handler still gets whatever
// data survived the bounds.
type Warnings struct {
	// PoolExhausted reports that the header string pool ran out of space and
	// some header data was lost.
	PoolExhausted bool
	// TooManyHeaders reports that headers past the configured count were dropped.
	TooManyHeaders bool

	MethodTruncated  bool
	PathTruncated    bool
	VersionTruncated bool
	// BodyTruncated reports that the client sent more body bytes than its
	// declared (or clamped) content length.
	BodyTruncated bool
}

func (w Warnings) Any() bool {
	return w.PoolExhausted || w.TooManyHeaders || w.MethodTruncated ||
		w.PathTruncated || w.VersionTruncated || w.BodyTruncated
}

// Strings renders the raised flags, mostly for logging.
func (w Warnings) Strings() (raised []string) {
	for _, flag := range []struct {
		on   bool
		name string
	}{
		{w.PoolExhausted, "header string pool exhausted"},
		{w.TooManyHeaders, "too many headers, some dropped"},
		{w.MethodTruncated, "method truncated"},
		{w.PathTruncated, "path truncated"},
		{w.VersionTruncated, "version truncated"},
		{w.BodyTruncated, "body truncated"},
	} {
		if flag.on {
			raised = append(raised, flag.name)
		}
	}

	return raised
}

// Request is built incrementally by the parser and owned by a single
// connection. Method, Path, PathDecoded and Version are zero-copy views into
// parser-owned bounded storage; they, as well as the header values, stay
// valid until the connection is recycled.
type Request struct {
	Method      string
	Path        string
	PathDecoded string
	Version     string

	Headers *Headers
	// ContentLength is the declared body length after clamping, zero if the
	// request carries no body.
	ContentLength int
	Body          buffer.Buffer

	Warnings Warnings
	State    ParseState
}

func NewRequest(headersPrealloc int, rec buffer.Recorder) *Request {
	return &Request{
		Headers: NewHeaders(headersPrealloc),
		Body:    buffer.Observed(rec),
	}
}

// Reset prepares the request for the next connection. The body storage is
// released rather than kept: bodies are sized by the client and may be huge.
func (r *Request) Reset() {
	r.Method = ""
	r.Path = ""
	r.PathDecoded = ""
	r.Version = ""
	r.Headers.Clear()
	r.ContentLength = 0
	r.Body.Free()
	r.Warnings = Warnings{}
	r.State = StateMethod
}
