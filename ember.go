// Package ember is an embeddable HTTP/1.0 server engine: a goroutine per
// connection, hard per-request memory bounds and a single-callback handler
// contract. It is meant for serving a UI or an API out of a larger program,
// not for facing the open Internet.
package ember

import (
	"github.com/emberhttp/ember/http"
)

const Version = "1.0.0"

// Handler produces the response for a fully parsed request. Returning nil
// signals that the handler took the socket over: the engine will neither
// write to it nor close it.
type Handler func(r *http.Request, c *Conn) *http.Response

// ListenAndServe runs a fire-and-forget server on addr, blocking until the
// listener fails. Use NewServer for a handle that can be stopped.
func ListenAndServe(addr string, h Handler) error {
	return NewServer(h).ListenAndServe(addr)
}
