// Package statuspage renders the server counters as an HTML page, suitable
// for wiring under a /status route in a handler.
package statuspage

import (
	"github.com/emberhttp/ember/counters"
	"github.com/emberhttp/ember/http"
)

// Render builds the status page out of a counters snapshot.
func Render(s counters.Snapshot) *http.Response {
	response := http.HTML("<html><head><title>Server Status</title></head><body><h2>Server Status</h2><table border=\"1\">\n")

	for _, row := range []struct {
		name  string
		value int64
	}{
		{"Active connections", s.ActiveConnections},
		{"Total connections", s.TotalConnections},
		{"Bytes sent", s.BytesSent},
		{"Bytes received", s.BytesReceived},
		{"Buffer allocations", s.BufferAllocations},
		{"Buffer reallocations", s.BufferReallocations},
		{"Buffer frees", s.BufferFrees},
		{"Buffer bytes reallocated", s.BufferBytesReallocated},
	} {
		response.Body.Appendf("<tr><td>%s</td><td>%d</td></tr>\n", row.name, row.value)
	}

	response.Body.AppendString("</table></body></html>")

	return response
}
