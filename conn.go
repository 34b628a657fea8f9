package ember

import (
	"net"

	"github.com/emberhttp/ember/http"
	"github.com/emberhttp/ember/internal/buffer"
	"github.com/emberhttp/ember/internal/parser"
)

// Conn is the per-connection state: the socket, the fixed I/O buffers, the
// request being parsed and the byte tallies. Connection objects are pooled
// and recycled across connections; a hijacked one is handed to the handler
// for good instead.
type Conn struct {
	server  *Server
	netConn net.Conn

	// readBuf backs both socket reads and file chunk streaming.
	readBuf []byte
	// hdrBuf is the fixed-size buffer response header blocks render into.
	hdrBuf []byte

	request *http.Request
	parser  *parser.Parser

	bytesSent, bytesReceived int64
	hijacked                 bool
}

func newConn(s *Server) *Conn {
	request := http.NewRequest(s.cfg.Request.Headers, s.cnt)

	return &Conn{
		server:  s,
		readBuf: make([]byte, s.cfg.NET.ReadBufferSize),
		hdrBuf:  make([]byte, 0, s.cfg.NET.ResponseHeaderSize),
		request: request,
		parser:  parser.New(request, s.cfg.Request),
	}
}

func (c *Conn) reset(netConn net.Conn) {
	c.netConn = netConn
	c.bytesSent = 0
	c.bytesReceived = 0
	c.hijacked = false
}

func (c *Conn) release() {
	c.parser.Release()
	c.netConn = nil
}

// Server returns the server this connection belongs to.
func (c *Conn) Server() *Server {
	return c.server
}

// NetConn exposes the underlying socket. Meant for handlers that take the
// connection over by returning a nil response; they then own the socket,
// its lifetime included.
func (c *Conn) NetConn() net.Conn {
	return c.netConn
}

// serve reads the request off the socket, dispatches it to the handler and
// transmits the response. One request per connection, HTTP/1.0 style.
func (c *Conn) serve() {
	log := c.server.log
	remote := c.netConn.RemoteAddr().String()

	found := false
	for {
		n, err := c.netConn.Read(c.readBuf)
		if n > 0 {
			c.bytesReceived += int64(n)
			c.parser.Feed(c.readBuf[:n])
			if c.request.State == http.StateDone {
				found = true
				break
			}
		}
		if err != nil {
			break
		}
	}

	c.server.cnt.AddBytesReceived(int(c.bytesReceived))

	if c.request.Warnings.Any() {
		log.Warn("request parsed with warnings",
			"remote", remote, "warnings", c.request.Warnings.Strings(),
		)
	}

	if !found {
		log.Warn("connection closed before a full request arrived", "remote", remote)
		_ = c.netConn.Close()
		return
	}

	response := c.server.handler(c.request, c)
	if response == nil {
		log.Info("handler returned no response, assuming it took the connection over",
			"remote", remote,
		)
		c.hijacked = true
		return
	}

	if err := c.send(response); err != nil {
		log.Error("failed to respond", "remote", remote, "path", c.request.Path, "err", err)
	} else {
		log.Debug("responded",
			"remote", remote, "code", int(response.Code), "bytes", c.bytesSent,
		)
	}

	c.server.cnt.AddBytesSent(int(c.bytesSent))
	_ = c.netConn.Close()
}

// DebugString renders the request and connection state into a human-readable
// dump, for handlers troubleshooting what actually arrived.
func (c *Conn) DebugString() string {
	b := buffer.New()
	b.Appendf("%s %s from %s\n", c.request.Method, c.request.Path, c.netConn.RemoteAddr())
	b.Appendf("Request URL path decoded to '%s'\n", c.request.PathDecoded)
	b.Appendf("Bytes sent: %d\n", c.bytesSent)
	b.Appendf("Bytes received: %d\n", c.bytesReceived)
	b.Appendf("Final request parse state: %d\n", c.request.State)
	b.Appendf("Header count: %d\n", c.request.Headers.Len())

	b.AppendString("\n*** Request Headers ***\n")
	for _, pair := range c.request.Headers.Expose() {
		b.Appendf("'%s' = '%s'\n", pair.Key, pair.Value)
	}

	if c.request.Body.Len() > 0 {
		b.Appendf("\n*** Request Body ***\n%s\n", c.request.Body.String())
	}

	b.AppendString("\n*** Request Warnings ***\n")
	warnings := c.request.Warnings.Strings()
	for _, warning := range warnings {
		b.Appendf("%s\n", warning)
	}
	if len(warnings) == 0 {
		b.AppendString("No warnings\n")
	}

	return b.String()
}
