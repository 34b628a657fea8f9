package ember

import (
	"fmt"
	"io"
	"os"

	"github.com/emberhttp/ember/http"
	"github.com/emberhttp/ember/http/mime"
)

// mimeSampleSize is how many leading file bytes are read for content type
// sniffing before the file is rewound and streamed.
const mimeSampleSize = 100

// send transmits the response over the socket. A response carrying neither a
// body nor a filename is a handler bug, not a runtime condition.
func (c *Conn) send(response *http.Response) error {
	if response.Body.Len() > 0 {
		return c.sendBody(response)
	}
	if len(response.Filename) > 0 {
		return c.sendFile(response)
	}

	panic(fmt.Sprintf(
		"BUG: the response for %q has neither a body nor a filename to send", c.request.Path,
	))
}

func (c *Conn) sendBody(response *http.Response) error {
	contentType := response.ContentType
	if len(contentType) == 0 {
		contentType = mime.HTML
	}

	header := c.renderHeader(response, contentType, int64(response.Body.Len()))
	if err := c.write(header); err != nil {
		return fmt.Errorf("send response header: %w", err)
	}
	if err := c.write(response.Body.Bytes()); err != nil {
		return fmt.Errorf("send response body: %w", err)
	}

	return nil
}

// sendFile streams the named file: a leading sample for MIME sniffing, a stat
// for the length, then fixed-size chunks through the connection's read
// buffer. Failures before the header went out are substituted with a 404 or
// 500 response; afterwards the connection is past saving.
func (c *Conn) sendFile(response *http.Response) error {
	log := c.server.log

	file, err := os.Open(response.Filename)
	if err != nil {
		log.Error("cannot open file to serve",
			"filename", response.Filename, "path", c.request.Path, "err", err,
		)
		return c.substitute(http.NotFound(c.request.Path))
	}
	defer file.Close()

	n, err := file.Read(c.readBuf[:mimeSampleSize])
	if err != nil && err != io.EOF {
		log.Error("cannot sample file for content type detection",
			"filename", response.Filename, "err", err,
		)
		return c.substitute(http.InternalError("Reading the file to determine its type failed"))
	}

	contentType := response.ContentType
	if len(contentType) == 0 {
		contentType = mime.Sniff(response.Filename, c.readBuf[:n])
	}

	info, err := file.Stat()
	if err != nil {
		log.Error("cannot stat file to serve", "filename", response.Filename, "err", err)
		return c.substitute(http.InternalError("Determining the file length failed"))
	}

	if _, err = file.Seek(0, io.SeekStart); err != nil {
		log.Error("cannot rewind file to serve", "filename", response.Filename, "err", err)
		return c.substitute(http.InternalError("Rewinding the file to start sending failed"))
	}

	header := c.renderHeader(response, contentType, info.Size())
	if err = c.write(header); err != nil {
		return fmt.Errorf("send response header: %w", err)
	}

	for {
		n, err = file.Read(c.readBuf)
		if n > 0 {
			if werr := c.write(c.readBuf[:n]); werr != nil {
				return fmt.Errorf("send file chunk: %w", werr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read file %q: %w", response.Filename, err)
		}
	}
}

// substitute sends an error response in place of a file that could not be
// served. Only called before any header or body byte went out, so the
// replacement is a well-formed response.
func (c *Conn) substitute(errorResponse *http.Response) error {
	if err := c.sendBody(errorResponse); err != nil {
		return fmt.Errorf("send substitute error response: %w", err)
	}

	return nil
}

// renderHeader formats the response header block into the connection's
// fixed-size header buffer. A block that does not fit is truncated, never
// grown.
func (c *Conn) renderHeader(response *http.Response, contentType mime.MIME, contentLength int64) []byte {
	h := appendBounded(c.hdrBuf[:0], fmt.Appendf(nil,
		"HTTP/1.0 %d %s\r\nContent-Type: %s\r\nContent-Length: %d\r\nServer: ember/%s\r\n",
		response.Code, response.StatusText(), contentType, contentLength, Version,
	))
	for _, pair := range response.ExtraHeaders {
		h = appendBounded(h, fmt.Appendf(nil, "%s: %s\r\n", pair.Key, pair.Value))
	}

	return appendBounded(h, []byte("\r\n"))
}

// appendBounded appends as much of p as fits within dst's capacity.
func appendBounded(dst, p []byte) []byte {
	if free := cap(dst) - len(dst); len(p) > free {
		p = p[:free]
	}

	return append(dst, p...)
}

func (c *Conn) write(p []byte) error {
	n, err := c.netConn.Write(p)
	c.bytesSent += int64(n)

	return err
}
