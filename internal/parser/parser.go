// Package parser implements the incremental HTTP/1.x request parser: an
// explicit state machine consuming one byte at a time, fully re-entrant
// across socket reads of arbitrary size. All the bounds are hard and all
// overflows degrade into warnings on the request instead of aborting.
package parser

import (
	"strconv"
	"strings"

	"github.com/emberhttp/ember/config"
	"github.com/emberhttp/ember/http"
	"github.com/emberhttp/ember/internal/strpool"
	"github.com/emberhttp/ember/urlenc"
	"github.com/indigo-web/utils/uf"
)

// Parser modifies the request object by pointer. The request-line tokens are
// accumulated into parser-owned bounded storage the request gets zero-copy
// views of; header keys and values are carved off the string pool.
type Parser struct {
	request *http.Request
	cfg     config.Request
	pool    strpool.Pool

	method, path, version, pathDecoded []byte

	headerName, headerValue   strpool.Span
	nameStarted, valueStarted bool
	valueSkippedSpace         bool
	headersCount              int
	bodyRemaining             int
}

func New(request *http.Request, cfg config.Request) *Parser {
	return &Parser{
		request:     request,
		cfg:         cfg,
		pool:        strpool.New(cfg.HeadersSpace),
		method:      make([]byte, 0, cfg.MethodLength),
		path:        make([]byte, 0, cfg.PathLength),
		version:     make([]byte, 0, cfg.VersionLength),
		pathDecoded: make([]byte, 0, cfg.DecodedPathLength),
	}
}

// Feed consumes the next chunk of the byte stream. The resulting request is
// independent of how the stream was sliced into chunks. Once the request's
// state reaches StateDone, further bytes may only raise the body truncation
// warning.
func (p *Parser) Feed(data []byte) {
	r := p.request

	for i := 0; i < len(data); i++ {
		c := data[i]

		switch r.State {
		case http.StateMethod:
			switch {
			case c == ' ':
				r.Method = uf.B2S(p.method)
				r.State = http.StatePath
			case len(p.method) < cap(p.method):
				p.method = append(p.method, c)
			default:
				r.Warnings.MethodTruncated = true
			}
		case http.StatePath:
			switch {
			case c == ' ':
				r.Path = uf.B2S(p.path)
				p.pathDecoded = urlenc.DecodeInto(p.pathDecoded, p.path, urlenc.ModeWholeURL)
				r.PathDecoded = uf.B2S(p.pathDecoded)
				r.State = http.StateVersion
			case len(p.path) < cap(p.path):
				p.path = append(p.path, c)
			default:
				r.Warnings.PathTruncated = true
			}
		case http.StateVersion:
			switch {
			case c == '\r':
				r.Version = uf.B2S(p.version)
				r.State = http.StateCR
			case len(p.version) < cap(p.version):
				p.version = append(p.version, c)
			default:
				r.Warnings.VersionTruncated = true
			}
		case http.StateHeaderName:
			switch {
			case c == ':':
				r.State = http.StateHeaderValue
			case c == '\r':
				r.State = http.StateCR
			case p.headersCount >= p.cfg.Headers:
				r.Warnings.TooManyHeaders = true
			default:
				if !p.nameStarted {
					p.headerName = p.pool.Begin()
					p.nameStarted = true
				}

				var ok bool
				if p.headerName, ok = p.pool.Append(p.headerName, c); !ok {
					r.Warnings.PoolExhausted = true
				}
			}
		case http.StateHeaderValue:
			switch {
			case c == ' ' && !p.valueSkippedSpace && p.headerValue.Len() == 0:
				// exactly one space between the colon and the value is eaten
				p.valueSkippedSpace = true
			case c == '\r':
				if p.headersCount < p.cfg.Headers && p.headerValue.Len() > 0 {
					r.Headers.Add(p.pool.String(p.headerName), p.pool.String(p.headerValue))
					p.headersCount++
				}

				p.resetPendingHeader()
				r.State = http.StateCR
			default:
				if p.headersCount >= p.cfg.Headers {
					break
				}

				if !p.valueStarted {
					p.headerValue = p.pool.Begin()
					p.valueStarted = true
				}

				var ok bool
				if p.headerValue, ok = p.pool.Append(p.headerValue, c); !ok {
					r.Warnings.PoolExhausted = true
				}
			}
		case http.StateCR:
			if c == '\n' {
				r.State = http.StateCRLF
			} else {
				// a lone CR; pretend a new header line started
				r.State = http.StateHeaderName
			}
		case http.StateCRLF:
			if c == '\r' {
				r.State = http.StateCRLFCR
			} else {
				// the first character of the next header, replay it
				r.State = http.StateHeaderName
				i--
			}
		case http.StateCRLFCR:
			if c == '\n' {
				p.finishHeaders()
			} else {
				r.State = http.StateHeaderName
			}
		case http.StateBody:
			remaining := len(data) - i
			if remaining > p.bodyRemaining {
				remaining = p.bodyRemaining
			}

			r.Body.Append(data[i : i+remaining])
			p.bodyRemaining -= remaining
			i += remaining - 1

			if p.bodyRemaining == 0 {
				r.State = http.StateDone
			}
		case http.StateDone:
			if r.ContentLength > 0 {
				r.Warnings.BodyTruncated = true
			}
		}
	}
}

// finishHeaders ends the header block: unless a sane Content-Length promises
// a body, the request is complete.
func (p *Parser) finishHeaders() {
	r := p.request
	r.State = http.StateDone

	value, found := r.Headers.Get("Content-Length")
	if !found {
		return
	}

	length, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || length <= 0 {
		return
	}

	if length > p.cfg.BodySpace {
		length = p.cfg.BodySpace
	}

	r.ContentLength = length
	r.Body.Reserve(length)
	p.bodyRemaining = length
	r.State = http.StateBody
}

func (p *Parser) resetPendingHeader() {
	p.headerName, p.headerValue = strpool.Span{}, strpool.Span{}
	p.nameStarted = false
	p.valueStarted = false
	p.valueSkippedSpace = false
}

// Release resets the parser and its request for the next connection.
func (p *Parser) Release() {
	p.request.Reset()
	p.pool.Reset()
	p.method = p.method[:0]
	p.path = p.path[:0]
	p.version = p.version[:0]
	p.pathDecoded = p.pathDecoded[:0]
	p.resetPendingHeader()
	p.headersCount = 0
	p.bodyRemaining = 0
}
