// Package urlenc implements the percent/form decoding and escaping helpers
// used for request paths, query strings and form bodies.
package urlenc

import (
	"log/slog"
	"strings"

	"github.com/emberhttp/ember/internal/buffer"
	"github.com/indigo-web/utils/uf"
)

// Mode selects the decoding flavor.
type Mode uint8

const (
	// ModeWholeURL decodes the input to its end.
	ModeWholeURL Mode = iota
	// ModeParameter additionally stops at '&', so a single key's value can be
	// decoded out of a query string without scanning past it.
	ModeParameter
)

type decodeState uint8

const (
	stateNormal decodeState = iota
	statePercentFirstDigit
	statePercentSecondDigit
)

// DecodeInto percent-decodes src, appending to dst. The output is bounded by
// cap(dst): once full, the rest of the input is dropped. '+' turns into a
// space; a malformed %XX escape is skipped rather than failing the decode.
func DecodeInto(dst, src []byte, mode Mode) []byte {
	state := stateNormal
	var firstDigit byte

	for _, c := range src {
		if len(dst) >= cap(dst) {
			break
		}
		if c == '&' && mode == ModeParameter {
			break
		}

		switch state {
		case stateNormal:
			switch c {
			case '%':
				state = statePercentFirstDigit
			case '+':
				dst = append(dst, ' ')
			default:
				dst = append(dst, c)
			}
		case statePercentFirstDigit:
			firstDigit = c
			state = statePercentSecondDigit
		case statePercentSecondDigit:
			if ishex(firstDigit) && ishex(c) {
				dst = append(dst, unhex(firstDigit)<<4|unhex(c))
			} else {
				slog.Debug("urlenc: skipping malformed percent escape",
					"escape", string([]byte{'%', firstDigit, c}),
				)
			}
			state = stateNormal
		}
	}

	return dst
}

// Decode percent-decodes the passed string.
func Decode(src string, mode Mode) string {
	if !strings.ContainsAny(src, "%+&") {
		return src
	}

	decoded := DecodeInto(make([]byte, 0, len(src)), uf.S2B(src), mode)

	return string(decoded)
}

// Param extracts and decodes the value of the named parameter out of an
// urlencoded parameters string ("a=1&b=2&..."). The fallback is returned when
// the parameter is absent; a present parameter with an empty value yields an
// empty string.
func Param(name, params, fallback string) string {
	for len(params) > 0 {
		segment := params
		if amp := strings.IndexByte(params, '&'); amp >= 0 {
			segment, params = params[:amp], params[amp+1:]
		} else {
			params = ""
		}

		if len(segment) > len(name) && segment[len(name)] == '=' && segment[:len(name)] == name {
			return Decode(segment[len(name)+1:], ModeParameter)
		}
	}

	return fallback
}

// Query returns the query string part of a raw request path, or an empty
// string if there is none.
func Query(rawPath string) string {
	if q := strings.IndexByte(rawPath, '?'); q >= 0 {
		return rawPath[q+1:]
	}

	return ""
}

// EscapeHTML replaces the characters interpreted by an HTML renderer with
// their entities, spaces included.
func EscapeHTML(s string) string {
	b := buffer.New()

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.AppendString("&quot;")
		case '&':
			b.AppendString("&amp;")
		case '\'':
			b.AppendString("&#039;")
		case '<':
			b.AppendString("&lt;")
		case '>':
			b.AppendString("&gt;")
		case ' ':
			b.AppendString("&nbsp;")
		default:
			b.AppendByte(c)
		}
	}

	return b.String()
}

// EscapeURL aggressively escapes a string for use inside a URL: everything
// except letters and digits becomes a %XX escape.
func EscapeURL(s string) string {
	b := buffer.New()

	for i := 0; i < len(s); i++ {
		c := s[i]
		upper := c >= 'A' && c <= 'Z'
		lower := c >= 'a' && c <= 'z'
		digit := c >= '0' && c <= '9'
		if upper || lower || digit {
			b.AppendByte(c)
		} else {
			b.Appendf("%%%02x", c)
		}
	}

	return b.String()
}

func ishex(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	}

	return false
}

func unhex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}

	return 0
}
