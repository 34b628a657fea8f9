package parser

import (
	"strings"
	"testing"

	"github.com/dchest/uniuri"
	"github.com/emberhttp/ember/config"
	"github.com/emberhttp/ember/http"
	"github.com/stretchr/testify/require"
)

var (
	simpleGET = []byte("GET /index.html HTTP/1.0\r\n\r\n")
	biggerGET = []byte("GET / HTTP/1.0\r\nHello: World!\r\n\r\n")

	encodedGET = []byte("GET /hello%20world?a=b HTTP/1.0\r\n\r\n")

	somePOST = []byte("POST /form HTTP/1.0\r\nHello: World!\r\nContent-Length: 13\r\n\r\nHello, World!")
)

func getParser() (*Parser, *http.Request) {
	cfg := config.Default().Request
	request := http.NewRequest(cfg.Headers, nil)
	return New(request, cfg), request
}

func copySlice(src []byte) (copied []byte) {
	return append(copied, src...)
}

func splitIntoParts(req []byte, n int) (parts [][]byte) {
	for i := 0; i < len(req); i += n {
		end := i + n
		if end > len(req) {
			end = len(req)
		}

		parts = append(parts, copySlice(req[i:end]))
	}

	return parts
}

type testHeaders map[string]string

type wantedRequest struct {
	Method  string
	Path    string
	Version string
	Headers testHeaders
	Body    string
}

func compareRequests(t *testing.T, wanted wantedRequest, actual *http.Request) {
	require.Equal(t, http.StateDone, actual.State)
	require.Equal(t, wanted.Method, actual.Method)
	require.Equal(t, wanted.Path, actual.Path)
	require.Equal(t, wanted.Version, actual.Version)
	require.Equal(t, len(wanted.Headers), actual.Headers.Len())

	for key, value := range wanted.Headers {
		actualValue, found := actual.Headers.Get(key)
		require.True(t, found, key)
		require.Equal(t, value, actualValue)
	}

	require.Equal(t, wanted.Body, actual.Body.String())
}

func testPartedRequest(t *testing.T, wanted wantedRequest, rawRequest []byte, n int) {
	parser, request := getParser()

	for _, chunk := range splitIntoParts(rawRequest, n) {
		parser.Feed(chunk)
	}

	require.Falsef(t, request.Warnings.Any(), "part size: %d, warnings: %v", n, request.Warnings.Strings())
	compareRequests(t, wanted, request)
}

func TestParser_Feed_GET(t *testing.T) {
	t.Run("SimpleGET", func(t *testing.T) {
		parser, request := getParser()
		parser.Feed(simpleGET)

		compareRequests(t, wantedRequest{
			Method:  "GET",
			Path:    "/index.html",
			Version: "HTTP/1.0",
			Headers: testHeaders{},
		}, request)
		require.Equal(t, "/index.html", request.PathDecoded)
		require.Zero(t, request.ContentLength)
		require.False(t, request.Warnings.Any())
	})

	t.Run("BiggerGET", func(t *testing.T) {
		parser, request := getParser()
		parser.Feed(biggerGET)

		compareRequests(t, wantedRequest{
			Method:  "GET",
			Path:    "/",
			Version: "HTTP/1.0",
			Headers: testHeaders{
				"hello": "World!",
			},
		}, request)
	})

	t.Run("EncodedGET", func(t *testing.T) {
		parser, request := getParser()
		parser.Feed(encodedGET)

		require.Equal(t, http.StateDone, request.State)
		require.Equal(t, "/hello%20world?a=b", request.Path)
		require.Equal(t, "/hello world?a=b", request.PathDecoded)
	})

	wanted := wantedRequest{
		Method:  "GET",
		Path:    "/",
		Version: "HTTP/1.0",
		Headers: testHeaders{
			"hello": "World!",
		},
	}

	for _, n := range []int{1, 2, 3, 5, 7, 10} {
		testPartedRequest(t, wanted, biggerGET, n)
	}
}

func TestParser_Feed_POST(t *testing.T) {
	wanted := wantedRequest{
		Method:  "POST",
		Path:    "/form",
		Version: "HTTP/1.0",
		Headers: testHeaders{
			"hello":          "World!",
			"content-length": "13",
		},
		Body: "Hello, World!",
	}

	t.Run("Whole", func(t *testing.T) {
		parser, request := getParser()
		parser.Feed(somePOST)

		compareRequests(t, wanted, request)
		require.Equal(t, 13, request.ContentLength)
		require.False(t, request.Warnings.Any())
	})

	t.Run("Parted", func(t *testing.T) {
		for _, n := range []int{1, 2, 3, 5, 7, 13} {
			testPartedRequest(t, wanted, somePOST, n)
		}
	})

	t.Run("ExtraBodyByte", func(t *testing.T) {
		parser, request := getParser()
		parser.Feed(somePOST)
		parser.Feed([]byte("!"))

		require.Equal(t, http.StateDone, request.State)
		require.Equal(t, "Hello, World!", request.Body.String())
		require.True(t, request.Warnings.BodyTruncated)
	})
}

func TestParser_Feed_ContentLength(t *testing.T) {
	t.Run("Zero", func(t *testing.T) {
		parser, request := getParser()
		parser.Feed([]byte("POST / HTTP/1.0\r\nContent-Length: 0\r\n\r\n"))

		require.Equal(t, http.StateDone, request.State)
		require.Zero(t, request.ContentLength)
		require.Zero(t, request.Body.Len())
	})

	t.Run("Garbage", func(t *testing.T) {
		parser, request := getParser()
		parser.Feed([]byte("POST / HTTP/1.0\r\nContent-Length: over9000\r\n\r\n"))

		require.Equal(t, http.StateDone, request.State)
		require.Zero(t, request.ContentLength)
	})

	t.Run("Clamped", func(t *testing.T) {
		cfg := config.Default().Request
		cfg.BodySpace = 8
		request := http.NewRequest(cfg.Headers, nil)
		parser := New(request, cfg)
		parser.Feed([]byte("POST / HTTP/1.0\r\nContent-Length: 100\r\n\r\n12345678"))

		require.Equal(t, http.StateDone, request.State)
		require.Equal(t, 8, request.ContentLength)
		require.Equal(t, "12345678", request.Body.String())
	})
}

func TestParser_Feed_Truncation(t *testing.T) {
	t.Run("Method", func(t *testing.T) {
		parser, request := getParser()
		parser.Feed([]byte(strings.Repeat("M", 100) + " / HTTP/1.0\r\n\r\n"))

		require.Equal(t, http.StateDone, request.State)
		require.True(t, request.Warnings.MethodTruncated)
		require.Len(t, request.Method, config.Default().Request.MethodLength)
	})

	t.Run("Path", func(t *testing.T) {
		parser, request := getParser()
		parser.Feed([]byte("GET /" + strings.Repeat("a", 2000) + " HTTP/1.0\r\n\r\n"))

		require.Equal(t, http.StateDone, request.State)
		require.True(t, request.Warnings.PathTruncated)
		require.Len(t, request.Path, config.Default().Request.PathLength)
	})

	t.Run("TooManyHeaders", func(t *testing.T) {
		cfg := config.Default().Request
		cfg.Headers = 2
		request := http.NewRequest(cfg.Headers, nil)
		parser := New(request, cfg)
		parser.Feed([]byte("GET / HTTP/1.0\r\nA: 1\r\nB: 2\r\nC: 3\r\n\r\n"))

		require.Equal(t, http.StateDone, request.State)
		require.True(t, request.Warnings.TooManyHeaders)
		require.Equal(t, 2, request.Headers.Len())
		require.False(t, request.Headers.Has("C"))
	})

	t.Run("PoolExhausted", func(t *testing.T) {
		cfg := config.Default().Request
		cfg.HeadersSpace = 16
		request := http.NewRequest(cfg.Headers, nil)
		parser := New(request, cfg)
		parser.Feed([]byte("GET / HTTP/1.0\r\nLong-Header-Name: a very long value\r\n\r\n"))

		require.Equal(t, http.StateDone, request.State)
		require.True(t, request.Warnings.PoolExhausted)
	})
}

func TestParser_Feed_HeaderQuirks(t *testing.T) {
	t.Run("NoSpaceAfterColon", func(t *testing.T) {
		parser, request := getParser()
		parser.Feed([]byte("GET / HTTP/1.0\r\nHost:example.com\r\n\r\n"))

		value, found := request.Headers.Get("Host")
		require.True(t, found)
		require.Equal(t, "example.com", value)
	})

	t.Run("TwoSpacesAfterColon", func(t *testing.T) {
		// only the first space is eaten
		parser, request := getParser()
		parser.Feed([]byte("GET / HTTP/1.0\r\nHost:  example.com\r\n\r\n"))

		value, found := request.Headers.Get("Host")
		require.True(t, found)
		require.Equal(t, " example.com", value)
	})

	t.Run("EmptyValueDropped", func(t *testing.T) {
		parser, request := getParser()
		parser.Feed([]byte("GET / HTTP/1.0\r\nEmpty:\r\nHost: a\r\n\r\n"))

		require.Equal(t, http.StateDone, request.State)
		require.False(t, request.Headers.Has("Empty"))
		require.True(t, request.Headers.Has("Host"))
	})

	t.Run("CaseInsensitiveLookup", func(t *testing.T) {
		parser, request := getParser()
		parser.Feed([]byte("GET / HTTP/1.0\r\nCoNtEnT-TyPe: text/plain\r\n\r\n"))

		value, found := request.Headers.Get("content-type")
		require.True(t, found)
		require.Equal(t, "text/plain", value)
	})
}

func TestParser_Feed_RandomHeaders(t *testing.T) {
	// chunk boundary independence over randomized header data
	var sb strings.Builder
	sb.WriteString("GET / HTTP/1.0\r\n")

	wanted := wantedRequest{
		Method:  "GET",
		Path:    "/",
		Version: "HTTP/1.0",
		Headers: testHeaders{},
	}

	for i := 0; i < 10; i++ {
		key := uniuri.NewLenChars(10, []byte("abcdefghijklmnopqrstuvwxyz"))
		value := uniuri.NewLenChars(20, []byte("abcdefghijklmnopqrstuvwxyz0123456789"))
		sb.WriteString(key + ": " + value + "\r\n")
		wanted.Headers[key] = value
	}

	sb.WriteString("\r\n")
	raw := []byte(sb.String())

	for _, n := range []int{1, 2, 3, 5, 7, 10, 64, len(raw)} {
		testPartedRequest(t, wanted, raw, n)
	}
}

func TestParser_Release(t *testing.T) {
	parser, request := getParser()
	parser.Feed(somePOST)
	require.Equal(t, http.StateDone, request.State)

	parser.Release()
	require.Equal(t, http.StateMethod, request.State)
	require.Zero(t, request.Headers.Len())
	require.Zero(t, request.Body.Len())
	require.Empty(t, request.Method)

	parser.Feed(simpleGET)
	require.Equal(t, http.StateDone, request.State)
	require.Equal(t, "GET", request.Method)
	require.Equal(t, "/index.html", request.Path)
	require.Zero(t, request.Headers.Len())
}
