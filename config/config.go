package config

type (
	// Request limits the memory a single request may occupy. All the limits are
	// hard: overflowing data is dropped and a warning flag is raised on the
	// request, parsing itself never stops because of them.
	Request struct {
		// MethodLength limits the request method. Anything longer is truncated.
		MethodLength int
		// PathLength limits the raw, still encoded request path.
		PathLength int
		// VersionLength limits the protocol version token.
		VersionLength int
		// DecodedPathLength limits the percent-decoded path, which is used for
		// filesystem access.
		DecodedPathLength int
		// Headers limits the number of headers. Extra headers are dropped.
		Headers int
		// HeadersSpace is the size of the header string pool, shared by all
		// header keys and values of a single request.
		HeadersSpace int
		// BodySpace limits the request body. Declared Content-Length values
		// above it are clamped.
		BodySpace int
	}

	// NET controls per-connection buffer sizes.
	NET struct {
		// ReadBufferSize is the size of the buffer used for both reading from
		// the socket and streaming file chunks back into it.
		ReadBufferSize int
		// ResponseHeaderSize is the size of the buffer the response header
		// block is rendered into. Header blocks that don't fit are truncated.
		ResponseHeaderSize int
	}
)

type Config struct {
	Request Request
	NET     NET
}

func Default() Config {
	return Config{
		Request: Request{
			MethodLength:      64,
			PathLength:        1024,
			VersionLength:     16,
			DecodedPathLength: 1024,
			Headers:           64,
			HeadersSpace:      8 * 1024,
			BodySpace:         128 * 1024 * 1024,
		},
		NET: NET{
			ReadBufferSize:     16 * 1024,
			ResponseHeaderSize: 1024,
		},
	}
}

// Fill replaces zero values of the passed config with defaults.
func Fill(original Config) (modified Config) {
	defaults := Default()

	original.Request.MethodLength = customOrDefault(
		original.Request.MethodLength, defaults.Request.MethodLength,
	)
	original.Request.PathLength = customOrDefault(
		original.Request.PathLength, defaults.Request.PathLength,
	)
	original.Request.VersionLength = customOrDefault(
		original.Request.VersionLength, defaults.Request.VersionLength,
	)
	original.Request.DecodedPathLength = customOrDefault(
		original.Request.DecodedPathLength, defaults.Request.DecodedPathLength,
	)
	original.Request.Headers = customOrDefault(
		original.Request.Headers, defaults.Request.Headers,
	)
	original.Request.HeadersSpace = customOrDefault(
		original.Request.HeadersSpace, defaults.Request.HeadersSpace,
	)
	original.Request.BodySpace = customOrDefault(
		original.Request.BodySpace, defaults.Request.BodySpace,
	)
	original.NET.ReadBufferSize = customOrDefault(
		original.NET.ReadBufferSize, defaults.NET.ReadBufferSize,
	)
	original.NET.ResponseHeaderSize = customOrDefault(
		original.NET.ResponseHeaderSize, defaults.NET.ResponseHeaderSize,
	)

	return original
}

func customOrDefault(custom, defaultVal int) int {
	if custom == 0 {
		return defaultVal
	}

	return custom
}
