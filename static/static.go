// Package static serves files from a document root: a traversal guard on the
// decoded path, index.html probing for directories and an optional HTML
// directory listing.
package static

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/emberhttp/ember/http"
	"github.com/emberhttp/ember/urlenc"
)

// FS resolves decoded request paths against a document root.
type FS struct {
	Root string
	// ListDirectories enables HTML listings for directories without an
	// index.html. Off by default, since a listing exposes the tree.
	ListDirectories bool
	// Log receives serving failures; slog.Default() when nil.
	Log *slog.Logger
}

// Serve maps the request path onto the document root and returns the response
// to send: the file itself, a directory's index.html or listing, or one of
// 403/404/500. requestPath is the raw path (used to build listing hrefs),
// decodedPath the percent-decoded one (used to hit the filesystem).
func (f FS) Serve(requestPath, decodedPath string) *http.Response {
	if EscapesRoot(decodedPath) {
		return http.Forbidden()
	}

	filePath := strings.TrimSuffix(f.Root+decodedPath, "/")

	info, err := os.Stat(filePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return http.NotFound(filePath)
	case err != nil:
		f.logger().Error("failed to serve file: could not stat path",
			"path", filePath, "err", err,
		)
		return http.InternalError("Information about the path could not be determined for your request")
	}

	if info.IsDir() {
		return f.serveDirectory(requestPath, filePath)
	}

	return http.File(filePath)
}

func (f FS) serveDirectory(requestPath, dirPath string) *http.Response {
	if !f.ListDirectories {
		f.logger().Warn("refusing to serve directory: listings are disabled",
			"path", dirPath,
		)
		return http.Forbidden()
	}

	indexPath := dirPath + "/index.html"
	info, err := os.Stat(indexPath)
	switch {
	case err == nil && !info.IsDir():
		return http.File(indexPath)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		f.logger().Error("failed to serve file: could not stat path",
			"path", indexPath, "err", err,
		)
		return http.InternalError("Information about the path could not be determined for your request")
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		f.logger().Error("failed to list directory", "path", dirPath, "err", err)
		return http.InternalError("We could not open the directory for iterating")
	}

	response := http.HTML("<html><head><title>Directory Reading</title><body>")

	slashOrEmpty := ""
	if !strings.HasSuffix(requestPath, "/") {
		slashOrEmpty = "/"
	}

	for _, entry := range entries {
		response.Body.Appendf("<a href=\"%s%s%s\">%s</a><br>\n",
			requestPath, slashOrEmpty, urlenc.EscapeURL(entry.Name()),
			urlenc.EscapeHTML(entry.Name()),
		)
	}

	return response
}

func (f FS) logger() *slog.Logger {
	if f.Log != nil {
		return f.Log
	}

	return slog.Default()
}

type pathState uint8

const (
	pathNormal pathState = iota
	pathSep
	pathDot
)

// EscapesRoot reports whether resolving the path could reach outside the
// directory it is anchored at. Segments are tracked as a signed depth: a
// normal segment descends, ".." ascends, and any path whose depth would go
// negative at any point is rejected, regardless of where it ends up.
func EscapesRoot(path string) bool {
	depth := 0
	state := pathNormal
	firstChar := true

	for i := 0; i < len(path); i++ {
		c := path[i]

		switch state {
		case pathNormal:
			if c == '/' || c == '\\' {
				state = pathSep
			} else if firstChar && c == '.' {
				state = pathDot
			} else if firstChar {
				depth++
			}
			firstChar = false
		case pathSep:
			if c == '.' {
				state = pathDot
			} else if c != '/' && c != '\\' {
				depth++
				state = pathNormal
			}
		case pathDot:
			if c == '/' {
				state = pathSep
			} else if c == '.' {
				depth--
				if depth < 0 {
					return true
				}
				state = pathNormal
			} else {
				state = pathNormal
			}
		}
	}

	return depth < 0
}
