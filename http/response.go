package http

import (
	"github.com/emberhttp/ember/http/mime"
	"github.com/emberhttp/ember/http/status"
	"github.com/emberhttp/ember/internal/buffer"
	json "github.com/json-iterator/go"
)

// Response is what a handler returns. Exactly one delivery mode must be
// chosen: either the body holds bytes to be sent as-is, or Filename points at
// a file to be streamed from disk. A response with neither is a programming
// error and trips an assertion in the engine.
type Response struct {
	Code status.Code
	// Status is the custom status text; the default text for Code is used
	// when empty.
	Status      string
	ContentType mime.MIME
	Body        buffer.Buffer
	// Filename, when set, makes the engine stream the file instead of the
	// body. The file is opened at transmission time, not at construction.
	Filename string
	// ExtraHeaders are rendered into the header block verbatim, after the
	// synthesized ones.
	ExtraHeaders []Pair
}

// New returns a response with a body pre-sized to bodyCapacity.
func New(code status.Code, statusText string, contentType mime.MIME, bodyCapacity int) *Response {
	r := &Response{
		Code:        code,
		Status:      statusText,
		ContentType: contentType,
	}
	if bodyCapacity > 0 {
		r.Body.Reserve(bodyCapacity)
	}

	return r
}

// Header appends an extra header to be rendered into the response.
func (r *Response) Header(key, value string) *Response {
	r.ExtraHeaders = append(r.ExtraHeaders, Pair{Key: key, Value: value})
	return r
}

// StatusText resolves the effective status text.
func (r *Response) StatusText() string {
	if len(r.Status) > 0 {
		return r.Status
	}

	return status.Text(r.Code)
}

// Write implements io.Writer by appending to the body. It never fails.
func (r *Response) Write(p []byte) (n int, err error) {
	r.Body.Append(p)
	return len(p), nil
}

func HTML(html string) *Response {
	return HTMLWithStatus(status.OK, "", html)
}

func HTMLWithStatus(code status.Code, statusText, html string) *Response {
	r := New(code, statusText, mime.HTML, 0)
	r.Body.SetTo(html)
	return r
}

func JSONString(body string) *Response {
	r := New(status.OK, "", mime.JSON, 0)
	r.Body.SetTo(body)
	return r
}

// JSON marshals the model into the response body. A model that cannot be
// marshalled yields a 500 instead.
func JSON(model any) *Response {
	r := New(status.OK, "", mime.JSON, 0)
	stream := json.ConfigDefault.BorrowStream(r)
	stream.WriteVal(model)
	err := stream.Flush()
	json.ConfigDefault.ReturnStream(stream)
	if err != nil {
		return InternalError(err.Error())
	}

	return r
}

// Format builds a response with a printf-formatted body.
func Format(code status.Code, statusText string, contentType mime.MIME, format string, args ...any) *Response {
	r := New(code, statusText, contentType, 0)
	r.Body.Appendf(format, args...)
	return r
}

// File returns a response streaming the named file. The content type is
// sniffed from the file at transmission time.
func File(filename string) *Response {
	return FileWithType(filename, "")
}

func FileWithType(filename string, contentType mime.MIME) *Response {
	r := New(status.OK, "", contentType, 0)
	r.Filename = filename
	return r
}

func BadRequest(errorMessage string) *Response {
	if len(errorMessage) == 0 {
		errorMessage = "An unspecified error occurred"
	}

	return Format(status.BadRequest, "", mime.HTML,
		"<html><head><title>400 - Bad Request</title></head><body>The request made was invalid. %s</body></html>",
		errorMessage,
	)
}

func NotFound(resourcePath string) *Response {
	if len(resourcePath) == 0 {
		return HTMLWithStatus(status.NotFound, "",
			"<html><head><title>404 Not Found</title></head><body>The resource you specified could not be found</body></html>",
		)
	}

	return Format(status.NotFound, "", mime.HTML,
		"<html><head><title>404 Not Found</title></head><body>The resource you specified ('%s') could not be found</body></html>",
		resourcePath,
	)
}

func InternalError(extraInformation string) *Response {
	if len(extraInformation) == 0 {
		return HTMLWithStatus(status.InternalServerError, "",
			"<html><head><title>500 Internal Error</title></head><body>There was an internal error while completing your request</body></html>",
		)
	}

	return Format(status.InternalServerError, "", mime.HTML,
		"<html><head><title>500 Internal Error</title></head><body>There was an internal error while completing your request. %s</body></html>",
		extraInformation,
	)
}

func Forbidden() *Response {
	return HTMLWithStatus(status.Forbidden, "",
		"<html><head><title>403 - Forbidden</title></head><body>You are not allowed to access this URL</body></html>",
	)
}
