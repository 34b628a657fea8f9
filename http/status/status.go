package status

type Code int

const (
	OK                  Code = 200
	NoContent           Code = 204
	MovedPermanently    Code = 301
	Found               Code = 302
	BadRequest          Code = 400
	Forbidden           Code = 403
	NotFound            Code = 404
	MethodNotAllowed    Code = 405
	RequestTimeout      Code = 408
	PayloadTooLarge     Code = 413
	URITooLong          Code = 414
	InternalServerError Code = 500
	NotImplemented      Code = 501
	ServiceUnavailable  Code = 503
)

// Text returns the default status text for the code, or "Unknown Status Code"
// if there is none.
func Text(code Code) string {
	switch code {
	case OK:
		return "OK"
	case NoContent:
		return "No Content"
	case MovedPermanently:
		return "Moved Permanently"
	case Found:
		return "Found"
	case BadRequest:
		return "Bad Request"
	case Forbidden:
		return "Forbidden"
	case NotFound:
		return "Not Found"
	case MethodNotAllowed:
		return "Method Not Allowed"
	case RequestTimeout:
		return "Request Timeout"
	case PayloadTooLarge:
		return "Payload Too Large"
	case URITooLong:
		return "URI Too Long"
	case InternalServerError:
		return "Internal Server Error"
	case NotImplemented:
		return "Not Implemented"
	case ServiceUnavailable:
		return "Service Unavailable"
	default:
		return "Unknown Status Code"
	}
}
