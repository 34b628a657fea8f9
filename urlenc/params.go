package urlenc

import (
	"github.com/emberhttp/ember/http"
)

// GETParam decodes a named parameter out of the request's query string.
func GETParam(r *http.Request, name, fallback string) string {
	return Param(name, Query(r.Path), fallback)
}

// POSTParam decodes a named parameter out of an urlencoded form body.
func POSTParam(r *http.Request, name, fallback string) string {
	return Param(name, r.Body.String(), fallback)
}
