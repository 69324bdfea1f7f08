package rhttp

import (
	"net/http"
	"net/url"
	"strings"
)

// Mount mounts a standard library handler on a sub-path pattern. The mounted handler
// receives requests with the mount prefix stripped from the path. Sub-muxes implement
// http.Handler, so whole route trees can be mounted this way:
//
//	api := rhttp.NewServeMux()
//	api.HandleFunc("GET /items", listItems)
//
//	root := rhttp.NewServeMux()
//	root.Mount("/api/v1", api)
func (m *ServeMux) Mount(pattern string, handler http.Handler) {
	method, path := splitMethodPattern(pattern)

	stripped := stripPrefix(path, handler)

	exact, subtree := path, path+"/"
	if method != "" {
		exact, subtree = method+" "+exact, method+" "+subtree
	}

	m.handle(exact, stripped)
	m.handle(subtree, stripped)
}

// MountFunc mounts a standard library handler function on a sub-path pattern.
func (m *ServeMux) MountFunc(pattern string, handler http.HandlerFunc) {
	m.Mount(pattern, handler)
}

// stripPrefix removes the mount prefix from the request path before serving. Unlike
// http.StripPrefix it maps an emptied path back to "/" so mounted muxes keep matching.
func stripPrefix(prefix string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := strings.TrimPrefix(r.URL.Path, prefix)
		if p == "" {
			p = "/"
		}

		rp := ""
		if r.URL.RawPath != "" {
			rp = strings.TrimPrefix(r.URL.RawPath, prefix)
			if rp == "" {
				rp = "/"
			}
		}

		r2 := new(http.Request)
		*r2 = *r
		r2.URL = new(url.URL)
		*r2.URL = *r.URL
		r2.URL.Path = p
		r2.URL.RawPath = rp

		handler.ServeHTTP(w, r2)
	})
}
