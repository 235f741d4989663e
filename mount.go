package bdispatch

import (
	"net/http"
	"net/url"
	"strings"
)

// Mount runs a standard library [http.Handler] for every request whose path equals 'prefix' or lies below
// it. The mounted handler receives requests with the prefix stripped from the path, stages registered
// before it see the original path. The prefix must be static.
func (a *App) Mount(prefix string, handler http.Handler) *App {
	if strings.ContainsAny(prefix, ":*") {
		panic("bdispatch: mount prefix must be static, got: " + prefix)
	}

	prefix = strings.TrimSuffix(prefix, "/")
	pattern := prefix
	if pattern == "" {
		pattern = "/"
	}

	return a.UsePath(pattern, StdHandler(stripPrefix(prefix, handler)))
}

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
