// Package gate redirects page requests based on the presence of auth cookies.
//
// The gate only checks that a cookie exists. Token validity is decided by the
// backend when the page's data is fetched.
package gate

import (
	"net/http"
	"net/url"
	"strings"

	"mytasks/internal/session"
)

const (
	protectedPrefix = "/tasks"
	loginPath       = "/login"
	registerPath    = "/register"
	homePath        = "/tasks"
)

// skipPrefixes are path prefixes (without the leading slash) the gate never
// touches: API routes, static assets and the favicon.
var skipPrefixes = []string{"api", "static", "public", "favicon.ico"}

// Middleware applies the route gate to page requests.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if Skipped(path) {
			next.ServeHTTP(w, r)
			return
		}

		switch {
		case strings.HasPrefix(path, protectedPrefix) && !session.HasAnyToken(r):
			http.Redirect(w, r, LoginURL(path), http.StatusTemporaryRedirect)
			return
		case (strings.HasPrefix(path, loginPath) || strings.HasPrefix(path, registerPath)) && session.HasAnyToken(r):
			http.Redirect(w, r, homePath, http.StatusTemporaryRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Skipped reports whether the gate ignores path.
func Skipped(path string) bool {
	rest := strings.TrimPrefix(path, "/")
	for _, p := range skipPrefixes {
		if strings.HasPrefix(rest, p) {
			return true
		}
	}
	// Anything that looks like a file.
	return strings.Contains(rest, ".")
}

// LoginURL returns the login page URL remembering the page the user wanted.
func LoginURL(from string) string {
	q := strings.ReplaceAll(url.QueryEscape(from), "%2F", "/")
	return loginPath + "?from=" + q
}
