// Package session relays backend tokens to the browser as httpOnly cookies.
package session

import (
	"net/http"

	"mytasks/internal/service"
)

// Cookie names.
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
)

// Cookie lifetimes in seconds.
const (
	AccessMaxAge  = 15 * 60
	RefreshMaxAge = 7 * 24 * 60 * 60
)

// Relay writes and clears the auth cookies.
type Relay struct {
	// Secure marks cookies HTTPS-only. Set in production.
	Secure bool
}

// NewRelay creates a Relay.
func NewRelay(secure bool) *Relay {
	return &Relay{Secure: secure}
}

func (r *Relay) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   r.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetAuthTokens stores both tokens as cookies.
func (r *Relay) SetAuthTokens(w http.ResponseWriter, t service.AuthTokens) {
	http.SetCookie(w, r.cookie(AccessCookie, t.AccessToken, AccessMaxAge))
	http.SetCookie(w, r.cookie(RefreshCookie, t.RefreshToken, RefreshMaxAge))
}

// ClearAuthCookies expires both cookies.
func (r *Relay) ClearAuthCookies(w http.ResponseWriter) {
	// MaxAge < 0 is sent as Max-Age=0.
	http.SetCookie(w, r.cookie(AccessCookie, "", -1))
	http.SetCookie(w, r.cookie(RefreshCookie, "", -1))
}

// AccessToken returns the access cookie value, or "" if absent.
func AccessToken(req *http.Request) string {
	return cookieValue(req, AccessCookie)
}

// RefreshToken returns the refresh cookie value, or "" if absent.
func RefreshToken(req *http.Request) string {
	return cookieValue(req, RefreshCookie)
}

// HasAnyToken reports whether either auth cookie is present.
func HasAnyToken(req *http.Request) bool {
	return AccessToken(req) != "" || RefreshToken(req) != ""
}

func cookieValue(req *http.Request, name string) string {
	c, err := req.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
