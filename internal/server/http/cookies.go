package httpserver

import (
	"net/http"
	"strings"
	"time"
)

// TokenCookie is the cookie carrying the session token.
const TokenCookie = "jwt"

// CookiePolicy controls attributes of the session cookie.
type CookiePolicy struct {
	// AlwaysSecure forces the Secure flag; otherwise it follows the request scheme.
	AlwaysSecure bool
	SameSite     http.SameSite
}

func (p CookiePolicy) secure(r *http.Request) bool {
	return p.AlwaysSecure || isSecureRequest(r)
}

func (p CookiePolicy) sameSite() http.SameSite {
	if p.SameSite == 0 {
		return http.SameSiteLaxMode
	}
	return p.SameSite
}

func setTokenCookie(w http.ResponseWriter, r *http.Request, token string, expires time.Time, p CookiePolicy) {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   p.secure(r),
		SameSite: p.sameSite(),
	})
}

func clearTokenCookie(w http.ResponseWriter, r *http.Request, p CookiePolicy) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.secure(r),
		SameSite: p.sameSite(),
	})
}

// tokenFromRequest reads the jwt cookie, falling back to "Authorization: Bearer <token>".
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) >= 7 && strings.EqualFold(v[:7], "bearer ") {
		return strings.TrimSpace(v[7:])
	}
	return ""
}

func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, p := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(p), "https") {
			return true
		}
	}
	return false
}
