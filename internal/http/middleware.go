package http

import (
	"net/http"
	"strings"
)

const (
	cspAPI     = "default-src 'none'; frame-ancestors 'none'"
	cspSwagger = "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:"
)

// SecurityHeaders adds security-related headers to all responses.
// Responses under /auth/ carry bearer tokens and are never cached.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		switch {
		case strings.HasPrefix(r.URL.Path, "/swagger/"):
			h.Set("Content-Security-Policy", cspSwagger)
		case strings.HasPrefix(r.URL.Path, "/auth/"):
			h.Set("Content-Security-Policy", cspAPI)
			h.Set("Cache-Control", "no-store")
			h.Set("Pragma", "no-cache")
		default:
			h.Set("Content-Security-Policy", cspAPI)
		}

		next.ServeHTTP(w, r)
	})
}
