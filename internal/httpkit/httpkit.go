// Package httpkit provides request helpers for web handlers: JSON response
// envelopes, AJAX detection, origin trust checks, client IP extraction, and
// one-time-use nonces backed by a session store.
package httpkit

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// envelope is the uniform JSON response shape.
type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// WriteSuccess writes a {"success": true, "data": ...} JSON response.
func WriteSuccess(w http.ResponseWriter, data any) error {
	return writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// WriteError writes a {"success": false, "data": ...} JSON response with the
// given HTTP status.
func WriteError(w http.ResponseWriter, status int, data any) error {
	return writeJSON(w, status, envelope{Success: false, Data: data})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// IsAJAX reports whether the request looks like a background script request:
// the X-Requested-With header, a JSON content type, or a JSON-only Accept
// header all qualify.
func IsAJAX(r *http.Request) bool {
	if strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	if ct := r.Header.Get("Content-Type"); strings.HasPrefix(strings.ToLower(ct), "application/json") {
		return true
	}
	accept := strings.ToLower(r.Header.Get("Accept"))
	return strings.HasPrefix(accept, "application/json") && !strings.Contains(accept, "text/html")
}

// IsTrustedOrigin reports whether the request's Origin (falling back to
// Referer) matches one of the trusted host names. Scheme and port are
// ignored; the comparison is on the host only. A request with neither
// header is not trusted.
func IsTrustedOrigin(r *http.Request, trusted []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = r.Header.Get("Referer")
	}
	if origin == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, t := range trusted {
		if host == strings.ToLower(t) {
			return true
		}
	}
	return false
}

// AllowCORS sets CORS response headers for the request's Origin, but only
// when that origin is trusted. Returns whether the headers were set.
func AllowCORS(w http.ResponseWriter, r *http.Request, trusted []string) bool {
	if !IsTrustedOrigin(r, trusted) {
		return false
	}
	w.Header().Set("Access-Control-Allow-Origin", r.Header.Get("Origin"))
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Requested-With")
	w.Header().Set("Vary", "Origin")
	return true
}

// ClientIP extracts the originating client address, preferring
// X-Forwarded-For (first hop), then X-Real-IP, then RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		if net.ParseIP(rip) != nil {
			return rip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// NoCache marks a response as uncacheable.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
}

// SecurityHeaders sets the baseline hardening headers.
func SecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "SAMEORIGIN")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
}
