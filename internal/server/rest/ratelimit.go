package rest

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/printshop/internal/server/ratelimit"
)

// clientIP is the peer address. X-Forwarded-For is honoured only when the
// server sits behind a trusted proxy.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
			if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
				return ip
			}
		}
	}
	return ratelimit.HostKey(r.RemoteAddr)
}

// limitByIP rejects requests over the per-IP budget with 429. A nil
// limiter lets everything through.
func limitByIP(m *ratelimit.Limiter, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m != nil && !m.Allow(clientIP(r, trustProxy)) {
				tooMany(w, m.RetryAfter())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
