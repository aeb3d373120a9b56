package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
)

// domainKey is the context key for the request's serving domain.
const domainKey contextKey = "request_domain"

// DomainContext extracts the serving domain from the request host and stores
// it in the request context. The port is stripped and the host lowercased so
// lookups match the registry.
func DomainContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := r.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		host = strings.ToLower(strings.TrimSuffix(host, "."))

		ctx := context.WithValue(r.Context(), domainKey, host)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetDomain retrieves the serving domain from context.
func GetDomain(ctx context.Context) string {
	if d, ok := ctx.Value(domainKey).(string); ok {
		return d
	}
	return ""
}
