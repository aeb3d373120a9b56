package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/hostlink/hostlink/internal/auth"
)

// InternalAPIKeyHeader carries the shared key for internal endpoints.
const InternalAPIKeyHeader = "X-Internal-API-Key"

// InternalAuthConfig holds configuration for internal endpoint auth.
type InternalAuthConfig struct {
	Logger *slog.Logger
	// Key is the plaintext shared key. Compared in constant time.
	Key string
	// KeyHash is an Argon2id hash in PHC format. Takes precedence over Key.
	KeyHash string
}

// InternalAuth returns middleware that guards internal endpoints with a
// shared API key. Requests are rejected with 401 when the header is missing
// and 403 when the key does not match. A server with no key configured
// refuses all internal requests rather than running open.
func InternalAuth(cfg InternalAuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Key == "" && cfg.KeyHash == "" {
				cfg.Logger.Error("internal API key not configured",
					slog.String("path", r.URL.Path),
				)
				writeInternalAuthError(w, http.StatusInternalServerError, "internal API not configured")
				return
			}

			presented := r.Header.Get(InternalAPIKeyHeader)
			if presented == "" {
				writeInternalAuthError(w, http.StatusUnauthorized, "missing internal API key")
				return
			}

			if !internalKeyMatches(cfg, presented) {
				cfg.Logger.Warn("internal API key rejected",
					slog.String("path", r.URL.Path),
					slog.String("ip", GetClientIP(r)),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeInternalAuthError(w, http.StatusForbidden, "invalid internal API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func internalKeyMatches(cfg InternalAuthConfig, presented string) bool {
	if cfg.KeyHash != "" {
		ok, err := auth.VerifyKey(presented, cfg.KeyHash)
		return err == nil && ok
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(cfg.Key)) == 1
}

func writeInternalAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"status":"error","message":"` + message + `"}`))
}
