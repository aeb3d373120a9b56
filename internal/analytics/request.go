package analytics

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

const maxMetaLength = 500

// EventFromRequest builds a click event from an incoming redirect request.
func EventFromRequest(r *http.Request, shortURLID string) ClickEvent {
	return ClickEvent{
		ShortURLID: shortURLID,
		IPAddress:  ClientIP(r),
		UserAgent:  TruncateUserAgent(r.UserAgent()),
		Referer:    SanitizeReferrer(r.Referer()),
		Country:    ExtractCountryCode(r.Header.Get("CF-IPCountry")),
	}
}

// ClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers for proxied requests.
func ClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		// Take the first IP (client IP)
		if first, _, ok := strings.Cut(xff, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Strip the port from RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// SanitizeReferrer cleans and truncates the referrer URL.
// Strips query parameters and fragments for privacy.
func SanitizeReferrer(ref string) string {
	if ref == "" {
		return ""
	}

	parsed, err := url.Parse(ref)
	if err != nil {
		return ""
	}

	parsed.RawQuery = ""
	parsed.Fragment = ""

	sanitized := parsed.String()
	if len(sanitized) > maxMetaLength {
		return sanitized[:maxMetaLength]
	}
	return sanitized
}

// TruncateUserAgent truncates a user agent to a storable length.
func TruncateUserAgent(ua string) string {
	if len(ua) > maxMetaLength {
		return ua[:maxMetaLength]
	}
	return ua
}

// ExtractCountryCode extracts the country code from a Cloudflare header.
// Returns empty string if the header is missing or invalid.
func ExtractCountryCode(cfIPCountry string) string {
	if len(cfIPCountry) == 2 && cfIPCountry != "XX" {
		return strings.ToUpper(cfIPCountry)
	}
	return ""
}
