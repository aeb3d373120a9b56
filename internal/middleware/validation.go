// Package middleware provides HTTP middleware components.
package middleware

import (
	"errors"
	"regexp"
	"strings"
)

// Validation limits.
const (
	// MaxShortCodeLength is the maximum length for a short code.
	MaxShortCodeLength = 10

	// MaxOriginalURLLength is the maximum length for target URLs.
	MaxOriginalURLLength = 2048
)

// Validation errors.
var (
	ErrShortCodeTooLong   = errors.New("short code exceeds maximum length")
	ErrShortCodeInvalid   = errors.New("short code contains invalid characters")
	ErrShortCodeReserved  = errors.New("short code is reserved")
	ErrOriginalURLTooLong = errors.New("original URL exceeds maximum length")
	ErrOriginalURLUnsafe  = errors.New("original URL uses unsafe scheme")
)

// ReservedCodes contains short codes that cannot be used as custom codes.
// These collide with system routes served from the same host.
var ReservedCodes = map[string]bool{
	// System routes
	"api":     true,
	"caddy":   true,
	"admin":   true,
	"healthz": true,
	"readyz":  true,
	"metrics": true,
	"static":  true,
	"assets":  true,

	// Common abuse targets
	"login":    true,
	"logout":   true,
	"auth":     true,
	"password": true,
	"reset":    true,
	"verify":   true,

	// Common well-known paths
	"robots":     true,
	"sitemap":    true,
	"favicon":    true,
	"well-known": true,
}

// validShortCodePattern matches valid short code characters.
// Allowed: a-z, A-Z, 0-9, hyphen
var validShortCodePattern = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)

// ValidateShortCode validates a custom short code before allocation.
func ValidateShortCode(code string) error {
	if code == "" {
		return nil // Empty is valid (will be auto-generated)
	}

	if len(code) > MaxShortCodeLength {
		return ErrShortCodeTooLong
	}

	if !validShortCodePattern.MatchString(code) {
		return ErrShortCodeInvalid
	}

	// Check reserved codes (case-insensitive)
	if ReservedCodes[strings.ToLower(code)] {
		return ErrShortCodeReserved
	}

	return nil
}

// ValidateOriginalURL applies transport-level checks on a target URL.
// Semantic validation happens in the service layer.
func ValidateOriginalURL(url string) error {
	if len(url) > MaxOriginalURLLength {
		return ErrOriginalURLTooLong
	}

	// Block dangerous schemes (in case of URL encoding tricks)
	lowerURL := strings.ToLower(url)
	forbiddenSchemes := []string{"javascript:", "data:", "vbscript:", "file:"}
	for _, scheme := range forbiddenSchemes {
		if strings.Contains(lowerURL, scheme) {
			return ErrOriginalURLUnsafe
		}
	}

	return nil
}
