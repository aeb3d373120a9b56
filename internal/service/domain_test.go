package service

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"simple", "example.com", "example.com", nil},
		{"uppercase", "Forms.Example.COM", "forms.example.com", nil},
		{"surrounding whitespace", "  example.com  ", "example.com", nil},
		{"strips port", "example.com:8080", "example.com", nil},
		{"trailing dot", "example.com.", "example.com", nil},
		{"empty", "", "", ErrInvalidDomain},
		{"only whitespace", "   ", "", ErrInvalidDomain},
		{"contains path", "example.com/path", "", ErrInvalidDomain},
		{"contains space", "exa mple.com", "", ErrInvalidDomain},
		{"too long", strings.Repeat("a", 254), "", ErrInvalidDomain},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := normalizeDomain(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("normalizeDomain(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("normalizeDomain(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
