package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDomainContext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		host string
		want string
	}{
		{"plain host", "forms.example.com", "forms.example.com"},
		{"host with port", "forms.example.com:8080", "forms.example.com"},
		{"uppercase host", "Forms.Example.COM", "forms.example.com"},
		{"trailing dot", "forms.example.com.", "forms.example.com"},
		{"localhost with port", "localhost:3000", "localhost"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got string
			handler := DomainContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = GetDomain(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/abc123", nil)
			req.Host = tt.host
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("GetDomain = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetDomainMissing(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetDomain(req.Context()); got != "" {
		t.Errorf("GetDomain without middleware = %q, want empty", got)
	}
}
