package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hostlink/hostlink/internal/metrics"
	"github.com/hostlink/hostlink/internal/model"
	"github.com/hostlink/hostlink/internal/service"
)

type fakeValidator struct {
	configs map[string]*model.DomainConfiguration
	err     error
}

func (f *fakeValidator) ValidateDomain(ctx context.Context, domain string) (*model.DomainConfiguration, error) {
	if f.err != nil {
		return nil, f.err
	}
	cfg, ok := f.configs[domain]
	if !ok {
		return nil, service.ErrDomainNotFound
	}
	return cfg, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCaddyValidateDomain(t *testing.T) {
	t.Parallel()

	validator := &fakeValidator{configs: map[string]*model.DomainConfiguration{
		"forms.example.com": {Domain: "forms.example.com", AccountID: 42},
	}}

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantAllow  bool
	}{
		{"registered domain", "?domain=forms.example.com", http.StatusOK, true},
		{"unknown domain", "?domain=evil.example.com", http.StatusForbidden, false},
		{"missing domain param", "", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewCaddyHandler(validator, discardLogger(), metrics.NewNoop())

			req := httptest.NewRequest(http.MethodGet, "/caddy/validate-domain"+tt.query, nil)
			rec := httptest.NewRecorder()
			h.ValidateDomain(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			if tt.wantStatus == http.StatusBadRequest {
				return
			}

			var resp struct {
				Allow     bool   `json:"allow"`
				Domain    string `json:"domain"`
				AccountID int64  `json:"account_id"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Allow != tt.wantAllow {
				t.Errorf("allow = %v, want %v", resp.Allow, tt.wantAllow)
			}
			if tt.wantAllow && resp.AccountID != 42 {
				t.Errorf("account_id = %d, want 42", resp.AccountID)
			}
		})
	}
}

func TestCaddyValidateDomainDeniesOnError(t *testing.T) {
	t.Parallel()

	recorder := metrics.NewInMemory()
	h := NewCaddyHandler(&fakeValidator{err: errors.New("db down")}, discardLogger(), recorder)

	req := httptest.NewRequest(http.MethodGet, "/caddy/validate-domain?domain=forms.example.com", nil)
	rec := httptest.NewRecorder()
	h.ValidateDomain(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 when validation errors", rec.Code)
	}

	snap := recorder.Snapshot()
	if snap.DomainValidationsDeny != 1 {
		t.Errorf("deny counter = %d, want 1", snap.DomainValidationsDeny)
	}
}
