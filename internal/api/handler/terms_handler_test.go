package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gharunnepal/marketplace/internal/api/middleware"
	"github.com/gharunnepal/marketplace/internal/core/domain"
	"github.com/gharunnepal/marketplace/internal/core/service"
)

type stubTerms struct {
	state    domain.GateState
	acceptFn func(ctx context.Context, in service.AcceptTermsInput) (domain.GateStatus, error)
}

func (s *stubTerms) Check(context.Context, *domain.Identity) domain.GateStatus {
	return domain.GateStatus{State: s.state, TermsVersion: domain.TermsVersion, PrivacyVersion: domain.PrivacyVersion}
}

func (s *stubTerms) Accept(ctx context.Context, in service.AcceptTermsInput) (domain.GateStatus, error) {
	return s.acceptFn(ctx, in)
}

func TestTermsHandler_Status(t *testing.T) {
	tests := []struct {
		state      domain.GateState
		wantPrompt bool
	}{
		{domain.GateAccepted, false},
		{domain.GatePending, true},
	}

	for _, tc := range tests {
		t.Run(string(tc.state), func(t *testing.T) {
			e := newEcho()
			handler := NewTermsHandler(&stubTerms{state: tc.state}, stubTranslator{})

			req := httptest.NewRequest(http.MethodGet, "/terms/status", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.Set(middleware.IdentityKey, clientIdentity)

			if err := handler.Status(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			_, hasPrompt := decode(t, rec)["prompt"]
			if hasPrompt != tc.wantPrompt {
				t.Errorf("prompt present = %v, want %v", hasPrompt, tc.wantPrompt)
			}
		})
	}
}

func TestTermsHandler_Accept(t *testing.T) {
	e := newEcho()
	var got service.AcceptTermsInput
	terms := &stubTerms{
		acceptFn: func(_ context.Context, in service.AcceptTermsInput) (domain.GateStatus, error) {
			got = in
			return domain.GateStatus{State: domain.GateAccepted}, nil
		},
	}
	handler := NewTermsHandler(terms, stubTranslator{})

	req, rec := jsonRequest(http.MethodPost, "/terms/accept", `{"consent":true}`)
	req.Header.Set("User-Agent", "test-agent")
	c := e.NewContext(req, rec)
	c.Set(middleware.IdentityKey, clientIdentity)

	if err := handler.Accept(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !got.Consent || got.UserAgent != "test-agent" || got.Identity != clientIdentity {
		t.Errorf("unexpected input: %+v", got)
	}
}

func TestTermsHandler_Accept_WithoutConsent(t *testing.T) {
	e := newEcho()
	terms := &stubTerms{
		acceptFn: func(context.Context, service.AcceptTermsInput) (domain.GateStatus, error) {
			return domain.GateStatus{State: domain.GatePending}, domain.ErrConsentRequired
		},
	}
	handler := NewTermsHandler(terms, stubTranslator{})

	req, rec := jsonRequest(http.MethodPost, "/terms/accept", `{"consent":false}`)
	c := e.NewContext(req, rec)
	c.Set(middleware.IdentityKey, clientIdentity)
	c.Set(middleware.LangKey, "ne")

	if err := handler.Accept(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if decode(t, rec)["prompt"] != "ne:terms.consent_required" {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestTermsHandler_Accept_WriteFailure(t *testing.T) {
	e := newEcho()
	boom := errors.New("write failed")
	terms := &stubTerms{
		acceptFn: func(context.Context, service.AcceptTermsInput) (domain.GateStatus, error) {
			return domain.GateStatus{State: domain.GatePending}, boom
		},
	}
	handler := NewTermsHandler(terms, stubTranslator{})

	req, rec := jsonRequest(http.MethodPost, "/terms/accept", `{"consent":true}`)
	c := e.NewContext(req, rec)
	c.Set(middleware.IdentityKey, clientIdentity)

	if err := handler.Accept(c); !errors.Is(err, boom) {
		t.Fatalf("expected write failure to propagate, got %v", err)
	}
}
