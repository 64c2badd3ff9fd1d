package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gharunnepal/marketplace/internal/api/metrics"
	"github.com/gharunnepal/marketplace/internal/core/domain"
	"github.com/gharunnepal/marketplace/internal/core/ports"
)

// AcceptTermsInput carries a confirmation from the terms modal.
type AcceptTermsInput struct {
	Identity  *domain.Identity
	Consent   bool
	IPAddress string
	UserAgent string
}

// TermsGate blocks authenticated screens until the current terms and
// privacy versions are accepted.
type TermsGate struct {
	repo           ports.TermsRepository
	termsVersion   string
	privacyVersion string
	now            func() time.Time
	log            zerolog.Logger
}

func NewTermsGate(repo ports.TermsRepository, log zerolog.Logger) *TermsGate {
	return &TermsGate{
		repo:           repo,
		termsVersion:   domain.TermsVersion,
		privacyVersion: domain.PrivacyVersion,
		now:            func() time.Time { return time.Now().UTC() },
		log:            log,
	}
}

// Check resolves the gate for id. Any failure leaves the gate pending.
func (g *TermsGate) Check(ctx context.Context, id *domain.Identity) domain.GateStatus {
	if id == nil || id.ID == "" {
		return g.status(domain.GatePending)
	}

	ok, err := g.repo.HasAccepted(ctx, id.ID, g.termsVersion, g.privacyVersion)
	if err != nil {
		metrics.TermsGateTotal.WithLabelValues("error").Inc()
		g.log.Warn().Err(err).Str("user_id", id.ID).Msg("terms status query failed")
		return g.status(domain.GatePending)
	}
	if !ok {
		metrics.TermsGateTotal.WithLabelValues("pending").Inc()
		return g.status(domain.GatePending)
	}
	metrics.TermsGateTotal.WithLabelValues("accepted").Inc()
	return g.status(domain.GateAccepted)
}

// Accept records consent. Without the consent box checked nothing is
// written and ErrConsentRequired is returned.
func (g *TermsGate) Accept(ctx context.Context, in AcceptTermsInput) (domain.GateStatus, error) {
	if in.Identity == nil || in.Identity.ID == "" {
		return g.status(domain.GatePending), domain.ErrUnauthenticated
	}
	if !in.Consent {
		metrics.TermsGateTotal.WithLabelValues("consent_missing").Inc()
		return g.status(domain.GatePending), domain.ErrConsentRequired
	}

	acceptance := &domain.TermsAcceptance{
		UserID:         in.Identity.ID,
		Role:           in.Identity.Role.String(),
		TermsVersion:   g.termsVersion,
		PrivacyVersion: g.privacyVersion,
		AcceptedAt:     g.now(),
		IPAddress:      in.IPAddress,
		UserAgent:      in.UserAgent,
	}
	if err := g.repo.Record(ctx, acceptance); err != nil {
		g.log.Error().Err(err).Str("user_id", in.Identity.ID).Msg("failed to record terms acceptance")
		return g.status(domain.GatePending), fmt.Errorf("record terms acceptance: %w", err)
	}

	metrics.TermsGateTotal.WithLabelValues("recorded").Inc()
	g.log.Info().Str("user_id", in.Identity.ID).Str("terms_version", g.termsVersion).Msg("terms accepted")
	return g.status(domain.GateAccepted), nil
}

func (g *TermsGate) status(s domain.GateState) domain.GateStatus {
	return domain.GateStatus{State: s, TermsVersion: g.termsVersion, PrivacyVersion: g.privacyVersion}
}
