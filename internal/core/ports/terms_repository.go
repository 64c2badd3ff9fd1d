package ports

import (
	"context"

	"github.com/gharunnepal/marketplace/internal/core/domain"
)

// TermsRepository stores terms acceptances.
type TermsRepository interface {
	// HasAccepted reports whether userID accepted exactly this pair of versions.
	HasAccepted(ctx context.Context, userID, termsVersion, privacyVersion string) (bool, error)
	Record(ctx context.Context, acceptance *domain.TermsAcceptance) error
}
