package domain

import (
	"errors"
	"time"
)

// Current legal document versions. Bumping either one re-prompts every user.
const (
	TermsVersion   = "2025-01"
	PrivacyVersion = "2025-01"
)

var ErrConsentRequired = errors.New("you must agree to the terms and privacy policy")

// GateState is the state of the terms-acceptance gate.
type GateState string

const (
	GateChecking GateState = "checking"
	GateAccepted GateState = "accepted"
	GatePending  GateState = "pending"
)

// GateStatus is the outcome of a gate check.
type GateStatus struct {
	State          GateState `json:"state"`
	TermsVersion   string    `json:"terms_version"`
	PrivacyVersion string    `json:"privacy_version"`
}

// Allows reports whether the wrapped content may be rendered.
func (s GateStatus) Allows() bool { return s.State == GateAccepted }

// TermsAcceptance records one user's consent to a pair of document versions.
type TermsAcceptance struct {
	UserID         string    `json:"user_id" bson:"user_id"`
	Role           string    `json:"role" bson:"role"`
	TermsVersion   string    `json:"terms_version" bson:"terms_version"`
	PrivacyVersion string    `json:"privacy_version" bson:"privacy_version"`
	AcceptedAt     time.Time `json:"accepted_at" bson:"accepted_at"`
	IPAddress      string    `json:"ip_address,omitempty" bson:"ip_address,omitempty"`
	UserAgent      string    `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
}
