package ports

import (
	"context"
	"time"

	"github.com/gharunnepal/marketplace/internal/core/domain"
)

// SubmitRequestInput carries all data needed to submit a service request.
type SubmitRequestInput struct {
	Client         *domain.Identity
	Category       string
	Description    string
	Location       domain.Location
	Contact        domain.Contact
	PreferredDate  time.Time
	Language       string
	IdempotencyKey string
}

// SubmitResult is returned after submitting a request.
type SubmitResult struct {
	TrackingCode string
	Status       string
	CreatedAt    time.Time
	// AlreadyExisted is true when the Idempotency-Key matched an existing request.
	AlreadyExisted bool
}

// TrackResult is the public view of a request; it omits contact details.
type TrackResult struct {
	TrackingCode  string
	Category      string
	Status        string
	District      string
	CreatedAt     time.Time
	StatusHistory []domain.StatusHistoryEntry
}

// StatusChangeInput carries a status transition requested by an actor.
type StatusChangeInput struct {
	Actor        *domain.Identity
	TrackingCode string
	Status       string
	Notes        string
}

// AssignInput carries a provider assignment.
type AssignInput struct {
	Actor        *domain.Identity
	TrackingCode string
	ProviderID   string
}

// DashboardSummary is the admin overview.
type DashboardSummary struct {
	Counts map[domain.RequestStatus]int64
	Total  int64
}

// RequestService defines use-case operations for service requests.
type RequestService interface {
	Submit(ctx context.Context, in SubmitRequestInput) (*SubmitResult, error)
	Track(ctx context.Context, code string) (*TrackResult, error)
	ListForIdentity(ctx context.Context, id *domain.Identity) ([]*domain.ServiceRequest, error)
	UpdateStatus(ctx context.Context, in StatusChangeInput) error
	Assign(ctx context.Context, in AssignInput) error
	Dashboard(ctx context.Context) (*DashboardSummary, error)
}
