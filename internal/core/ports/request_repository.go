package ports

import (
	"context"

	"github.com/gharunnepal/marketplace/internal/core/domain"
)

// ListRequestsFilter selects service requests. Empty fields do not filter.
type ListRequestsFilter struct {
	ClientID   string
	ProviderID string
	Status     string
	Limit      int
}

// RequestRepository defines persistence operations for service requests.
type RequestRepository interface {
	// Create returns domain.ErrDuplicateTrackingCode or
	// domain.ErrDuplicateIdempotencyKey when a unique index rejects r.
	Create(ctx context.Context, r *domain.ServiceRequest) error
	FindByTrackingCode(ctx context.Context, code string) (*domain.ServiceRequest, error)
	// FindByIdempotencyKey looks the key up within one client's requests.
	FindByIdempotencyKey(ctx context.Context, clientID, key string) (*domain.ServiceRequest, error)
	List(ctx context.Context, filter ListRequestsFilter) ([]*domain.ServiceRequest, error)
	// UpdateStatus sets the new status and appends a history entry, but only
	// while the stored status is still from. Otherwise it returns
	// domain.ErrInvalidTransition, or domain.ErrRequestNotFound when the
	// request is gone.
	UpdateStatus(ctx context.Context, code string, from domain.RequestStatus, entry domain.StatusHistoryEntry) error
	// Assign sets the provider and moves the request to assigned in one
	// write, with the same status guard as UpdateStatus.
	Assign(ctx context.Context, code, providerID string, from domain.RequestStatus, entry domain.StatusHistoryEntry) error
	CountByStatus(ctx context.Context) (map[domain.RequestStatus]int64, error)
}

// AuditRepository appends to the audit log.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}
