package domain

import (
	"errors"
	"time"
)

// RequestStatus represents the lifecycle state of a service request.
type RequestStatus string

const (
	StatusSubmitted  RequestStatus = "submitted"
	StatusConfirmed  RequestStatus = "confirmed"
	StatusAssigned   RequestStatus = "assigned"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
	StatusCancelled  RequestStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[RequestStatus][]RequestStatus{
	StatusSubmitted:  {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusAssigned, StatusCancelled},
	StatusAssigned:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrRequestNotFound   = errors.New("service request not found")
	ErrForbidden         = errors.New("access forbidden")

	// Returned by repositories when a unique index rejects an insert.
	ErrDuplicateTrackingCode   = errors.New("tracking code already in use")
	ErrDuplicateIdempotencyKey = errors.New("idempotency key already used by this client")
)

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Location is where the service is needed.
type Location struct {
	District     string `json:"district" bson:"district"`
	Municipality string `json:"municipality" bson:"municipality"`
	Ward         int    `json:"ward,omitempty" bson:"ward,omitempty"`
	Landmark     string `json:"landmark,omitempty" bson:"landmark,omitempty"`
}

// Contact is the person the provider should reach on site.
type Contact struct {
	Name  string `json:"name" bson:"name"`
	Phone string `json:"phone" bson:"phone"`
	Email string `json:"email,omitempty" bson:"email,omitempty"`
}

// StatusHistoryEntry records a single status transition on a request.
type StatusHistoryEntry struct {
	Status    RequestStatus `json:"status" bson:"status"`
	Timestamp time.Time     `json:"timestamp" bson:"timestamp"`
	Actor     string        `json:"actor,omitempty" bson:"actor,omitempty"`
	Notes     string        `json:"notes,omitempty" bson:"notes,omitempty"`
}

// ServiceRequest is the core aggregate root.
type ServiceRequest struct {
	ID             string               `json:"id" bson:"_id,omitempty"`
	TrackingCode   string               `json:"tracking_code" bson:"tracking_code"`
	ClientID       string               `json:"client_id" bson:"client_id"`
	ProviderID     string               `json:"provider_id,omitempty" bson:"provider_id,omitempty"`
	Category       string               `json:"category" bson:"category"`
	Description    string               `json:"description" bson:"description"`
	Location       Location             `json:"location" bson:"location"`
	Contact        Contact              `json:"contact" bson:"contact"`
	Language       string               `json:"language,omitempty" bson:"language,omitempty"`
	PreferredDate  time.Time            `json:"preferred_date" bson:"preferred_date"`
	Status         RequestStatus        `json:"status" bson:"status"`
	CreatedAt      time.Time            `json:"created_at" bson:"created_at"`
	IdempotencyKey string               `json:"idempotency_key,omitempty" bson:"idempotency_key,omitempty"`
	StatusHistory  []StatusHistoryEntry `json:"status_history" bson:"status_history"`
}
