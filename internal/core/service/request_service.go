package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gharunnepal/marketplace/internal/api/metrics"
	"github.com/gharunnepal/marketplace/internal/core/domain"
	"github.com/gharunnepal/marketplace/internal/core/ports"
)

const (
	listLimit = 100
	// assignLevel is the access level needed to assign providers.
	assignLevel = 3
	// trackingCodeAttempts bounds retries after a tracking code collision.
	trackingCodeAttempts = 5
)

type RequestService struct {
	repo     ports.RequestRepository
	users    ports.UserRepository
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewRequestService(repo ports.RequestRepository, users ports.UserRepository, notifier ports.Notifier, logger zerolog.Logger) *RequestService {
	return &RequestService{repo: repo, users: users, notifier: notifier, logger: logger}
}

// Submit creates a new service request. If an idempotency key is provided and
// already seen, the previously created request is returned without side effects.
func (s *RequestService) Submit(ctx context.Context, in ports.SubmitRequestInput) (*ports.SubmitResult, error) {
	if in.Client == nil || in.Client.Role != domain.RoleClient {
		return nil, domain.ErrForbidden
	}

	if in.IdempotencyKey != "" {
		if res, ok := s.replay(ctx, in.Client.ID, in.IdempotencyKey); ok {
			return res, nil
		}
	}

	now := time.Now().UTC()
	req := &domain.ServiceRequest{
		ClientID:       in.Client.ID,
		Category:       in.Category,
		Description:    in.Description,
		Location:       in.Location,
		Contact:        in.Contact,
		Language:       in.Language,
		PreferredDate:  in.PreferredDate.UTC(),
		Status:         domain.StatusSubmitted,
		CreatedAt:      now,
		IdempotencyKey: in.IdempotencyKey,
		StatusHistory: []domain.StatusHistoryEntry{
			{Status: domain.StatusSubmitted, Timestamp: now, Actor: in.Client.ID},
		},
	}

	var err error
	for attempt := 0; attempt < trackingCodeAttempts; attempt++ {
		req.TrackingCode = generateTrackingCode()
		if err = s.repo.Create(ctx, req); !errors.Is(err, domain.ErrDuplicateTrackingCode) {
			break
		}
		s.logger.Warn().Str("tracking_code", req.TrackingCode).Int("attempt", attempt+1).Msg("tracking code collision")
	}
	switch {
	case errors.Is(err, domain.ErrDuplicateIdempotencyKey):
		// A concurrent submit with the same key won the insert.
		if res, ok := s.replay(ctx, in.Client.ID, in.IdempotencyKey); ok {
			return res, nil
		}
		return nil, err
	case err != nil:
		s.logger.Error().Err(err).Msg("failed to create service request")
		return nil, err
	}

	metrics.RequestsSubmittedTotal.WithLabelValues(req.Category).Inc()
	s.logger.Info().Str("tracking_code", req.TrackingCode).Str("client_id", in.Client.ID).Msg("service request submitted")
	s.notify(req, domain.StatusSubmitted)

	return &ports.SubmitResult{
		TrackingCode: req.TrackingCode,
		Status:       string(req.Status),
		CreatedAt:    req.CreatedAt,
	}, nil
}

// replay returns the request clientID already created with key, if any.
func (s *RequestService) replay(ctx context.Context, clientID, key string) (*ports.SubmitResult, bool) {
	existing, err := s.repo.FindByIdempotencyKey(ctx, clientID, key)
	if err != nil || existing == nil {
		return nil, false
	}
	s.logger.Info().Str("idempotency_key", key).Str("tracking_code", existing.TrackingCode).Msg("idempotent replay")
	return &ports.SubmitResult{
		TrackingCode:   existing.TrackingCode,
		Status:         string(existing.Status),
		CreatedAt:      existing.CreatedAt,
		AlreadyExisted: true,
	}, true
}

// Track returns the public view of a request.
func (s *RequestService) Track(ctx context.Context, code string) (*ports.TrackResult, error) {
	req, err := s.repo.FindByTrackingCode(ctx, code)
	if err != nil {
		return nil, err
	}
	history := make([]domain.StatusHistoryEntry, len(req.StatusHistory))
	for i, h := range req.StatusHistory {
		history[i] = domain.StatusHistoryEntry{Status: h.Status, Timestamp: h.Timestamp}
	}
	return &ports.TrackResult{
		TrackingCode:  req.TrackingCode,
		Category:      req.Category,
		Status:        string(req.Status),
		District:      req.Location.District,
		CreatedAt:     req.CreatedAt,
		StatusHistory: history,
	}, nil
}

// ListForIdentity returns the requests a dashboard shows: a client's own
// requests or a provider's assignments. Read failures yield an empty list.
func (s *RequestService) ListForIdentity(ctx context.Context, id *domain.Identity) ([]*domain.ServiceRequest, error) {
	if id == nil {
		return nil, domain.ErrUnauthenticated
	}

	filter := ports.ListRequestsFilter{Limit: listLimit}
	switch {
	case id.Role == domain.RoleClient:
		filter.ClientID = id.ID
	case id.Role == domain.RoleProvider:
		filter.ProviderID = id.ID
	case id.Role.IsInternal():
	default:
		return nil, domain.ErrForbidden
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", id.ID).Msg("list service requests failed")
		return []*domain.ServiceRequest{}, nil
	}
	return items, nil
}

// UpdateStatus moves a request along its lifecycle. Staff with operational
// access may apply any valid transition; the assigned provider may only
// start and complete the job.
func (s *RequestService) UpdateStatus(ctx context.Context, in ports.StatusChangeInput) error {
	if in.Actor == nil {
		return domain.ErrUnauthenticated
	}
	next := domain.RequestStatus(in.Status)

	req, err := s.repo.FindByTrackingCode(ctx, in.TrackingCode)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	switch {
	case in.Actor.Role.HasOperationalAccess():
	case in.Actor.Role == domain.RoleProvider && req.ProviderID == in.Actor.ID &&
		(next == domain.StatusInProgress || next == domain.StatusCompleted):
	default:
		return domain.ErrForbidden
	}

	if next == domain.StatusAssigned {
		return fmt.Errorf("update status: %w (use assign)", domain.ErrInvalidTransition)
	}
	if !req.Status.CanTransitionTo(next) {
		return fmt.Errorf("update status: %w (from %s to %s)", domain.ErrInvalidTransition, req.Status, next)
	}

	entry := domain.StatusHistoryEntry{
		Status:    next,
		Timestamp: time.Now().UTC(),
		Actor:     in.Actor.ID,
		Notes:     in.Notes,
	}
	if err := s.repo.UpdateStatus(ctx, req.TrackingCode, req.Status, entry); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	s.logger.Info().Str("tracking_code", req.TrackingCode).Str("status", string(next)).Str("actor", in.Actor.ID).Msg("status updated")
	s.notify(req, next)
	return nil
}

// Assign hands a confirmed request to a provider.
func (s *RequestService) Assign(ctx context.Context, in ports.AssignInput) error {
	if in.Actor == nil || in.Actor.Role.AccessLevel() < assignLevel {
		return domain.ErrForbidden
	}

	req, err := s.repo.FindByTrackingCode(ctx, in.TrackingCode)
	if err != nil {
		return fmt.Errorf("assign: %w", err)
	}
	if !req.Status.CanTransitionTo(domain.StatusAssigned) {
		return fmt.Errorf("assign: %w (from %s)", domain.ErrInvalidTransition, req.Status)
	}

	provider, err := s.users.FindByID(ctx, in.ProviderID)
	if err != nil {
		return fmt.Errorf("assign: %w", err)
	}
	if provider.Role != domain.RoleProvider {
		return fmt.Errorf("assign: %w", domain.ErrRoleNotAllowed)
	}

	entry := domain.StatusHistoryEntry{
		Status:    domain.StatusAssigned,
		Timestamp: time.Now().UTC(),
		Actor:     in.Actor.ID,
		Notes:     "assigned to " + provider.Name,
	}
	if err := s.repo.Assign(ctx, req.TrackingCode, provider.ID, req.Status, entry); err != nil {
		return fmt.Errorf("assign: %w", err)
	}

	s.logger.Info().Str("tracking_code", req.TrackingCode).Str("provider_id", provider.ID).Msg("provider assigned")
	s.notify(req, domain.StatusAssigned)
	return nil
}

// Dashboard counts requests per status. On read failure it returns empty counts.
func (s *RequestService) Dashboard(ctx context.Context) (*ports.DashboardSummary, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("dashboard counts failed")
		counts = map[domain.RequestStatus]int64{}
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	return &ports.DashboardSummary{Counts: counts, Total: total}, nil
}

func (s *RequestService) notify(req *domain.ServiceRequest, status domain.RequestStatus) {
	if s.notifier == nil || req.Contact.Email == "" {
		return
	}
	event, ok := domain.EventForStatus(status)
	if !ok {
		return
	}
	s.notifier.Enqueue(domain.Notification{
		Event:     event,
		To:        req.Contact.Email,
		Name:      req.Contact.Name,
		Language:  req.Language,
		Reference: req.TrackingCode,
		Data: map[string]string{
			"category": req.Category,
			"status":   string(status),
		},
	})
}

// generateTrackingCode returns a unique tracking code in the format GN-XXXXXXXX.
func generateTrackingCode() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("GN-%08X", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("GN-%08X", b)
}
