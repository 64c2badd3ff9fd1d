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

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, n domain.Notification) (bool, error)
	Mark(ctx context.Context, n domain.Notification) error
}

type notificationService struct {
	sender ports.EmailSender
	audit  ports.AuditRepository
	dedup  DedupChecker
	log    zerolog.Logger
}

// NewNotificationService returns a NotificationService implementation.
func NewNotificationService(
	sender ports.EmailSender,
	audit ports.AuditRepository,
	dedup DedupChecker,
	log zerolog.Logger,
) ports.NotificationService {
	return &notificationService{
		sender: sender,
		audit:  audit,
		dedup:  dedup,
		log:    log,
	}
}

// Process deduplicates, sends and audits a single notification. There are
// no retries; a failed send is returned to the caller.
func (s *notificationService) Process(ctx context.Context, n domain.Notification) error {
	start := time.Now()
	defer func() {
		metrics.NotificationDuration.WithLabelValues(string(n.Event)).Observe(time.Since(start).Seconds())
	}()

	// Manual sends are always delivered.
	if n.Event != domain.EventManual {
		isDup, err := s.dedup.IsDuplicate(ctx, n)
		if err != nil {
			s.log.Warn().Err(err).Str("reference", n.Reference).Msg("dedup check failed, sending anyway")
		} else if isDup {
			metrics.NotificationErrorsTotal.WithLabelValues("duplicate").Inc()
			s.log.Debug().Str("reference", n.Reference).Str("event", string(n.Event)).Msg("duplicate notification skipped")
			return nil
		}
	}

	if err := s.sender.Send(ctx, n); err != nil {
		metrics.NotificationErrorsTotal.WithLabelValues("send_failed").Inc()
		return fmt.Errorf("send %s notification: %w", n.Event, err)
	}
	metrics.NotificationsSentTotal.WithLabelValues(string(n.Event)).Inc()

	if n.Event != domain.EventManual {
		if err := s.dedup.Mark(ctx, n); err != nil {
			s.log.Warn().Err(err).Str("reference", n.Reference).Msg("failed to set dedup key")
		}
	}

	// Audit trail is non-fatal.
	entry := &domain.AuditEntry{
		Action:    "notification." + string(n.Event),
		Reference: n.Reference,
		Details:   map[string]string{"to": n.To},
		At:        time.Now().UTC(),
	}
	if err := s.audit.Insert(ctx, entry); err != nil {
		s.log.Warn().Err(err).Str("reference", n.Reference).Msg("failed to insert audit entry")
	}

	s.log.Info().
		Str("event", string(n.Event)).
		Str("reference", n.Reference).
		Msg("notification sent")

	return nil
}
