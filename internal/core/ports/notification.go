package ports

import (
	"context"

	"github.com/gharunnepal/marketplace/internal/core/domain"
)

// EmailSender hands one notification to the hosted email function.
type EmailSender interface {
	Send(ctx context.Context, n domain.Notification) error
}

// Notifier enqueues notifications for asynchronous delivery.
type Notifier interface {
	Enqueue(n domain.Notification)
}

// NotificationService delivers a single notification.
type NotificationService interface {
	Process(ctx context.Context, n domain.Notification) error
}
