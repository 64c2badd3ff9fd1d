package ports

import (
	"context"

	"github.com/gharunnepal/marketplace/internal/core/domain"
)

// SessionFlags is the browser-session scoped flag storage bound to one
// request. Implementations may fail when storage is unavailable; callers
// treat every error as "flag not set".
type SessionFlags interface {
	OpsPending() (bool, error)
	SetOpsPending() error
	ClearOpsPending() error
}

// ViewStateStore persists the shell state of a browser session.
type ViewStateStore interface {
	Load(ctx context.Context, sessionID string) (domain.ViewState, error)
	Save(ctx context.Context, sessionID string, state domain.ViewState) error
}
