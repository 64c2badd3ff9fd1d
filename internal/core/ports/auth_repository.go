package ports

import (
	"context"

	"github.com/gharunnepal/marketplace/internal/core/domain"
)

// UserRepository defines the interface for account persistence.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// CountInternal returns how many accounts hold an internal role.
	CountInternal(ctx context.Context) (int64, error)
}
