package ports

import (
	"context"

	"github.com/gharunnepal/marketplace/internal/core/domain"
)

// RegisterInput carries a public sign-up.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
	Language string
}

// BootstrapInput carries the first system account created through the setup link.
type BootstrapInput struct {
	SetupKey string
	Name     string
	Email    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// LoginInternal only succeeds for internal roles. Every failure is
	// reported the same way regardless of cause.
	LoginInternal(ctx context.Context, email, password string) (string, *domain.User, error)
	Bootstrap(ctx context.Context, in BootstrapInput) (*domain.User, error)
}
