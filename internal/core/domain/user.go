package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("too many failed attempts")
	ErrWeakPassword       = errors.New("password is too weak")
	ErrRoleNotAllowed     = errors.New("role not allowed")
	ErrSetupUnavailable   = errors.New("setup is not available")
	ErrUnauthenticated    = errors.New("authentication required")
)

// User is a stored account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Language     string    `json:"language,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity returns the authenticated view of u.
func (u *User) Identity() *Identity {
	return &Identity{ID: u.ID, Name: u.Name, Role: u.Role}
}

// Identity is the authenticated actor of a request.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// LoginAttemptError describes a rejected sign-in. Err is either
// ErrInvalidCredentials or ErrAccountLocked.
type LoginAttemptError struct {
	Err        error
	Remaining  int
	RetryAfter time.Duration
}

func (e *LoginAttemptError) Error() string {
	if errors.Is(e.Err, ErrAccountLocked) {
		return fmt.Sprintf("%v: retry in %s", e.Err, e.RetryAfter.Round(time.Second))
	}
	return e.Err.Error()
}

func (e *LoginAttemptError) Unwrap() error { return e.Err }
