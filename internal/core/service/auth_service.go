package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/gharunnepal/marketplace/internal/api/metrics"
	"github.com/gharunnepal/marketplace/internal/core/domain"
	"github.com/gharunnepal/marketplace/internal/core/ports"
)

// AuthConfig holds the token and setup settings of AuthService.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	SetupKey  string
}

// dummyHash is compared against when the email is unknown, so that sign-in
// takes the same bcrypt time whether or not the account exists.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("gharun-unknown-account"), bcrypt.DefaultCost)
	return h
})

// AuthService implements registration, sign-in and first-run setup.
type AuthService struct {
	repo      ports.UserRepository
	compare   func(hash, password []byte) error
	lockout   *Lockout
	jwtSecret string
	tokenTTL  time.Duration
	setupKey  string
	notifier  ports.Notifier
	log       zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, lockout *Lockout, cfg AuthConfig, log zerolog.Logger) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if lockout == nil {
		lockout = NewLockout(0, 0)
	}
	return &AuthService{
		repo:      repo,
		compare:   bcrypt.CompareHashAndPassword,
		lockout:   lockout,
		jwtSecret: cfg.JWTSecret,
		tokenTTL:  cfg.TokenTTL,
		setupKey:  cfg.SetupKey,
		log:       log,
	}
}

// WithNotifier makes Register send a welcome email.
func (s *AuthService) WithNotifier(n ports.Notifier) *AuthService {
	s.notifier = n
	return s
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.Name) == "" || email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	role := domain.ParseRole(in.Role)
	if !role.IsPublic() {
		return nil, domain.ErrRoleNotAllowed
	}
	if !domain.EvaluatePassword(in.Password).Acceptable() {
		return nil, domain.ErrWeakPassword
	}

	user, err := s.create(ctx, &domain.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Phone:    strings.TrimSpace(in.Phone),
		Role:     role,
		Language: in.Language,
	}, in.Password)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Enqueue(domain.Notification{
			Event:     domain.EventWelcome,
			To:        user.Email,
			Name:      user.Name,
			Language:  user.Language,
			Reference: user.ID,
		})
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.login(ctx, "public", email, password, nil)
}

func (s *AuthService) LoginInternal(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.login(ctx, "internal", email, password, func(u *domain.User) bool {
		return u.Role.IsInternal()
	})
}

// Bootstrap creates the first system account. It is only available with
// the setup key and while no internal account exists.
func (s *AuthService) Bootstrap(ctx context.Context, in ports.BootstrapInput) (*domain.User, error) {
	if s.setupKey == "" || in.SetupKey != s.setupKey {
		return nil, domain.ErrSetupUnavailable
	}
	n, err := s.repo.CountInternal(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, domain.ErrSetupUnavailable
	}

	email := normalizeEmail(in.Email)
	if strings.TrimSpace(in.Name) == "" || email == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !domain.EvaluatePassword(in.Password).Acceptable() {
		return nil, domain.ErrWeakPassword
	}

	user, err := s.create(ctx, &domain.User{
		Name:  strings.TrimSpace(in.Name),
		Email: email,
		Role:  domain.RoleSuperAdmin,
	}, in.Password)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID).Msg("system account bootstrapped")
	return user, nil
}

func (s *AuthService) create(ctx context.Context, user *domain.User, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user.PasswordHash = string(hash)
	user.CreatedAt = now
	user.UpdatedAt = now

	return s.repo.Create(ctx, user)
}

func (s *AuthService) login(ctx context.Context, surface, email, password string, allowed func(*domain.User) bool) (string, *domain.User, error) {
	key := normalizeEmail(email)
	if key == "" || password == "" {
		return "", nil, &domain.LoginAttemptError{Err: domain.ErrInvalidCredentials}
	}

	if retry, locked := s.lockout.Check(key); locked {
		metrics.LoginAttemptsTotal.WithLabelValues(surface, "locked").Inc()
		return "", nil, &domain.LoginAttemptError{Err: domain.ErrAccountLocked, RetryAfter: retry}
	}

	user, err := s.repo.FindByEmail(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, err
	}
	hash := dummyHash()
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	matched := s.compare(hash, []byte(password)) == nil
	if user == nil || !matched || (allowed != nil && !allowed(user)) {
		return "", nil, s.fail(surface, key)
	}

	s.lockout.Reset(key)
	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}

	metrics.LoginAttemptsTotal.WithLabelValues(surface, "success").Inc()
	return token, user, nil
}

func (s *AuthService) fail(surface, key string) error {
	remaining, lockedFor := s.lockout.Fail(key)
	if lockedFor > 0 {
		metrics.LoginAttemptsTotal.WithLabelValues(surface, "locked").Inc()
		s.log.Warn().Str("surface", surface).Msg("sign-in locked after repeated failures")
		return &domain.LoginAttemptError{Err: domain.ErrAccountLocked, RetryAfter: lockedFor}
	}
	metrics.LoginAttemptsTotal.WithLabelValues(surface, "invalid").Inc()
	return &domain.LoginAttemptError{Err: domain.ErrInvalidCredentials, Remaining: remaining}
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Name,
		"role": user.Role.String(),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
