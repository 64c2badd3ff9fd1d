package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/gharunnepal/marketplace/internal/core/domain"
	"github.com/gharunnepal/marketplace/internal/core/ports"
)

type stubUserRepo struct {
	users    map[string]*domain.User // keyed by email
	nextID   int
	countErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) seed(u *domain.User) {
	if u.Email == "" {
		u.Email = u.ID + "@example.com"
	}
	r.users[u.Email] = cloneUser(u)
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = fmt.Sprintf("user_%d", r.nextID)
	r.users[copy.Email] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) CountInternal(_ context.Context) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for _, u := range r.users {
		if u.Role.IsInternal() {
			n++
		}
	}
	return n, nil
}

const strongPassword = "Str0ng-pass"

func newAuthSvc(repo *stubUserRepo) *AuthService {
	return NewAuthService(repo, NewLockout(3, time.Minute), AuthConfig{
		JWTSecret: "secret",
		TokenTTL:  time.Hour,
		SetupKey:  "setup-123",
	}, discardLogger)
}

func register(t *testing.T, svc *AuthService, email, role string) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Test User", Email: email, Password: strongPassword, Role: role, Language: "en",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return user
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	notifier := &stubNotifier{}
	svc := newAuthSvc(repo).WithNotifier(notifier)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: " Alice ", Email: " Alice@Example.com ", Password: strongPassword, Role: "client", Language: "ne",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "alice@example.com" || user.Name != "Alice" {
		t.Errorf("expected normalized name and email, got %q %q", user.Name, user.Email)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(strongPassword)); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleClient {
		t.Fatalf("unexpected role: %s", user.Role)
	}

	if len(notifier.queued) != 1 {
		t.Fatalf("expected welcome notification, got %d", len(notifier.queued))
	}
	n := notifier.queued[0]
	if n.Event != domain.EventWelcome || n.To != user.Email || n.Language != "ne" || n.Reference != user.ID {
		t.Errorf("unexpected welcome notification: %+v", n)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name    string
		in      ports.RegisterInput
		wantErr error
	}{
		{
			name:    "missing name",
			in:      ports.RegisterInput{Email: "a@example.com", Password: strongPassword, Role: "client"},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name:    "internal role",
			in:      ports.RegisterInput{Name: "a", Email: "a@example.com", Password: strongPassword, Role: "super_admin"},
			wantErr: domain.ErrRoleNotAllowed,
		},
		{
			name:    "legacy admin label",
			in:      ports.RegisterInput{Name: "a", Email: "a@example.com", Password: strongPassword, Role: "admin"},
			wantErr: domain.ErrRoleNotAllowed,
		},
		{
			name:    "unknown role",
			in:      ports.RegisterInput{Name: "a", Email: "a@example.com", Password: strongPassword, Role: "Client"},
			wantErr: domain.ErrRoleNotAllowed,
		},
		{
			name:    "weak password",
			in:      ports.RegisterInput{Name: "a", Email: "a@example.com", Password: "password", Role: "provider"},
			wantErr: domain.ErrWeakPassword,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newStubUserRepo()
			svc := newAuthSvc(repo)

			if _, err := svc.Register(context.Background(), tc.in); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if len(repo.users) != 0 {
				t.Error("nothing must be stored")
			}
		})
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	register(t, svc, "bob@example.com", "client")
	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Bob", Email: "bob@example.com", Password: strongPassword, Role: "provider",
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func TestAuthService_Login_Success(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())
	register(t, svc, "carol@example.com", "provider")

	token, user, err := svc.Login(context.Background(), "Carol@example.com", strongPassword)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user == nil || user.Email != "carol@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["role"] != "provider" || claims["sub"] != user.ID {
		t.Fatalf("unexpected claims: %v", claims)
	}
}

func TestAuthService_Login_CountsDownThenLocks(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())
	register(t, svc, "dave@example.com", "client")

	for want := 2; want >= 1; want-- {
		_, _, err := svc.Login(context.Background(), "dave@example.com", "wrong")
		var attempt *domain.LoginAttemptError
		if !errors.As(err, &attempt) || !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected invalid credentials, got %v", err)
		}
		if attempt.Remaining != want {
			t.Errorf("expected %d attempts remaining, got %d", want, attempt.Remaining)
		}
	}

	_, _, err := svc.Login(context.Background(), "dave@example.com", "wrong")
	var attempt *domain.LoginAttemptError
	if !errors.As(err, &attempt) || !errors.Is(err, domain.ErrAccountLocked) {
		t.Fatalf("expected lock on third failure, got %v", err)
	}
	if attempt.RetryAfter <= 0 {
		t.Error("locked error must carry a retry delay")
	}

	// The correct password is refused while locked.
	if _, _, err := svc.Login(context.Background(), "dave@example.com", strongPassword); !errors.Is(err, domain.ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked, got %v", err)
	}
}

func TestAuthService_Login_SuccessResetsCounter(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())
	register(t, svc, "erin@example.com", "client")

	_, _, _ = svc.Login(context.Background(), "erin@example.com", "wrong")
	_, _, _ = svc.Login(context.Background(), "erin@example.com", "wrong")
	if _, _, err := svc.Login(context.Background(), "erin@example.com", strongPassword); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	_, _, err := svc.Login(context.Background(), "erin@example.com", "wrong")
	var attempt *domain.LoginAttemptError
	if !errors.As(err, &attempt) || attempt.Remaining != 2 {
		t.Fatalf("expected a fresh counter, got %v", err)
	}
}

func TestAuthService_Login_UnknownUserLooksLikeBadPassword(t *testing.T) {
	svc := newAuthSvc(newStubUserRepo())

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "pass")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUserStillHashes(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)
	register(t, svc, "known@example.com", "client")

	var hashes [][]byte
	svc.compare = func(hash, password []byte) error {
		hashes = append(hashes, hash)
		return bcrypt.CompareHashAndPassword(hash, password)
	}

	_, _, _ = svc.Login(context.Background(), "ghost@example.com", "wrong-pass")
	_, _, _ = svc.Login(context.Background(), "known@example.com", "wrong-pass")

	if len(hashes) != 2 {
		t.Fatalf("expected a bcrypt comparison for both emails, got %d", len(hashes))
	}
	if string(hashes[0]) != string(dummyHash()) {
		t.Error("unknown email must be compared against the fixed hash")
	}
	cost, err := bcrypt.Cost(hashes[0])
	if err != nil || cost != bcrypt.DefaultCost {
		t.Errorf("fixed hash must use the default cost, got %d (%v)", cost, err)
	}
}

func TestAuthService_LoginInternal_RejectsPublicRoles(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)
	register(t, svc, "client@example.com", "client")

	_, _, err := svc.LoginInternal(context.Background(), "client@example.com", strongPassword)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for a public account, got %v", err)
	}
}

func TestAuthService_LoginInternal_Staff(t *testing.T) {
	repo := newStubUserRepo()
	hash, _ := bcrypt.GenerateFromPassword([]byte(strongPassword), bcrypt.MinCost)
	repo.seed(&domain.User{ID: "staff_1", Email: "ops@example.com", PasswordHash: string(hash), Role: domain.RoleOperations})
	svc := newAuthSvc(repo)

	_, user, err := svc.LoginInternal(context.Background(), "ops@example.com", strongPassword)
	if err != nil {
		t.Fatalf("internal login failed: %v", err)
	}
	if user.Role != domain.RoleOperations {
		t.Errorf("unexpected role %s", user.Role)
	}
}

// ---------------------------------------------------------------------------
// Bootstrap
// ---------------------------------------------------------------------------

func TestAuthService_Bootstrap_CreatesSystemAccountOnce(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)
	in := ports.BootstrapInput{SetupKey: "setup-123", Name: "Root", Email: "root@example.com", Password: strongPassword}

	user, err := svc.Bootstrap(context.Background(), in)
	if err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if user.Role != domain.RoleSuperAdmin {
		t.Errorf("expected super_admin, got %s", user.Role)
	}

	in.Email = "root2@example.com"
	if _, err := svc.Bootstrap(context.Background(), in); !errors.Is(err, domain.ErrSetupUnavailable) {
		t.Fatalf("second bootstrap must be unavailable, got %v", err)
	}
}

func TestAuthService_Bootstrap_WrongKey(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthSvc(repo)

	_, err := svc.Bootstrap(context.Background(), ports.BootstrapInput{
		SetupKey: "nope", Name: "Root", Email: "root@example.com", Password: strongPassword,
	})
	if !errors.Is(err, domain.ErrSetupUnavailable) {
		t.Fatalf("expected ErrSetupUnavailable, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Error("nothing must be stored")
	}
}

func TestAuthService_Bootstrap_DisabledWithoutKey(t *testing.T) {
	svc := NewAuthService(newStubUserRepo(), nil, AuthConfig{JWTSecret: "secret"}, discardLogger)

	_, err := svc.Bootstrap(context.Background(), ports.BootstrapInput{Name: "Root", Email: "root@example.com", Password: strongPassword})
	if !errors.Is(err, domain.ErrSetupUnavailable) {
		t.Fatalf("expected ErrSetupUnavailable, got %v", err)
	}
}
