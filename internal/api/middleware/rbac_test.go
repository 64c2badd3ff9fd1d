package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/gharunnepal/marketplace/internal/core/domain"
)

func runGuard(t *testing.T, mw echo.MiddlewareFunc, id *domain.Identity) (int, bool) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if id != nil {
		c.Set(IdentityKey, id)
	}

	called := false
	_ = mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return rec.Code, called
}

func TestRBAC_Allows(t *testing.T) {
	code, called := runGuard(t, RBAC(domain.RoleClient, domain.RoleProvider), &domain.Identity{ID: "u", Role: domain.RoleClient})
	if !called || code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d called=%v", code, called)
	}
}

func TestRBAC_Forbids(t *testing.T) {
	code, called := runGuard(t, RBAC(domain.RoleClient), &domain.Identity{ID: "u", Role: domain.RoleProvider})
	if called {
		t.Fatalf("should not reach next handler")
	}
	if code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
}

func TestRBAC_NoIdentity(t *testing.T) {
	code, called := runGuard(t, RequireInternal(), nil)
	if called || code != http.StatusForbidden {
		t.Fatalf("expected 403 without identity, got %d called=%v", code, called)
	}
}

func TestRequireInternal(t *testing.T) {
	tests := []struct {
		role domain.Role
		want bool
	}{
		{domain.RoleSupport, true},
		{domain.RoleVerifier, true},
		{domain.RoleOperations, true},
		{domain.RoleSuperAdmin, true},
		{domain.RoleClient, false},
		{domain.RoleProvider, false},
		{domain.RoleUnknown, false},
	}
	for _, tt := range tests {
		_, called := runGuard(t, RequireInternal(), &domain.Identity{ID: "u", Role: tt.role})
		if called != tt.want {
			t.Errorf("role %q: expected allowed=%v", tt.role, tt.want)
		}
	}
}

func TestMinLevel(t *testing.T) {
	tests := []struct {
		role domain.Role
		want bool
	}{
		{domain.RoleSupport, false},
		{domain.RoleVerifier, false},
		{domain.RoleOperations, true},
		{domain.RoleSuperAdmin, true},
		{domain.RoleClient, false},
	}
	for _, tt := range tests {
		_, called := runGuard(t, MinLevel(3), &domain.Identity{ID: "u", Role: tt.role})
		if called != tt.want {
			t.Errorf("role %q: expected allowed=%v", tt.role, tt.want)
		}
	}
}
