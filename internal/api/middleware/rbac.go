package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gharunnepal/marketplace/internal/core/domain"
)

// RBAC admits only the listed roles.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}
	return Require(func(r domain.Role) bool {
		_, ok := allowed[r]
		return ok
	})
}

// RequireInternal admits every staff role.
func RequireInternal() echo.MiddlewareFunc {
	return Require(domain.Role.IsInternal)
}

// RequireOperational admits roles with operational access.
func RequireOperational() echo.MiddlewareFunc {
	return Require(domain.Role.HasOperationalAccess)
}

// MinLevel admits roles whose access level is at least level.
func MinLevel(level int) echo.MiddlewareFunc {
	return Require(func(r domain.Role) bool { return r.AccessLevel() >= level })
}

// Require admits identities whose role satisfies allow.
func Require(allow func(domain.Role) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFrom(c)
			if id == nil || !allow(id.Role) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
