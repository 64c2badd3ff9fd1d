package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/gharunnepal/marketplace/internal/core/domain"
)

// IdentityKey is the echo context key holding the *domain.Identity.
const IdentityKey = "identity"

var errMissingToken = errors.New("missing authorization header")

// Auth validates the JWT and injects the identity into context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := parseIdentity(c.Request().Header.Get("Authorization"), jwtSecret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}
			c.Set(IdentityKey, id)
			return next(c)
		}
	}
}

// OptionalAuth injects the identity when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id, err := parseIdentity(c.Request().Header.Get("Authorization"), jwtSecret); err == nil {
				c.Set(IdentityKey, id)
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the authenticated identity, or nil.
func IdentityFrom(c echo.Context) *domain.Identity {
	id, _ := c.Get(IdentityKey).(*domain.Identity)
	return id
}

func parseIdentity(authHeader, jwtSecret string) (*domain.Identity, error) {
	if authHeader == "" {
		return nil, errMissingToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, errors.New("invalid authorization header")
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("token missing subject")
	}
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)

	return &domain.Identity{ID: sub, Name: name, Role: domain.ParseRole(role)}, nil
}
