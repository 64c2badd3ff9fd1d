package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gharunnepal/marketplace/internal/api/middleware"
	"github.com/gharunnepal/marketplace/internal/core/domain"
	"github.com/gharunnepal/marketplace/internal/core/ports"
)

// ctxIdentity returns the authenticated identity and fails fast with 401
// when the Auth middleware did not run or produced nothing usable.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	id := middleware.IdentityFrom(c)
	if id == nil || id.ID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// ctxSession returns the session flags bound to the request. The nil
// interface is returned when no session is bound so callers can treat it
// as "no storage".
func ctxSession(c echo.Context) (sessionID string, flags ports.SessionFlags) {
	f := middleware.SessionFrom(c)
	if f == nil {
		return "", nil
	}
	return f.ID(), f
}

func ctxLang(c echo.Context) string {
	return middleware.LangFrom(c)
}
