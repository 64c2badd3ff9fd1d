package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/gharunnepal/marketplace/internal/infrastructure/session"
)

// SessionKey is the echo context key holding the *session.Flags.
const SessionKey = "session"

// Session binds the browser session to the request.
func Session(store *session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(SessionKey, store.Bind(c.Response(), c.Request()))
			return next(c)
		}
	}
}

// SessionFrom returns the bound session, or nil when the middleware did not run.
func SessionFrom(c echo.Context) *session.Flags {
	f, _ := c.Get(SessionKey).(*session.Flags)
	return f
}
