package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/gharunnepal/marketplace/internal/core/domain"
)

// GateChecker resolves the terms gate for an identity.
type GateChecker interface {
	Check(ctx context.Context, id *domain.Identity) domain.GateStatus
}

// Translator prints a catalog message in a language.
type Translator interface {
	Sprintf(lang, key string, args ...any) string
}

type gateDenied struct {
	Error  string            `json:"error"`
	Gate   domain.GateStatus `json:"gate"`
	Prompt string            `json:"prompt"`
}

// TermsGate lets the request through only once the current terms and
// privacy versions are accepted. Any other outcome, including a failed
// lookup, answers 428 and never calls the wrapped handler.
func TermsGate(gate GateChecker, msgs Translator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := IdentityFrom(c)
			if id == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
			}

			status := gate.Check(c.Request().Context(), id)
			if !status.Allows() {
				return c.JSON(http.StatusPreconditionRequired, gateDenied{
					Error:  "terms_not_accepted",
					Gate:   status,
					Prompt: msgs.Sprintf(LangFrom(c), "terms.prompt"),
				})
			}
			return next(c)
		}
	}
}
