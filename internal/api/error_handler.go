package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gharunnepal/marketplace/internal/api/middleware"
	"github.com/gharunnepal/marketplace/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error             string `json:"error"`
	Message           string `json:"message,omitempty"`
	AttemptsRemaining *int   `json:"attempts_remaining,omitempty"`
	RetryAfterSeconds int    `json:"retry_after_seconds,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain
// errors to status codes, logs unexpected ones without leaking details, and
// renders {"error": "<message>"}. Sign-in failures carry a localized message
// and the lockout details.
func NewHTTPErrorHandler(log zerolog.Logger, msgs middleware.Translator) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var attempt *domain.LoginAttemptError
		if errors.As(err, &attempt) {
			code, resp := loginAttemptResponse(attempt, msgs, middleware.LangFrom(c))
			if code == http.StatusTooManyRequests {
				c.Response().Header().Set("Retry-After", strconv.Itoa(resp.RetryAfterSeconds))
			}
			_ = c.JSON(code, resp)
			return
		}

		code, msg := resolveError(err, log, c)
		resp := errorResponse{Error: msg}
		if errors.Is(err, domain.ErrWeakPassword) {
			resp.Message = msgs.Sprintf(middleware.LangFrom(c), "auth.weak_password")
		}
		_ = c.JSON(code, resp)
	}
}

func loginAttemptResponse(e *domain.LoginAttemptError, msgs middleware.Translator, lang string) (int, errorResponse) {
	if errors.Is(e.Err, domain.ErrAccountLocked) {
		secs := int(math.Ceil(e.RetryAfter.Seconds()))
		mins := int(math.Ceil(e.RetryAfter.Minutes()))
		return http.StatusTooManyRequests, errorResponse{
			Error:             domain.ErrAccountLocked.Error(),
			Message:           msgs.Sprintf(lang, "auth.locked", mins),
			RetryAfterSeconds: secs,
		}
	}

	resp := errorResponse{
		Error:   domain.ErrInvalidCredentials.Error(),
		Message: msgs.Sprintf(lang, "auth.invalid_credentials"),
	}
	if e.Remaining > 0 {
		remaining := e.Remaining
		resp.AttemptsRemaining = &remaining
		resp.Message = msgs.Sprintf(lang, "auth.attempts_remaining", remaining)
	}
	return http.StatusUnauthorized, resp
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrRequestNotFound):
		return http.StatusNotFound, "service request not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusBadRequest, "name, email and password are required"
	case errors.Is(err, domain.ErrAccountLocked):
		return http.StatusTooManyRequests, domain.ErrAccountLocked.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrDuplicateIdempotencyKey):
		return http.StatusConflict, domain.ErrDuplicateIdempotencyKey.Error()
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, domain.ErrWeakPassword):
		return http.StatusUnprocessableEntity, domain.ErrWeakPassword.Error()
	case errors.Is(err, domain.ErrRoleNotAllowed):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrConsentRequired):
		return http.StatusUnprocessableEntity, domain.ErrConsentRequired.Error()
	case errors.Is(err, domain.ErrSetupUnavailable):
		// Same answer as an unknown route.
		return http.StatusNotFound, "not found"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
