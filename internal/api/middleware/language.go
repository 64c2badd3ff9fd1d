package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/gharunnepal/marketplace/internal/pkg/i18n"
)

// LangKey is the echo context key holding the resolved language tag string.
const LangKey = "lang"

// Language resolves the request language and remembers an explicit choice.
func Language(bundle *i18n.Bundle) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tag, persist := bundle.ResolveTag(c.Request())
			if persist {
				i18n.SetLanguageCookie(c.Response(), tag)
			}
			c.Set(LangKey, tag.String())
			return next(c)
		}
	}
}

// LangFrom returns the resolved language, defaulting to English.
func LangFrom(c echo.Context) string {
	if lang, ok := c.Get(LangKey).(string); ok && lang != "" {
		return lang
	}
	return "en"
}
