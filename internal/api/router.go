package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/gharunnepal/marketplace/docs"
	"github.com/gharunnepal/marketplace/internal/api/handler"
	"github.com/gharunnepal/marketplace/internal/api/middleware"
	"github.com/gharunnepal/marketplace/internal/core/domain"
	"github.com/gharunnepal/marketplace/internal/core/ports"
	"github.com/gharunnepal/marketplace/internal/infrastructure/session"
	"github.com/gharunnepal/marketplace/internal/pkg/i18n"
)

// assignLevel is the access level required to assign providers.
const assignLevel = 3

// Deps is everything the HTTP layer needs.
type Deps struct {
	JWTSecret    string
	SupportPhone string

	Auth     ports.AuthService
	Requests ports.RequestService
	Notifier ports.Notifier
	Shell    handler.ShellService
	Terms    handler.TermsService

	Sessions *session.Store
	Messages *i18n.Bundle
	Health   map[string]handler.Pinger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log, d.Messages)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "gharun",
		Registerer: d.Registerer,
	}))
	e.Use(middleware.Language(d.Messages))

	// --- Handlers ---
	shellHandler := handler.NewShellHandler(d.Shell, d.Messages)
	authHandler := handler.NewAuthHandler(d.Auth, d.Shell, d.Messages)
	termsHandler := handler.NewTermsHandler(d.Terms, d.Messages)
	requestHandler := handler.NewRequestHandler(d.Requests)
	adminHandler := handler.NewAdminHandler(d.Requests, d.Notifier)
	contactHandler := handler.NewContactHandler(d.SupportPhone, d.Messages)

	auth := middleware.Auth(d.JWTSecret)
	optionalAuth := middleware.OptionalAuth(d.JWTSecret)
	sess := middleware.Session(d.Sessions)
	gate := middleware.TermsGate(d.Terms, d.Messages)

	// --- Shell ---
	e.GET("/", shellHandler.Load, sess, optionalAuth)
	app := e.Group("/app", sess, optionalAuth)
	app.GET("/shell", shellHandler.Load)
	app.POST("/navigate", shellHandler.Navigate)
	app.DELETE("/ops", shellHandler.CancelOps)

	// --- Auth ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/ops/login", authHandler.OpsLogin, sess)
	e.POST("/auth/password-strength", authHandler.PasswordStrength)
	e.POST("/setup/bootstrap", authHandler.Bootstrap)

	// --- Terms ---
	terms := e.Group("/terms", auth)
	terms.GET("/status", termsHandler.Status)
	terms.POST("/accept", termsHandler.Accept)

	// --- API v1 ---
	v1 := e.Group("/v1")
	v1.GET("/requests/track/:code", requestHandler.Track)
	v1.GET("/contact", contactHandler.Contact)

	v1.POST("/requests", requestHandler.Submit, auth, middleware.RBAC(domain.RoleClient), gate)
	v1.GET("/client/dashboard", requestHandler.Dashboard, auth, middleware.RBAC(domain.RoleClient), gate)

	provider := v1.Group("/provider", auth, middleware.RBAC(domain.RoleProvider), gate)
	provider.GET("/dashboard", requestHandler.Dashboard)
	provider.PATCH("/requests/:code/status", requestHandler.UpdateStatus)

	admin := v1.Group("/admin", auth, middleware.RequireInternal())
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.POST("/notifications", adminHandler.SendNotification)
	admin.PATCH("/requests/:code/status", requestHandler.UpdateStatus, middleware.RequireOperational())
	admin.POST("/requests/:code/assign", adminHandler.Assign, middleware.MinLevel(assignLevel))

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Health)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
