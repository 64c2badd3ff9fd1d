// @title                       Gharun Marketplace API
// @version                     1.0
// @description                 View routing, access control and service requests for the Gharun home-services marketplace.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gharunnepal/marketplace/internal/api"
	"github.com/gharunnepal/marketplace/internal/api/handler"
	"github.com/gharunnepal/marketplace/internal/core/service"
	mongodb "github.com/gharunnepal/marketplace/internal/infrastructure/db/mongo"
	redisdb "github.com/gharunnepal/marketplace/internal/infrastructure/db/redis"
	"github.com/gharunnepal/marketplace/internal/infrastructure/notify"
	"github.com/gharunnepal/marketplace/internal/infrastructure/queue"
	"github.com/gharunnepal/marketplace/internal/infrastructure/session"
	"github.com/gharunnepal/marketplace/internal/pkg/config"
	"github.com/gharunnepal/marketplace/internal/pkg/i18n"
	"github.com/gharunnepal/marketplace/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "gharun-marketplace",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	users := mongodb.NewUserRepository(db)
	terms := mongodb.NewTermsRepository(db)
	requests := mongodb.NewRequestRepository(db)
	audit := mongodb.NewAuditRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, terms, requests); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	msgs := i18n.MustLoad()

	// --- Notifications ---
	sender := notify.NewLocalizedSender(notify.NewEmailFunction(notify.EmailFunctionConfig{
		URL:     cfg.Email.FunctionURL,
		APIKey:  cfg.Email.APIKey,
		Timeout: cfg.Email.Timeout,
	}), msgs)
	notifications := service.NewNotificationService(sender, audit, redisdb.NewDedupStore(rdb), logger.For("notifications"))
	dispatcher := queue.NewDispatcher(cfg.Notify.Workers, notifications, logger.For("dispatcher"))
	dispatcher.Start(ctx)

	// --- Services ---
	authService := service.NewAuthService(users, service.NewLockout(0, 0), service.AuthConfig{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		SetupKey:  cfg.SetupKey,
	}, logger.For("auth")).WithNotifier(dispatcher)
	requestService := service.NewRequestService(requests, users, dispatcher, logger.For("requests"))
	termsGate := service.NewTermsGate(terms, logger.For("terms"))
	shell := service.NewShellService(
		service.NewEntryDetector(cfg.SetupKey, cfg.OpsKey, logger.For("entry")),
		service.NewViewRouter(),
		redisdb.NewViewStateStore(rdb),
		logger.For("shell"),
	)

	e := api.NewRouter(api.Deps{
		JWTSecret:    cfg.JWTSecret,
		SupportPhone: cfg.SupportPhone,
		Auth:         authService,
		Requests:     requestService,
		Notifier:     dispatcher,
		Shell:        shell,
		Terms:        termsGate,
		Sessions:     session.NewStore(session.Options{Secret: cfg.SessionSecret, Secure: cfg.IsProduction()}),
		Messages:     msgs,
		Health: map[string]handler.Pinger{
			"mongodb": handler.PingFunc(func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) }),
			"redis":   handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		},
		Log: log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
}
