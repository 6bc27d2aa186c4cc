package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/accounts-service/internal/config"
	"github.com/iliyamo/accounts-service/internal/database"
	"github.com/iliyamo/accounts-service/internal/handler"
	"github.com/iliyamo/accounts-service/internal/logging"
	"github.com/iliyamo/accounts-service/internal/middleware"
	"github.com/iliyamo/accounts-service/internal/queue"
	"github.com/iliyamo/accounts-service/internal/repository"
	"github.com/iliyamo/accounts-service/internal/router"
	"github.com/iliyamo/accounts-service/internal/service"
	"github.com/iliyamo/accounts-service/internal/utils"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "server exited", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log logging.Logger) error {
	if err := cfg.ValidateSecrets(); err != nil {
		return err
	}
	if cfg.IsDev() {
		log.Warn(ctx, "development mode: secret strength checks relaxed")
	}

	db, err := database.Open(ctx, database.Params{
		Driver: cfg.DBDriver,
		User:   cfg.DBUser,
		Pass:   cfg.DBPass,
		Host:   cfg.DBHost,
		Port:   cfg.DBPort,
		Name:   cfg.DBName,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	var users service.UserStore
	switch cfg.DBDriver {
	case database.DriverPostgres:
		users = repository.NewPgUserRepo(db)
	default:
		users = repository.NewUserRepo(db)
	}

	tokens := utils.NewJWTService(utils.TokenConfig{
		BearerSecret:  cfg.BearerSecret,
		BearerTTL:     cfg.BearerTTL,
		RefreshSecret: cfg.RefreshSecret,
		RefreshTTL:    cfg.RefreshTTL,
		Issuer:        cfg.JWTIssuer,
	})
	auth := service.NewAuthService(users, utils.NewBcryptEncoder(cfg.BcryptCost), tokens)

	var events queue.Publisher = queue.NopPublisher{}
	if cfg.AuditEnabled {
		pub, err := queue.DialPublisher(cfg.AMQPURL, queue.AuthEventsQueue)
		if err != nil {
			log.Warn(ctx, "audit publisher unavailable, events dropped", "err", err)
		} else {
			defer pub.Close()
			events = pub

			go func() {
				sink := queue.NewAuditSink(cfg.AuditLogPath)
				if err := queue.StartAuditConsumer(ctx, cfg.AMQPURL, sink, log.With("component", "audit")); err != nil && !errors.Is(err, context.Canceled) {
					log.Error(ctx, "audit consumer stopped", "err", err)
				}
			}()
		}
	}

	rlCfg := config.LoadRateLimitConfig()
	rdb := config.NewRedisClient(ctx)
	if rdb != nil {
		defer rdb.Close()
	} else if rlCfg.Enabled {
		log.Warn(ctx, "redis unavailable, rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))

	h := handler.NewAuthHandler(auth, users, events, log.With("component", "auth"), cfg.SignupAutoEnable)
	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, h, tokens, users, middleware.NewTokenBucket(rlCfg, rdb))

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", addr, "env", cfg.Env, "db_driver", cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
