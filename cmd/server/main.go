package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cs2stats/cs2stats/internal/auth"
	"github.com/cs2stats/cs2stats/internal/config"
	"github.com/cs2stats/cs2stats/internal/db"
	"github.com/cs2stats/cs2stats/internal/email"
	trackerhttp "github.com/cs2stats/cs2stats/internal/http"
	"github.com/cs2stats/cs2stats/internal/http/middleware"
	"github.com/cs2stats/cs2stats/internal/logging"
	"github.com/cs2stats/cs2stats/internal/realtime"
	"github.com/cs2stats/cs2stats/internal/storage"
	"github.com/cs2stats/cs2stats/internal/validation"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store storage.Storage
	if cfg.HasDatabase() {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			logging.Error().Err(err).Msg("database connect failed")
			os.Exit(1)
		}
		defer pool.Close()
		if err := db.ApplyMigrations(ctx, pool); err != nil {
			logging.Error().Err(err).Msg("apply migrations failed")
			os.Exit(1)
		}
		store = storage.NewPostgres(pool)
		logging.Info().Msg("using postgres storage")
	} else {
		mem := storage.NewMemory()
		if err := storage.SeedDemoData(ctx, mem); err != nil {
			logging.Error().Err(err).Msg("seed demo data failed")
			os.Exit(1)
		}
		store = mem
		logging.Warn().Msg("DATABASE_URL not set, using in-memory storage")
	}

	if cfg.AuthMode == config.AuthModeDev {
		if err := storage.EnsureDevUser(ctx, store, cfg.DevUserID, cfg.DevEmail, cfg.DevRole); err != nil {
			logging.Error().Err(err).Msg("provision dev user failed")
			os.Exit(1)
		}
		logging.Warn().Str("user_id", cfg.DevUserID).Msg("dev auth mode enabled")
	}

	authSvc := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)
	validate := validation.New()
	mailer := email.NewMailer(cfg)

	hub := realtime.NewHub()
	commands := realtime.NewCommands(store, validate, hub, mailer)
	wsHandler := realtime.NewHandler(hub, commands, authSvc, store)

	handler := trackerhttp.NewHandler(store, authSvc, validate, hub, commands, mailer, cfg)
	authMW := middleware.NewAuth(authSvc, store, cfg)

	router := trackerhttp.NewRouter(trackerhttp.RouterDeps{
		Handler: handler,
		AuthMW:  authMW,
		WS:      wsHandler,
		Config:  cfg,
	})

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: router}
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error().Err(err).Msg("listen failed")
			stop()
		}
	}()

	<-ctx.Done()
	stop()
	logging.Info().Msg("shutting down")

	hub.CloseAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server shutdown failed")
	}
}

// ensure gin uses release mode in production
func init() {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
}
