package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"taskbook_api/internal/config"
	"taskbook_api/internal/db"
	httpServer "taskbook_api/internal/http"
	"taskbook_api/internal/logger"
	"taskbook_api/internal/migrations"
	"taskbook_api/internal/repository"
	"taskbook_api/internal/service"

	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", "error", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("connect database", "error", err)
	}
	defer dbPool.Close()

	if cfg.AutoMigrate {
		if err := migrations.Apply(ctx, dbPool); err != nil {
			logger.Fatal("apply migrations", "error", err)
		}
		logger.Info("migrations applied")
	}

	users := repository.NewUserRepository(dbPool)
	tokens := service.NewTokenIssuer(cfg.JWTSecret)
	auth := service.NewAuthService(users, service.NewPasswordHasher(cfg.BcryptCost), tokens, cfg.AccessTokenTTL)

	r := httpServer.NewRouter(httpServer.Deps{
		Auth:   auth,
		Books:  repository.NewBookRepository(dbPool),
		Tasks:  repository.NewTaskRepository(dbPool),
		Tokens: tokens,
		Users:  users,
		DB:     dbPool,
		Schema: func(ctx context.Context) ([]string, error) { return migrations.Missing(ctx, dbPool) },
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server exited")
}
