package main

import (
	"context"
	"errors"
	stdhttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	handler "github.com/taskward/api/internal/adapters/handler/http"
	repo "github.com/taskward/api/internal/adapters/repository/postgres"
	"github.com/taskward/api/internal/config"
	"github.com/taskward/api/internal/core/services"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set")
	}

	db, err := repo.Connect(cfg)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	userRepo := repo.NewUserRepository(db)
	authRepo := repo.NewAuthRepository(db)
	taskRepo := repo.NewTaskRepository(db)

	userSvc := services.NewUserService(userRepo)
	authSvc := services.NewAuthService(userRepo, authRepo, services.AuthConfig{
		Secret:     []byte(cfg.JWTSecret),
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
	})
	taskSvc := services.NewTaskService(taskRepo)

	authHandler := handler.NewAuthHandler(userSvc, authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	taskHandler := handler.NewTaskHandler(taskSvc)
	router := handler.NewHandler(logger, authSvc, authHandler, userHandler, taskHandler)

	server := &stdhttp.Server{Addr: "0.0.0.0:" + cfg.AppPort, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", zap.Error(err))
	}
}
