package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"equipment-inventory-api/internal/audit"
	"equipment-inventory-api/internal/auth"
	"equipment-inventory-api/internal/config"
	"equipment-inventory-api/internal/database"
	"equipment-inventory-api/internal/handler"
	"equipment-inventory-api/internal/middleware"
	"equipment-inventory-api/internal/repository"
	"equipment-inventory-api/internal/router"
	"equipment-inventory-api/internal/service"
	"equipment-inventory-api/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		applied, err := database.Migrate(context.Background(), db)
		if err != nil {
			return err
		}
		log.Info("migrations applied", zap.Int64s("versions", applied))
	}

	// Repositories
	equipmentRepo := repository.NewEquipmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	logRepo := repository.NewActionLogRepository(db)

	// Action log writer; drained before the database closes
	recorder := audit.NewRecorder(logRepo, audit.Config{
		QueueSize:     cfg.Audit.QueueSize,
		RetryAttempts: cfg.Audit.RetryAttempts,
		RetryDelay:    cfg.Audit.RetryDelay,
		WriteTimeout:  cfg.Audit.WriteTimeout,
	}, log)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Services
	authSvc := service.NewAuthService(userRepo, tokens, log.Named("auth"))
	equipmentSvc := service.NewEquipmentService(equipmentRepo, logRepo, recorder, log.Named("equipment"))
	userSvc := service.NewUserService(userRepo, log.Named("users"))

	httpLog := log.Named("http")
	h := router.NewRouter(router.Handlers{
		Equipment: handler.NewEquipmentHandler(equipmentSvc, httpLog),
		Auth:      handler.NewAuthHandler(authSvc, cfg.Auth.CookieSecure, httpLog),
		Users:     handler.NewUserHandler(userSvc, httpLog),
		System:    handler.NewSystemHandler(db, httpLog),
		Errors:    handler.NewErrorHandler(httpLog),
	}, middleware.NewAuthMiddleware(authSvc, httpLog), cfg, httpLog)

	// Configure server with security settings
	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Port),
		Handler:        h,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	// Channel to listen for interrupt signal to gracefully shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		log.Info("starting server",
			zap.Int("port", cfg.Port),
			zap.Int("rate_limit_rps", cfg.Security.RateLimitRPS),
			zap.Int("rate_limit_burst", cfg.Security.RateLimitBurst),
			zap.Bool("cors", cfg.Security.EnableCORS),
			zap.Duration("request_timeout", cfg.Security.RequestTimeout),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var result error
	select {
	case sig := <-done:
		log.Info("server is shutting down", zap.String("signal", sig.String()))
	case err := <-serveErr:
		result = fmt.Errorf("failed to start server: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Security.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Warn("server forced to shutdown", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}

	if err := recorder.Close(ctx); err != nil {
		log.Warn("action log recorder did not drain", zap.Error(err))
	}

	return result
}
